package auth

import "time"

// OperatorSubject is the subject of tokens issued to the shop operator.
const OperatorSubject = "operator"

type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
