package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PankiTrejd/naracki/internal/pkg/auth"
)

const hashPasswordCommand = "hash-password"

// hashPassword prints the bcrypt hash of the password given as the only
// argument, or read from the first line of in.
func hashPassword(args []string, in io.Reader, out io.Writer) error {
	var password string
	switch len(args) {
	case 0:
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	case 1:
		password = args[0]
	default:
		return fmt.Errorf("usage: naracki %s [password]", hashPasswordCommand)
	}

	hash, err := auth.NewBcryptHasher(0).Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
