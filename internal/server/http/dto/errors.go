package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

// PartialOrderResponse reports an order that was created while some of its
// attachments could not be stored.
type PartialOrderResponse struct {
	ErrorResponse
	ID             string               `json:"id"`
	SequenceNumber int64                `json:"sequenceNumber"`
	Attachments    []AttachmentResponse `json:"attachments"`
}

// PartialAttachResponse lists the attachments that were stored when others
// failed.
type PartialAttachResponse struct {
	ErrorResponse
	Attachments []AttachmentResponse `json:"attachments"`
}
