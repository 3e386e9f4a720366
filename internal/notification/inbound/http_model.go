package inbound

// HeaderIdempotencyKey lets clients retry a submission without sending it twice.
const HeaderIdempotencyKey = "Idempotency-Key"

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

type ContactResponse struct{}

func (ContactResponse) Message() string {
	return "your message has been sent"
}
