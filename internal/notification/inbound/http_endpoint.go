package inbound

import (
	"strings"

	"github.com/shandysiswandi/gocharity/internal/notification/usecase"
	"github.com/shandysiswandi/gocharity/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Contact mails a contact form message to the organisation.
// @Summary Contact us
// @Description Sends the message to the configured contact address. Repeating a request with the same Idempotency-Key does not send it again.
// @Tags Notification
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated key for safe retries"
// @Param request body ContactRequest true "Contact payload"
// @Success 200 {object} router.successResponse{data=ContactResponse} "Message sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Same key is still being processed"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/contact [post]
func (h *HTTPEndpoint) Contact(r *router.Request) (any, error) {
	var req ContactRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SendContact(r.Context(), usecase.ContactInput{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Subject:        strings.TrimSpace(req.Subject),
		Content:        req.Content,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey)),
	}); err != nil {
		return nil, err
	}

	return ContactResponse{}, nil
}
