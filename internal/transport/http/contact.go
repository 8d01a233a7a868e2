package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/four2theizz0/gearz/internal/domain"
)

// QuestionNotifier forwards a storefront question to the admin inbox.
type QuestionNotifier interface {
	NotifyQuestion(ctx context.Context, name, email, message string) error
}

// HandleContact returns an HTTP handler for the contact form.
func HandleContact(notifier QuestionNotifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req contactRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := notifier.NotifyQuestion(r.Context(), req.Name, req.Email, req.Message); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to send message")
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r contactRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.ErrNameRequired
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return domain.ErrInvalidEmail
	}
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message is required")
	}
	return nil
}

type successResponse struct {
	Success bool `json:"success"`
}
