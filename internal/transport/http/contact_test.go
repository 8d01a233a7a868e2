package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleContact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		notifyErr      error
		expectedStatus int
	}{
		{
			name:           "success",
			body:           `{"name":"Jo","email":"jo@example.com","message":"Is the headgear still available?"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           `{"email":"jo@example.com","message":"hi"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad email",
			body:           `{"name":"Jo","email":"not-an-email","message":"hi"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty message",
			body:           `{"name":"Jo","email":"jo@example.com","message":"  "}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "send failure",
			body:           `{"name":"Jo","email":"jo@example.com","message":"hi"}`,
			notifyErr:      errors.New("smtp down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			notifier := &stubQuestionNotifier{err: tt.notifyErr}
			req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleContact(notifier).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && notifier.name != "Jo" {
				t.Fatalf("expected question to reach the notifier, got name %q", notifier.name)
			}
		})
	}
}

type stubQuestionNotifier struct {
	err  error
	name string
}

func (s *stubQuestionNotifier) NotifyQuestion(_ context.Context, name, _ string, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.name = name
	return nil
}
