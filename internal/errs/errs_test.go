package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	custom := "USER_NOT_FOUND"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"bad request", NewBadRequestError("bad", false, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"not found custom code", NewNotFoundError("missing", true, &custom), http.StatusNotFound, custom},
		{"unavailable", NewServiceUnavailableError("down"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
		})
	}
}

func TestHTTPErrorMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("missing", false, nil))

	if !errors.Is(wrapped, &HTTPError{}) {
		t.Fatal("errors.Is should match any *HTTPError")
	}

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) || httpErr.Status != http.StatusNotFound {
		t.Fatalf("errors.As = %+v", httpErr)
	}
}

func TestWithMessageCopies(t *testing.T) {
	base := NewBadRequestError("original", true, nil, []FieldError{{Field: "limit", Error: "is required"}})
	copied := base.WithMessage("changed")

	if base.Message != "original" {
		t.Fatalf("base mutated: %q", base.Message)
	}
	if copied.Message != "changed" || copied.Status != base.Status || len(copied.Errors) != 1 {
		t.Fatalf("copy = %+v", copied)
	}
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	if got := MakeUpperCaseWithUnderscores("Service Unavailable"); got != "SERVICE_UNAVAILABLE" {
		t.Fatalf("got %q", got)
	}
}
