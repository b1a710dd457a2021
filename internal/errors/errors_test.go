package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(ErrInternalServer, cause)

	if err.Code != "INTERNAL_ERROR" || err.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected fields: %+v", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if !stderrors.Is(err, ErrInternalServer) {
		t.Error("expected sentinel match by code")
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidInput, "amount must be greater than zero")
	if err.Message != "amount must be greater than zero" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.Code != ErrInvalidInput.Code {
		t.Errorf("expected code %s, got %s", ErrInvalidInput.Code, err.Code)
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Error("different codes must not match")
	}
}
