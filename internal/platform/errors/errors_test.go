package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeOnCooldown, "cooldown active")
	target := New(CodeOnCooldown, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with same code to match")
	}
	if stderrors.Is(err, New(CodeHourlyLimitReached, "cooldown active")) {
		t.Fatal("expected errors with different codes to not match")
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("row missing")
	err := Wrap(CodeNotFound, "character not found", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
}

func TestErrorThroughFmtWrap(t *testing.T) {
	t.Parallel()

	inner := New(CodeAlreadyDead, "character is already dead")
	wrapped := fmt.Errorf("process death: %w", inner)

	var domainErr *Error
	if !stderrors.As(wrapped, &domainErr) {
		t.Fatal("expected domain error in chain")
	}
	if domainErr.Code != CodeAlreadyDead {
		t.Fatalf("code = %q, want %q", domainErr.Code, CodeAlreadyDead)
	}
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want int
	}{
		{CodeSelfKill, http.StatusBadRequest},
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyDead, http.StatusConflict},
		{CodeNotDead, http.StatusConflict},
		{CodeOnCooldown, http.StatusTooManyRequests},
		{CodeHourlyLimitReached, http.StatusTooManyRequests},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}
