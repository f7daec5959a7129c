package requestctx

import (
	"context"
	"testing"
)

func TestAccountIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithAccountID(context.Background(), "account-1")
	if got := AccountIDFromContext(ctx); got != "account-1" {
		t.Fatalf("account id = %q, want %q", got, "account-1")
	}
}

func TestCharacterIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithCharacterID(context.Background(), "char-1")
	if got := CharacterIDFromContext(ctx); got != "char-1" {
		t.Fatalf("character id = %q, want %q", got, "char-1")
	}
}

func TestMissingValues(t *testing.T) {
	t.Parallel()

	if got := AccountIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty account id, got %q", got)
	}
	if got := CharacterIDFromContext(nil); got != "" {
		t.Fatalf("expected empty character id, got %q", got)
	}
}
