// Package requestctx carries request-scoped identity through context values.
package requestctx

import "context"

// accountIDContextKey is the context key for the authenticated account.
type accountIDContextKey struct{}

// characterIDContextKey is the context key for the acting character.
type characterIDContextKey struct{}

// WithAccountID stores an account identifier in context.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, accountIDContextKey{}, accountID)
}

// AccountIDFromContext returns the account identifier stored in context.
func AccountIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(accountIDContextKey{}).(string)
	return value
}

// WithCharacterID stores the acting character identifier in context.
func WithCharacterID(ctx context.Context, characterID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, characterIDContextKey{}, characterID)
}

// CharacterIDFromContext returns the acting character identifier stored in context.
func CharacterIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(characterIDContextKey{}).(string)
	return value
}
