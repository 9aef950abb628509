package organizerctx

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// OrganizerContextKey is the request context key for the authenticated organizer ID.
type OrganizerContextKey struct{}

// WithOrganizerID stores the organizer ID in the context.
func WithOrganizerID(ctx context.Context, organizerID snowflake.ID) context.Context {
	return context.WithValue(ctx, OrganizerContextKey{}, organizerID)
}

// OrganizerIDFromContext returns the organizer ID from context, if set.
func OrganizerIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	if ctx == nil {
		return 0, false
	}

	value := ctx.Value(OrganizerContextKey{})
	if value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case snowflake.ID:
		return typed, true
	case int64:
		return snowflake.ID(typed), true
	case string:
		parsed, err := snowflake.ParseString(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}
