package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fkhayef/profiles/internal/user"
	"github.com/fkhayef/profiles/pkg/response"
)

// UserIDHeader identifies the caller in development deployments
const UserIDHeader = "X-User-ID"

// CallerLookup resolves an authenticated user id to its directory entry
type CallerLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Caller resolves the X-User-ID header into the request's caller.
// Requests without the header continue anonymously; unknown ids are rejected.
func Caller(lookup CallerLookup, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				response.Unauthorized(w, "Invalid user id")
				return
			}

			caller, err := lookup.GetByID(r.Context(), userID)
			if err != nil {
				logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to resolve caller")
				response.InternalError(w, "Failed to resolve caller")
				return
			}
			if caller == nil {
				response.Unauthorized(w, "Unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(user.WithCaller(r.Context(), caller)))
		})
	}
}
