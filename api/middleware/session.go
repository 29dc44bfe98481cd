package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/SoiBeTiiii/datn-sub000/api/responses"
	pkgauth "github.com/SoiBeTiiii/datn-sub000/pkg/auth"
	"github.com/SoiBeTiiii/datn-sub000/pkg/config"
	pkgerrors "github.com/SoiBeTiiii/datn-sub000/pkg/errors"
	"github.com/SoiBeTiiii/datn-sub000/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the caller's identity. A valid bearer token yields a user
// key and the token's session id; anonymous callers fall back to the
// X-Session-Id header, and a fresh session id is minted when neither is
// present. The resolved session id is always echoed back in the response.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var userKey, sessionID string

			if token := bearerToken(r); token != "" {
				claims, err := pkgauth.ParseSessionToken(cfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}
				userKey = claims.UserKey()
				sessionID = claims.SessionID()
			}

			if sessionID == "" {
				sessionID = strings.TrimSpace(r.Header.Get(sessionIDHeader))
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx = WithSessionID(ctx, sessionID)
			if userKey != "" {
				ctx = WithUserKey(ctx, userKey)
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
				if userKey != "" {
					ctx = logg.WithUserKey(ctx, userKey)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that resolved without an authenticated user.
// Wishlist routes sit behind this; the cart works anonymously.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserKeyFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
