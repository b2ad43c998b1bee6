package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/medstore/api/internal/domain"
	"github.com/medstore/api/internal/service/auth"
)

type authContextKey string

const contextKeyUser authContextKey = "medstore-auth-user"

// Rejection messages for the three admission branches. The token branch
// deliberately does not say whether the token was malformed, tampered with
// or expired.
const (
	msgNoToken      = "Unauthorized - Bearer token not provided"
	msgInvalidToken = "Unauthorized - Invalid token"
	msgInvalidUser  = "Unauthorized - Invalid user"
)

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth admits a request only when it carries a valid bearer token
// naming an existing user. Every rejection short-circuits with a 401 and the
// wrapped handler never runs.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		token, err := bearerToken(req.Header.Get("Authorization"))
		if err != nil {
			r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
			writeError(w, http.StatusUnauthorized, msgNoToken)
			return
		}
		user, err := r.auth.Authorize(req.Context(), token)
		if err != nil {
			r.logger.Warn("token admission failed", "error", err, "path", req.URL.Path)
			if errors.Is(err, auth.ErrUnknownUser) {
				writeError(w, http.StatusUnauthorized, msgInvalidUser)
				return
			}
			writeError(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUser, user)
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// userFromContext extracts the admitted user from context.
func userFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(contextKeyUser).(*domain.User)
	return user, ok && user != nil
}

func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}
