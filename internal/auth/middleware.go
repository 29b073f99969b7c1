package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/httperr"
)

var ErrMissingToken = errors.New("missing authorization header")

const bearerPrefix = "Bearer "

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by the gate. ok is false on routes
// that are not behind Require.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}

// Gate authenticates requests to protected routes. It trusts a valid token
// without checking that the user still exists.
type Gate struct {
	verifier Verifier
	logger   *zap.SugaredLogger
}

func NewGate(v Verifier, logger *zap.SugaredLogger) *Gate {
	return &Gate{verifier: v, logger: logger}
}

// Authorize extracts the token from the Authorization header, accepting
// either "Bearer <token>" or the bare token, and verifies it.
func (g *Gate) Authorize(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, ErrMissingToken
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	return g.verifier.Verify(token)
}

// Require wraps next so that it only runs for authenticated requests.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.Authorize(r)
		if err != nil {
			g.logger.Debugw("request rejected", "path", r.URL.Path, "reason", err)
			httperr.Write(w, httperr.Unauthorized())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireFunc is Require for plain handler funcs.
func (g *Gate) RequireFunc(next http.HandlerFunc) http.Handler {
	return g.Require(next)
}
