package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/export"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/httperr"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/user"
)

// Handlers groups everything the route table mounts.
type Handlers struct {
	Users          *user.Handler
	Investments    *investment.Handler
	Exports        *export.Handler
	Gate           *auth.Gate
	AllowedOrigins []string
}

// RegisterRoutes mounts HTTP handlers on the standard library's http.ServeMux
// and wraps the mux in the middleware chain.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("backend is running"))
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httperr.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// account
	mux.HandleFunc("POST /api/auth/register", h.Users.Register)
	mux.HandleFunc("POST /api/auth/login", h.Users.Login)
	mux.Handle("GET /api/user/profile", h.Gate.RequireFunc(h.Users.Profile))
	mux.Handle("PUT /api/user/update", h.Gate.RequireFunc(h.Users.UpdateProfile))

	// records
	mux.Handle("POST /api/investments", h.Gate.RequireFunc(h.Investments.Create))
	mux.Handle("GET /api/investments", h.Gate.RequireFunc(h.Investments.List))
	mux.Handle("PUT /api/investments/{id}", h.Gate.RequireFunc(h.Investments.Update))
	mux.Handle("DELETE /api/investments/{id}", h.Gate.RequireFunc(h.Investments.Delete))

	// exports
	mux.Handle("GET /api/export/csv", h.Gate.RequireFunc(h.Exports.CSV))
	mux.Handle("GET /api/export/pdf", h.Gate.RequireFunc(h.Exports.PDF))

	var handler http.Handler = mux
	handler = CORSMiddleware(h.AllowedOrigins)(handler)
	handler = SecurityHeadersMiddleware()(handler)
	handler = LoggingMiddleware(logger)(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}
