package export

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/httperr"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
)

// Lister is the part of the investment service exports read from.
type Lister interface {
	List(ctx context.Context, ownerID string) ([]entity.Investment, error)
}

type Handler struct {
	records Lister
	logger  *zap.SugaredLogger
}

func NewHandler(records Lister, logger *zap.SugaredLogger) *Handler {
	return &Handler{records: records, logger: logger}
}

func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "csv", "text/csv", CSVFilename, CSV)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "pdf", "application/pdf", PDFFilename, PDF)
}

// serve renders the whole document before the first byte is written, so a
// render failure can still become a clean 500.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, kind, contentType, filename string, render func([]entity.Investment) ([]byte, error)) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	recs, err := h.records.List(r.Context(), id.UserID)
	if err != nil {
		h.logger.Errorw("export: list investments failed", "kind", kind, "err", err)
		httperr.Write(w, httperr.Internal(err))
		return
	}
	if len(recs) == 0 {
		httperr.Write(w, httperr.NotFound("no records found"))
		return
	}
	out, err := render(recs)
	if err != nil {
		h.logger.Errorw("export: render failed", "kind", kind, "err", err)
		httperr.Write(w, httperr.Internal(err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
