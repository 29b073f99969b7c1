package investment

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/httperr"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/investment/entity"
)

// Handler exposes the record CRUD endpoints. All routes sit behind the gate.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	var req CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid investment payload", "err", err)
		httperr.Write(w, httperr.BadRequest("invalid payload"))
		return
	}
	inv, err := h.svc.Create(r.Context(), id.UserID, req)
	if err != nil {
		h.fail(w, "create investment", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	list, err := h.svc.List(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, "list investments", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	// Only the Patch fields are decoded; anything else in the body is dropped.
	var patch entity.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Debugw("invalid investment patch", "err", err)
		httperr.Write(w, httperr.BadRequest("invalid payload"))
		return
	}
	inv, err := h.svc.Update(r.Context(), id.UserID, r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, "update investment", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	if err := h.svc.Delete(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		h.fail(w, "delete investment", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, messageResponse{Message: "investment deleted"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		httperr.Write(w, httperr.Validation(verrs))
	case errors.Is(err, ErrEmptyPatch):
		httperr.Write(w, httperr.BadRequest(ErrEmptyPatch.Error()))
	case errors.Is(err, ErrNotFound):
		httperr.Write(w, httperr.NotFound("not found"))
	default:
		h.logger.Errorw(op+" failed", "err", err)
		httperr.Write(w, httperr.Internal(err))
	}
}
