package user

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-investment-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/httperr"
	"github.com/ovaphlow/pitchfork/service-investment-go/internal/user/entity"
)

// Handler exposes HTTP endpoints for account operations (register, login, profile).
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type messageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// ProfileUpdateResponse echoes the updated user.
type ProfileUpdateResponse struct {
	Message string       `json:"message"`
	User    *entity.User `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		httperr.Write(w, httperr.BadRequest("invalid payload"))
		return
	}
	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.fail(w, "register", err)
		return
	}
	h.logger.Infow("user registered", "user_id", u.ID)
	httperr.WriteJSON(w, http.StatusOK, messageResponse{Message: "registration successful"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		httperr.Write(w, httperr.BadRequest("invalid payload"))
		return
	}
	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	u, err := h.svc.Profile(r.Context(), id.UserID)
	if err != nil {
		h.fail(w, "profile", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httperr.Write(w, httperr.Unauthorized())
		return
	}
	var req UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid profile payload", "err", err)
		httperr.Write(w, httperr.BadRequest("invalid payload"))
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), id.UserID, req)
	if err != nil {
		h.fail(w, "update profile", err)
		return
	}
	httperr.WriteJSON(w, http.StatusOK, ProfileUpdateResponse{Message: "profile updated", User: u})
}

// fail maps service errors to responses.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		httperr.Write(w, httperr.Validation(verrs))
	case errors.Is(err, ErrBadCredentials):
		h.logger.Debugw(op+" failed", "err", err)
		httperr.Write(w, httperr.BadRequest("invalid credentials"))
	case errors.Is(err, ErrCredentialInUse):
		httperr.Write(w, httperr.Conflict("credential already in use"))
	case errors.Is(err, ErrUserNotFound):
		httperr.Write(w, httperr.NotFound("user not found"))
	default:
		h.logger.Errorw(op+" failed", "err", err)
		httperr.Write(w, httperr.Internal(err))
	}
}
