package auth

import (
	"net/http"

	"wastewise/middleware"
	"wastewise/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
	log *zap.SugaredLogger
}

func NewHandler(svc *Service, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	if err := h.svc.ForgotPassword(r.Context(), body.Email); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  "success",
		"message": "A password reset code has been sent to your email",
	})
}

// ResetPassword handles PATCH /api/auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in ResetInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	session, err := h.svc.ResetPassword(r.Context(), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	respondWithSession(w, http.StatusOK, session)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in RegisterInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	session, err := h.svc.Register(r.Context(), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	respondWithSession(w, http.StatusCreated, session)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	session, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	respondWithSession(w, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok || claims.ExpiresAt == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	if err := h.svc.Logout(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "message": "Logged out successfully"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := h.svc.Me(r.Context(), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "user": user})
}

func respondWithSession(w http.ResponseWriter, code int, s *Session) {
	utils.RespondWithJSON(w, code, utils.M{
		"status":    "success",
		"token":     s.Token,
		"expiresAt": s.ExpiresAt,
		"user":      s.User,
	})
}
