package bins

import (
	"net/http"
	"strconv"

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in BinInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	b, err := h.svc.Create(r.Context(), utils.GetUserIDFromRequest(r), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": "success", "bin": b})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bins, err := h.svc.List(r.Context(), utils.GetUserIDFromRequest(r), utils.IsAdmin(r))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "bins": bins})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.svc.Get(r.Context(), ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdmin(r))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "bin": b})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in BinInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	b, err := h.svc.Update(r.Context(), ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdmin(r), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "bin": b})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdmin(r)); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success"})
}

// Stats handles GET /api/admin/bins/stats (admin)
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "stats": stats})
}

// QR handles GET /api/bins/:id/qr
func (h *Handler) QR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.svc.Get(r.Context(), ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdmin(r))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	png, err := QRCode(b.ID)
	if err != nil {
		h.log.Errorw("qr encode failed", "bin", b.ID, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not generate QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
