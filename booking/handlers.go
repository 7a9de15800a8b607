package booking

import (
	"context"
	"net/http"
	"strconv"

	"wastewise/models"
	"wastewise/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// UserLookup resolves the account name printed on receipts.
type UserLookup interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

type Handler struct {
	svc    *Service
	signer *ReceiptSigner
	users  UserLookup
	log    *zap.SugaredLogger
}

func NewHandler(svc *Service, signer *ReceiptSigner, users UserLookup, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, signer: signer, users: users, log: log}
}

// CheckAvailability handles GET /api/special-collections/availability?date=
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.svc.CheckAvailability(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, slots)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in CreateInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	b, err := h.svc.Create(r.Context(), utils.GetUserIDFromRequest(r), in)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": "success", "booking": b})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.svc.ListForUser(r.Context(), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "bookings": bookings})
}

// Receipt handles GET /api/special-collections/receipts/:id
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.svc.Get(r.Context(), ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdmin(r))
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}

	holder := b.UserID
	if h.users != nil {
		if u, err := h.users.FindByID(r.Context(), b.UserID); err == nil {
			holder = u.Name
		}
	}

	pdf, err := h.signer.RenderReceipt(b, holder)
	if err != nil {
		h.log.Errorw("receipt render failed", "booking", b.ID, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+b.ID+".pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// VerifyReceipt handles POST /api/special-collections/receipts/verify for collection crews.
func (h *Handler) VerifyReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Payload string `json:"payload"`
	}
	if err := utils.DecodeJSON(r, &body); err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	claim, err := h.signer.Parse(body.Payload)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	b, err := h.svc.CheckReceipt(r.Context(), claim)
	if err != nil {
		utils.RespondWithAppError(w, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "success", "valid": true, "booking": b})
}
