package routes

import (
	"fmt"
	"net/http"

	"wastewise/auth"
	"wastewise/bins"
	"wastewise/booking"
	"wastewise/globals"
	"wastewise/middleware"
	"wastewise/ratelim"

	"github.com/julienschmidt/httprouter"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, mw *middleware.Auth, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(h.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(h.Login))
	router.POST("/api/auth/logout", mw.Authenticate(h.Logout))
	router.GET("/api/auth/me", mw.Authenticate(h.Me))
	router.POST("/api/auth/forgot-password", rateLimiter.Limit(h.ForgotPassword))
	router.PATCH("/api/auth/reset-password", rateLimiter.Limit(h.ResetPassword))
}

func AddBookingRoutes(router *httprouter.Router, h *booking.Handler, hub *booking.Hub, mw *middleware.Auth, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/special-collections/availability", rateLimiter.Limit(h.CheckAvailability))
	router.GET("/api/special-collections/live", hub.HandleWS)
	router.POST("/api/special-collections", rateLimiter.Limit(mw.Authenticate(h.Create)))
	router.GET("/api/special-collections/me", mw.Authenticate(h.ListMine))
	router.GET("/api/special-collections/receipts/:id", mw.Authenticate(h.Receipt))
	router.POST("/api/special-collections/receipts/verify", mw.Authenticate(middleware.RequireRole(globals.RoleAdmin)(h.VerifyReceipt)))
}

func AddBinRoutes(router *httprouter.Router, h *bins.Handler, mw *middleware.Auth, rateLimiter *ratelim.RateLimiter) {
	adminOnly := middleware.RequireRole(globals.RoleAdmin)

	router.POST("/api/bins", rateLimiter.Limit(mw.Authenticate(h.Create)))
	router.GET("/api/bins", mw.Authenticate(h.List))
	router.GET("/api/admin/bins/stats", mw.Authenticate(adminOnly(h.Stats)))
	router.GET("/api/bins/:id", mw.Authenticate(h.Get))
	router.PUT("/api/bins/:id", mw.Authenticate(h.Update))
	router.DELETE("/api/bins/:id", mw.Authenticate(h.Delete))
	router.GET("/api/bins/:id/qr", mw.Authenticate(h.QR))
}
