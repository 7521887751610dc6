package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/MdShahnawaz474/Paytm-project/internal/handlers"
	appmw "github.com/MdShahnawaz474/Paytm-project/internal/middleware"
)

func NewRoutes(h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/login", h.LoginHandler)
	r.With(appmw.Authenticated).Get("/auth/me", h.MeHandler)

	r.With(appmw.Authenticated).Get("/balance", h.BalanceHandler)
	r.With(appmw.Authenticated).Post("/transfer", h.TransferHandler)
	r.With(appmw.Authenticated).Get("/transfers", h.TransfersHandler)

	r.With(appmw.Authenticated).Get("/deposits", h.DepositsHandler)
	r.With(appmw.Authenticated).Post("/deposits", h.BeginDepositHandler)

	// Bank settlement callback; carries no user session.
	r.Post("/deposits/{id}/settle", h.SettleDepositHandler)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
