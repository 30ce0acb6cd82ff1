package routes

import (
	"net/http"

	"github.com/Tanvirgit07/TK-Anii-server/internal/auth"
	"github.com/Tanvirgit07/TK-Anii-server/internal/handlers"
	appmw "github.com/Tanvirgit07/TK-Anii-server/internal/middleware"
	"github.com/Tanvirgit07/TK-Anii-server/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes(authHandler *auth.Handler, h *handlers.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("server is running"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.With(appmw.Authenticated).Post("/logout", authHandler.Logout)

	r.With(appmw.Authenticated).Post("/send-money", h.SendMoney)
	r.With(appmw.Authenticated).Post("/cash-out", h.CashOut)

	r.With(appmw.Authenticated).Post("/cash-in-request", h.CashInRequest)
	r.With(appmw.Authenticated).Get("/transactions/pending", h.PendingCashIn)
	r.With(appmw.Authenticated).Post("/cash-in-approve", h.ApproveCashIn)
	r.With(appmw.Authenticated).Post("/cash-in-reject", h.RejectCashIn)

	r.With(appmw.Authenticated).Get("/all-transactions", h.AllTransactions)
	r.With(appmw.Authenticated).Get("/transactions", h.CashInTransactions)

	r.With(appmw.Authenticated).Get("/user/{email}", h.Profile)
	r.With(appmw.Authenticated, appmw.RequireRole(models.RoleAdmin)).Get("/users", h.ListUsers)
	r.With(appmw.Authenticated, appmw.RequireRole(models.RoleAdmin)).Put("/users/{id}", h.UpdateUserStatus)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
