package routes

import (
	"net/http"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/controllers/admins"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/middleware"

	"github.com/gorilla/mux"
)

func SetAdminRoutes(api *mux.Router) {
	// Rate limiter for admin login: 5 attempts per IP per minute
	adminLoginLimiter := middleware.NewIPRateLimiter(5, time.Minute)

	// Public admin routes
	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.Login))).Methods(http.MethodPost)

	// Protected admin routes
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminAuthMiddleware)

	// Dashboard stats
	adminRouter.Handle("/dashboard", http.HandlerFunc(admins.GetDashboardStats)).Methods(http.MethodGet)

	// Campaign management
	adminRouter.Handle("/campaigns", http.HandlerFunc(admins.ListCampaigns)).Methods(http.MethodGet)
	adminRouter.Handle("/campaigns", http.HandlerFunc(admins.CreateCampaign)).Methods(http.MethodPost)
	adminRouter.Handle("/campaigns/{id:[0-9]+}", http.HandlerFunc(admins.GetCampaign)).Methods(http.MethodGet)
	adminRouter.Handle("/campaigns/{id:[0-9]+}", http.HandlerFunc(admins.UpdateCampaign)).Methods(http.MethodPut)
	adminRouter.Handle("/campaigns/{id:[0-9]+}", http.HandlerFunc(admins.DeleteCampaign)).Methods(http.MethodDelete)

	// Task management
	adminRouter.Handle("/campaigns/{id:[0-9]+}/tasks", http.HandlerFunc(admins.CreateTask)).Methods(http.MethodPost)
	adminRouter.Handle("/campaigns/{id:[0-9]+}/tasks/{taskId:[0-9]+}", http.HandlerFunc(admins.UpdateTask)).Methods(http.MethodPut)
	adminRouter.Handle("/campaigns/{id:[0-9]+}/tasks/{taskId:[0-9]+}", http.HandlerFunc(admins.DeleteTask)).Methods(http.MethodDelete)

	// Proof review
	adminRouter.Handle("/proofs", http.HandlerFunc(admins.ListPendingProofs)).Methods(http.MethodGet)
	adminRouter.Handle("/proofs/approve", http.HandlerFunc(admins.ApproveProof)).Methods(http.MethodPost)
	adminRouter.Handle("/proofs/reject", http.HandlerFunc(admins.RejectProof)).Methods(http.MethodPost)

	// User management
	adminRouter.Handle("/users", http.HandlerFunc(admins.ListUsers)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}", http.HandlerFunc(admins.GetUser)).Methods(http.MethodGet)
	adminRouter.Handle("/users/{id:[0-9]+}/status", http.HandlerFunc(admins.UpdateUserStatus)).Methods(http.MethodPut)

	// Ledger
	adminRouter.Handle("/transactions", http.HandlerFunc(admins.ListTransactions)).Methods(http.MethodGet)

	// Application settings
	adminRouter.Handle("/settings", http.HandlerFunc(admins.GetSettings)).Methods(http.MethodGet)
	adminRouter.Handle("/settings", http.HandlerFunc(admins.UpdateSettings)).Methods(http.MethodPut)

	// Admin account management (super admin only)
	adminRouter.Handle("/accounts", middleware.SuperAdminOnly(http.HandlerFunc(admins.ListAdmins))).Methods(http.MethodGet)
	adminRouter.Handle("/accounts", middleware.SuperAdminOnly(http.HandlerFunc(admins.CreateAdmin))).Methods(http.MethodPost)
	adminRouter.Handle("/accounts/{id:[0-9]+}", middleware.SuperAdminOnly(http.HandlerFunc(admins.UpdateAdmin))).Methods(http.MethodPut)
}
