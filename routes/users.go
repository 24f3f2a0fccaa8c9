package routes

import (
	"net/http"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/controllers/auth"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/controllers/users"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/middleware"

	"github.com/gorilla/mux"
)

// UsersRoutes registers all user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Rate limiter for login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Per-user sliding window limiter, 60 second window
	userLimiter := middleware.NewUserRateLimiter(60)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/logout-all", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutAllHandler)))).Methods(http.MethodPost)

	// Account
	api.Handle("/users/info", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.InfoHandler)))).Methods(http.MethodGet)
	api.Handle("/users/change-password", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ChangePasswordHandler)))).Methods(http.MethodPost)
	api.Handle("/users/profile", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateProfileHandler)))).Methods(http.MethodPut)
	api.Handle("/users/wallet", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UpdateWalletHandler)))).Methods(http.MethodPut)
	api.Handle("/users/referrals", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetReferralsHandler)))).Methods(http.MethodGet)

	// Campaigns (list is public, enriched when authenticated)
	api.Handle("/campaigns", userLimiter.Middleware(middleware.OptionalAuthMiddleware(http.HandlerFunc(users.ListCampaignsHandler)))).Methods(http.MethodGet)
	api.Handle("/campaigns/{id:[0-9]+}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetCampaignHandler)))).Methods(http.MethodGet)
	api.Handle("/campaigns/{id:[0-9]+}/join", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.JoinCampaignHandler)))).Methods(http.MethodPost)

	// Tasks
	api.Handle("/campaigns/{id:[0-9]+}/tasks/{taskId:[0-9]+}/complete", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CompleteTaskHandler)))).Methods(http.MethodPost)
	api.Handle("/campaigns/{id:[0-9]+}/tasks/{taskId:[0-9]+}/proof", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.UploadProofHandler)))).Methods(http.MethodPost)

	// Ledger
	api.Handle("/users/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)
	api.Handle("/users/transactions/{category}", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory)))).Methods(http.MethodGet)
}
