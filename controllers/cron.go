package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/engine"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"
)

// POST /api/cron/reconcile
//
// Rebuilds the campaign-side denormalized views and counters from the
// user-side task records. Idempotent, safe to schedule hourly.
func CronReconcileHandler(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-CRON-KEY")
	if key == "" || key != os.Getenv("CRON_KEY") {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	stats, err := engine.ReconcileAll(database.DB)
	if err != nil {
		log.Printf("[cron] reconcile error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Reconcile failed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Reconcile completed",
		Data: map[string]interface{}{
			"campaigns": len(stats),
			"stats":     stats,
		},
	})
}
