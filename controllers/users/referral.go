package users

import (
	"net/http"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"
)

// GET /api/users/referrals
func GetReferralsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	var referred []models.User
	if err := db.Where("reff_by = ?", uid).Order("id DESC").Find(&referred).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	type referralDTO struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		JoinedAt string `json:"joined_at"`
	}
	items := make([]referralDTO, 0, len(referred))
	for _, u := range referred {
		items = append(items, referralDTO{
			Username: u.Username,
			FullName: u.FullName,
			JoinedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"reff_code": user.ReffCode,
			"total":     len(items),
			"referrals": items,
		},
	})
}
