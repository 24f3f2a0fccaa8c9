package users

import (
	"errors"
	"net/http"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"gorm.io/gorm"
)

func InfoHandler(w http.ResponseWriter, r *http.Request) {
	// Auth middleware sets user ID in context; use that
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB
	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var setting models.Setting
	err := db.Model(&models.Setting{}).
		Select("name, company, logo, link_cs, link_group, link_app").
		Take(&setting).Error
	healthy := err == nil

	var joined int64
	db.Model(&models.UserCampaign{}).Where("user_id = ?", user.ID).Count(&joined)

	var completed int64
	db.Model(&models.UserTask{}).
		Where("user_id = ? AND status = ?", user.ID, models.TaskStatusCompleted).
		Count(&completed)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Succesfully",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"username":        user.Username,
				"email":           user.Email,
				"full_name":       user.FullName,
				"reff_code":       user.ReffCode,
				"earnings":        user.Earnings,
				"co2_saved":       user.CO2Saved,
				"wallet_address":  user.WalletAddress,
				"joined_campaign": joined,
				"tasks_completed": completed,
				"profile":         user.Profile,
			},
			"application": map[string]interface{}{
				"name":       setting.Name,
				"company":    setting.Company,
				"logo":       setting.Logo,
				"link_cs":    setting.LinkCS,
				"link_group": setting.LinkGroup,
				"link_app":   setting.LinkApp,
				"healthy":    healthy,
			},
		},
	})
}
