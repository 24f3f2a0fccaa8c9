package admins

import (
	"net/http"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"
)

// GET /api/admins/settings
func GetSettings(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.Take(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: setting})
}

type UpdateSettingsRequest struct {
	Name           *string `json:"name,omitempty"`
	Company        *string `json:"company,omitempty"`
	Logo           *string `json:"logo,omitempty"`
	Maintenance    *bool   `json:"maintenance,omitempty"`
	ClosedRegister *bool   `json:"closed_register,omitempty"`
	LinkCS         *string `json:"link_cs,omitempty"`
	LinkGroup      *string `json:"link_group,omitempty"`
	LinkApp        *string `json:"link_app,omitempty"`
}

// PUT /api/admins/settings
func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	db := database.DB
	var setting models.Setting
	if err := db.Take(&setting).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Logo != nil {
		updates["logo"] = *req.Logo
	}
	if req.Maintenance != nil {
		updates["maintenance"] = *req.Maintenance
	}
	if req.ClosedRegister != nil {
		updates["closed_register"] = *req.ClosedRegister
	}
	if req.LinkCS != nil {
		updates["link_cs"] = *req.LinkCS
	}
	if req.LinkGroup != nil {
		updates["link_group"] = *req.LinkGroup
	}
	if req.LinkApp != nil {
		updates["link_app"] = *req.LinkApp
	}

	if len(updates) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Nothing to update"})
		return
	}
	if err := db.Model(&setting).Where("id = ?", setting.ID).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update settings"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Settings updated", Data: setting})
}
