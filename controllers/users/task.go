package users

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/engine"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// maxProofSize caps a single proof image upload.
const maxProofSize = 5 << 20

var allowedProofExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func parseTaskVars(r *http.Request) (campaignID, taskID uint, err error) {
	vars := mux.Vars(r)
	cid, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	tid, err := strconv.ParseUint(vars["taskId"], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint(cid), uint(tid), nil
}

// writeEngineError maps engine sentinels onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
	case engine.IsBusiness(err):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	default:
		log.Printf("[task] engine error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

// requireActiveCampaign loads a campaign and checks the derived status.
func requireActiveCampaign(w http.ResponseWriter, campaignID uint, now time.Time) bool {
	var campaign models.Campaign
	if err := database.DB.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "campaign not found"})
			return false
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return false
	}
	switch campaign.StatusAt(now) {
	case models.CampaignStatusUpcoming:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Campaign has not started yet"})
		return false
	case models.CampaignStatusCompleted:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Campaign has already ended"})
		return false
	}
	return true
}

// POST /api/users/campaigns/{id}/tasks/{taskId}/complete
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	campaignID, taskID, err := parseTaskVars(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign or task id"})
		return
	}

	now := time.Now()
	if !requireActiveCampaign(w, campaignID, now) {
		return
	}

	result, err := engine.CompleteTask(database.DB, uid, campaignID, taskID, now)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	msg := "Task completed"
	if result.Penalty != nil {
		msg = "Task completed late, reward reduced"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: msg, Data: result})
}

// POST /api/users/campaigns/{id}/tasks/{taskId}/proof
//
// Multipart form with a single "proof" image. The file lands in object
// storage and the task moves to pending until an admin reviews it.
func UploadProofHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	campaignID, taskID, err := parseTaskVars(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign or task id"})
		return
	}

	now := time.Now()
	if !requireActiveCampaign(w, campaignID, now) {
		return
	}

	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}
	file, header, err := r.FormFile("proof")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "proof file is required"})
		return
	}
	defer file.Close()

	if header.Size > maxProofSize {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Proof image must be 5MB or smaller"})
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedProofExt[ext] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Only JPG, PNG or WEBP images are accepted"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	proofURL, err := utils.UploadProofImage(r.Context(), uid, header.Filename, file, contentType)
	if err != nil {
		log.Printf("[task] proof upload failed user=%d task=%d: %v", uid, taskID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to store proof image"})
		return
	}

	result, err := engine.UploadProof(database.DB, uid, campaignID, taskID, proofURL, now)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Proof submitted, awaiting review",
		Data:    result,
	})
}
