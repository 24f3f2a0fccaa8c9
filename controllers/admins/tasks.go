package admins

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/engine"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TaskRequest struct {
	Day           int                 `json:"day"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Reward        decimal.Decimal     `json:"reward"`
	CO2Impact     decimal.NullDecimal `json:"co2_impact"`
	RequiresProof bool                `json:"requires_proof"`
}

func (req *TaskRequest) validate() string {
	if req.Title == "" {
		return "Title is required"
	}
	if req.Day < 1 {
		return "Task day must be at least 1"
	}
	if req.Reward.LessThanOrEqual(decimal.Zero) {
		return "Reward must be greater than zero"
	}
	return ""
}

// checkSchedule enforces the per-day and total task caps for a campaign.
// excludeTaskID skips the task being updated from the counts.
func checkSchedule(tx *gorm.DB, campaign *models.Campaign, day int, excludeTaskID uint) string {
	if day > campaign.DurationDays {
		return "Task day is outside the campaign duration"
	}

	dayQuery := tx.Model(&models.Task{}).Where("campaign_id = ? AND day = ?", campaign.ID, day)
	totalQuery := tx.Model(&models.Task{}).Where("campaign_id = ?", campaign.ID)
	if excludeTaskID != 0 {
		dayQuery = dayQuery.Where("id != ?", excludeTaskID)
		totalQuery = totalQuery.Where("id != ?", excludeTaskID)
	}

	var dayCount int64
	if err := dayQuery.Count(&dayCount).Error; err != nil {
		return "Database error"
	}
	if dayCount >= models.MaxTasksPerDay {
		return "This day already has the maximum number of tasks"
	}

	var total int64
	if err := totalQuery.Count(&total).Error; err != nil {
		return "Database error"
	}
	if total >= int64(campaign.MaxTasks()) {
		return "Campaign already has the maximum number of tasks"
	}
	return ""
}

// POST /api/admins/campaigns/{id}/tasks
func CreateTask(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	var task models.Task
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, uint(campaignID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrCampaignNotFound
			}
			return err
		}
		if msg := checkSchedule(tx, &campaign, req.Day, 0); msg != "" {
			return errors.New(msg)
		}
		task = models.Task{
			CampaignID:    campaign.ID,
			Day:           req.Day,
			Title:         req.Title,
			Description:   req.Description,
			Reward:        req.Reward.Round(engine.RewardPlaces),
			CO2Impact:     req.CO2Impact,
			RequiresProof: req.RequiresProof,
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		if errors.Is(err, engine.ErrCampaignNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Task created", Data: task})
}

// PUT /api/admins/campaigns/{id}/tasks/{taskId}
func UpdateTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	campaignID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}
	taskID, err := strconv.ParseUint(vars["taskId"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	var task models.Task
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, uint(campaignID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrCampaignNotFound
			}
			return err
		}
		if err := tx.Where("id = ? AND campaign_id = ?", uint(taskID), campaign.ID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrTaskNotFound
			}
			return err
		}
		if msg := checkSchedule(tx, &campaign, req.Day, task.ID); msg != "" {
			return errors.New(msg)
		}
		updates := map[string]interface{}{
			"day":            req.Day,
			"title":          req.Title,
			"description":    req.Description,
			"reward":         req.Reward.Round(engine.RewardPlaces),
			"requires_proof": req.RequiresProof,
		}
		if req.CO2Impact.Valid {
			updates["co2_impact"] = req.CO2Impact.Decimal
		}
		return tx.Model(&task).Updates(updates).Error
	})
	if err != nil {
		switch {
		case engine.IsNotFound(err):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
		default:
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task updated", Data: task})
}

// DELETE /api/admins/campaigns/{id}/tasks/{taskId}
//
// Deletes the task along with every per-user record referencing it. The
// campaign counters are settled by the reconcile job.
func DeleteTask(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	campaignID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}
	taskID, err := strconv.ParseUint(vars["taskId"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ? AND campaign_id = ?", uint(taskID), uint(campaignID)).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrTaskNotFound
			}
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.ParticipantTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.UserTask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		if engine.IsNotFound(err) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
			return
		}
		log.Printf("[admin] delete task %d error: %v", taskID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete task"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Task deleted"})
}
