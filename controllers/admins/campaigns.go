package admins

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CampaignRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Image        *string `json:"image,omitempty"`
	StartDate    string  `json:"start_date"` // RFC3339 or YYYY-MM-DD
	DurationDays int     `json:"duration_days"`
	Featured     bool    `json:"featured"`
}

func parseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (req *CampaignRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" {
		return "Title is required"
	}
	if req.DurationDays < 1 {
		return "Duration must be at least 1 day"
	}
	if req.StartDate == "" {
		return "Start date is required"
	}
	return ""
}

// GET /api/admins/campaigns
func ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	db := database.DB
	query := db.Model(&models.Campaign{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	var campaigns []models.Campaign
	if err := query.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&campaigns).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	now := time.Now()
	type row struct {
		models.Campaign
		Status  string `json:"status"`
		EndDate string `json:"end_date"`
	}
	items := make([]row, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, row{
			Campaign: c,
			Status:   c.StatusAt(now),
			EndDate:  c.EndDate().UTC().Format(time.RFC3339),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"data": items,
			"pagination": map[string]interface{}{
				"page":        page,
				"limit":       limit,
				"total_rows":  totalRows,
				"total_pages": totalPages,
			},
		},
	})
}

// GET /api/admins/campaigns/{id}
func GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}

	var campaign models.Campaign
	if err := database.DB.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("day ASC, id ASC")
	}).First(&campaign, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	var participants []models.CampaignParticipant
	database.DB.Where("campaign_id = ?", campaign.ID).Order("joined_at DESC").Limit(100).Find(&participants)

	now := time.Now()
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"campaign":     campaign,
			"status":       campaign.StatusAt(now),
			"end_date":     campaign.EndDate().UTC().Format(time.RFC3339),
			"max_tasks":    campaign.MaxTasks(),
			"participants": participants,
		},
	})
}

// POST /api/admins/campaigns
func CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req CampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid start date format"})
		return
	}

	campaign := models.Campaign{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Image:        req.Image,
		StartDate:    start,
		DurationDays: req.DurationDays,
		Featured:     req.Featured,
	}
	if err := database.DB.Create(&campaign).Error; err != nil {
		log.Printf("[admin] create campaign error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create campaign"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Campaign created", Data: campaign})
}

// PUT /api/admins/campaigns/{id}
func UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}
	var req CampaignRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid start date format"})
		return
	}

	db := database.DB
	var campaign models.Campaign
	if err := db.First(&campaign, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	// Shrinking the schedule below already-created tasks is not allowed.
	var maxDay int
	db.Model(&models.Task{}).Where("campaign_id = ?", campaign.ID).Select("COALESCE(MAX(day), 0)").Scan(&maxDay)
	if req.DurationDays < maxDay {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
			Success: false,
			Message: "Duration cannot be shorter than the latest scheduled task day",
			Data:    map[string]interface{}{"latest_task_day": maxDay},
		})
		return
	}

	updates := map[string]interface{}{
		"title":         req.Title,
		"description":   req.Description,
		"category":      req.Category,
		"start_date":    start,
		"duration_days": req.DurationDays,
		"featured":      req.Featured,
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if err := db.Model(&campaign).Updates(updates).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to update campaign"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Campaign updated", Data: campaign})
}

// DELETE /api/admins/campaigns/{id}
//
// Removes the campaign together with its tasks and every per-user record
// that references them.
func DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, uint(id)).Error; err != nil {
			return err
		}

		var taskIDs []uint
		if err := tx.Model(&models.Task{}).Where("campaign_id = ?", campaign.ID).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskCompletion{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&models.ParticipantTask{}, &models.UserTask{}} {
			if err := tx.Where("campaign_id = ?", campaign.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&models.CampaignParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&models.UserCampaign{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", campaign.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&campaign).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		log.Printf("[admin] delete campaign %d error: %v", id, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to delete campaign"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Campaign deleted"})
}
