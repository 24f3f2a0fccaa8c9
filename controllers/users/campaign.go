package users

import (
	"errors"
	"log"
	"math"
	"net/http"
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

// campaignDTO is the list/detail projection. Status and end date are
// derived from the start date and duration at read time.
type campaignDTO struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Image          *string `json:"image,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	DurationDays   int     `json:"duration_days"`
	Status         string  `json:"status"`
	Participants   int64   `json:"participants"`
	CompletedTasks int64   `json:"completed_tasks"`
	Featured       bool    `json:"featured"`
	Joined         bool    `json:"joined"`
}

func campaignToDTO(c *models.Campaign, now time.Time, joined bool) campaignDTO {
	return campaignDTO{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Category:       c.Category,
		Image:          c.Image,
		StartDate:      c.StartDate.UTC().Format(time.RFC3339),
		EndDate:        c.EndDate().UTC().Format(time.RFC3339),
		DurationDays:   c.DurationDays,
		Status:         c.StatusAt(now),
		Participants:   c.Participants,
		CompletedTasks: c.CompletedTasks,
		Featured:       c.Featured,
		Joined:         joined,
	}
}

// GET /api/users/campaigns
//
// Works without a token; the joined flag is only populated for
// authenticated callers.
func ListCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	uid, _ := utils.GetUserID(r)

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	statusFilter := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	featuredOnly := r.URL.Query().Get("featured") == "true"

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	db := database.DB
	query := db.Model(&models.Campaign{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}

	// Status is derived, so filtering happens on the date columns.
	now := time.Now()
	switch statusFilter {
	case models.CampaignStatusUpcoming:
		query = query.Where("start_date > ?", now)
	case models.CampaignStatusActive:
		query = query.Where("start_date <= ? AND DATE_ADD(start_date, INTERVAL duration_days DAY) > ?", now, now)
	case models.CampaignStatusCompleted:
		query = query.Where("DATE_ADD(start_date, INTERVAL duration_days DAY) <= ?", now)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))
	offset := (page - 1) * limit

	var campaigns []models.Campaign
	if err := query.Order("featured DESC, start_date DESC").Limit(limit).Offset(offset).Find(&campaigns).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	// Which of these has the user joined
	joinedSet := map[uint]bool{}
	if uid != 0 && len(campaigns) > 0 {
		ids := make([]uint, 0, len(campaigns))
		for _, c := range campaigns {
			ids = append(ids, c.ID)
		}
		var memberships []models.UserCampaign
		if err := db.Where("user_id = ? AND campaign_id IN ?", uid, ids).Find(&memberships).Error; err == nil {
			for _, m := range memberships {
				joinedSet[m.CampaignID] = true
			}
		}
	}

	items := make([]campaignDTO, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, campaignToDTO(&campaigns[i], now, joinedSet[campaigns[i].ID]))
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

// GET /api/users/campaigns/{id}
func GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	campaignID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}

	db := database.DB
	var campaign models.Campaign
	if err := db.Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("day ASC, id ASC")
	}).First(&campaign, uint(campaignID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	now := time.Now()

	var uc models.UserCampaign
	joined := true
	if err := db.Where("user_id = ? AND campaign_id = ?", uid, campaign.ID).First(&uc).Error; err != nil {
		joined = false
	}

	// Per-task status for this user
	statusByTask := map[uint]models.UserTask{}
	if joined {
		var userTasks []models.UserTask
		if err := db.Where("user_id = ? AND campaign_id = ?", uid, campaign.ID).Find(&userTasks).Error; err == nil {
			for _, ut := range userTasks {
				statusByTask[ut.TaskID] = ut
			}
		}
	}

	type taskDTO struct {
		ID            uint        `json:"id"`
		Day           int         `json:"day"`
		Title         string      `json:"title"`
		Description   string      `json:"description"`
		Reward        interface{} `json:"reward"`
		CO2Impact     interface{} `json:"co2_impact,omitempty"`
		RequiresProof bool        `json:"requires_proof"`
		Status        string      `json:"status"`
		ProofURL      *string     `json:"proof_url,omitempty"`
		SubmittedAt   *time.Time  `json:"submitted_at,omitempty"`
		CompletedAt   *time.Time  `json:"completed_at,omitempty"`
	}

	tasks := make([]taskDTO, 0, len(campaign.Tasks))
	for _, t := range campaign.Tasks {
		dto := taskDTO{
			ID:            t.ID,
			Day:           t.Day,
			Title:         t.Title,
			Description:   t.Description,
			Reward:        t.Reward,
			RequiresProof: t.RequiresProof,
			Status:        models.TaskStatusOpen,
		}
		if t.CO2Impact.Valid {
			dto.CO2Impact = t.CO2Impact.Decimal
		}
		if ut, ok := statusByTask[t.ID]; ok {
			dto.Status = ut.Status
			dto.ProofURL = ut.ProofURL
			dto.SubmittedAt = ut.SubmittedAt
			dto.CompletedAt = ut.CompletedAt
		}
		tasks = append(tasks, dto)
	}

	total := int64(len(campaign.Tasks))
	data := map[string]interface{}{
		"campaign": campaignToDTO(&campaign, now, joined),
		"tasks":    tasks,
	}
	if joined {
		data["progress"] = engine.Progress{
			Completed: uc.Completed,
			Total:     total,
			Percent:   engine.ProgressPercent(uc.Completed, total),
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: data})
}

// POST /api/users/campaigns/{id}/join
func JoinCampaignHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	campaignID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid campaign id"})
		return
	}

	db := database.DB
	now := time.Now()

	err = db.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, uint(campaignID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return engine.ErrCampaignNotFound
			}
			return err
		}
		if campaign.StatusAt(now) == models.CampaignStatusCompleted {
			return errCampaignEnded
		}

		var existing models.UserCampaign
		if err := tx.Where("user_id = ? AND campaign_id = ?", uid, campaign.ID).First(&existing).Error; err == nil {
			return errAlreadyJoined
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		uc := models.UserCampaign{UserID: uid, CampaignID: campaign.ID, JoinedAt: now}
		if err := tx.Create(&uc).Error; err != nil {
			return err
		}
		participant := models.CampaignParticipant{CampaignID: campaign.ID, UserID: uid, JoinedAt: now}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return tx.Model(&campaign).Update("participants", gorm.Expr("participants + 1")).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrCampaignNotFound):
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Campaign not found"})
		case errors.Is(err, errAlreadyJoined):
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You have already joined this campaign"})
		case errors.Is(err, errCampaignEnded):
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Campaign has already ended"})
		default:
			log.Printf("[campaign] join error user=%d campaign=%d: %v", uid, campaignID, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Joined campaign successfully"})
}

var (
	errAlreadyJoined = errors.New("already joined")
	errCampaignEnded = errors.New("campaign ended")
)
