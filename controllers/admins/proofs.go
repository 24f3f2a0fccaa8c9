package admins

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/engine"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"
)

type pendingProofDTO struct {
	UserID      uint       `json:"user_id"`
	Username    string     `json:"username"`
	CampaignID  uint       `json:"campaign_id"`
	Campaign    string     `json:"campaign"`
	TaskID      uint       `json:"task_id"`
	Task        string     `json:"task"`
	ProofURL    *string    `json:"proof_url"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// GET /api/admins/proofs
func ListPendingProofs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	db := database.DB
	base := db.Model(&models.UserTask{}).Where("user_tasks.status = ?", models.TaskStatusPending)

	var totalRows int64
	if err := base.Count(&totalRows).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	totalPages := int(math.Ceil(float64(totalRows) / float64(limit)))

	rows, err := db.Model(&models.UserTask{}).
		Select("user_tasks.user_id, users.username, user_tasks.campaign_id, campaigns.title, user_tasks.task_id, tasks.title, user_tasks.proof_url, user_tasks.submitted_at").
		Joins("JOIN users ON users.id = user_tasks.user_id").
		Joins("JOIN campaigns ON campaigns.id = user_tasks.campaign_id").
		Joins("JOIN tasks ON tasks.id = user_tasks.task_id").
		Where("user_tasks.status = ?", models.TaskStatusPending).
		Order("user_tasks.submitted_at ASC").
		Limit(limit).Offset((page - 1) * limit).
		Rows()
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}
	defer rows.Close()

	items := make([]pendingProofDTO, 0)
	for rows.Next() {
		var p pendingProofDTO
		if scanErr := rows.Scan(&p.UserID, &p.Username, &p.CampaignID, &p.Campaign, &p.TaskID, &p.Task, &p.ProofURL, &p.SubmittedAt); scanErr == nil {
			items = append(items, p)
		}
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

type ProofReviewRequest struct {
	UserID     uint `json:"user_id"`
	CampaignID uint `json:"campaign_id"`
	TaskID     uint `json:"task_id"`
}

func (req *ProofReviewRequest) validate() string {
	if req.UserID == 0 || req.CampaignID == 0 || req.TaskID == 0 {
		return "user_id, campaign_id and task_id are required"
	}
	return ""
}

func writeProofEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
	case engine.IsBusiness(err):
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	default:
		log.Printf("[admin] proof review error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
	}
}

// POST /api/admins/proofs/approve
//
// Reward decay is evaluated at approval time, not submission time.
func ApproveProof(w http.ResponseWriter, r *http.Request) {
	var req ProofReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	result, err := engine.ApproveProof(database.DB, req.UserID, req.CampaignID, req.TaskID, time.Now())
	if err != nil {
		writeProofEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Proof approved, reward granted", Data: result})
}

// POST /api/admins/proofs/reject
func RejectProof(w http.ResponseWriter, r *http.Request) {
	var req ProofReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if msg := req.validate(); msg != "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: msg})
		return
	}

	if err := engine.RejectProof(database.DB, req.UserID, req.CampaignID, req.TaskID, time.Now()); err != nil {
		writeProofEngineError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Proof rejected, task reopened for resubmission"})
}
