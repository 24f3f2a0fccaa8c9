package engine

import (
	"errors"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"

	"gorm.io/gorm"
)

// ProofResult is returned when a proof submission is accepted for review.
type ProofResult struct {
	ProofURL    string    `json:"proof_url"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// UploadProof records a proof submission for one (user, campaign, task)
// triple and moves all three views to pending. Reward and CO2 counters are
// untouched until an admin approves. A rejected task may be resubmitted.
func UploadProof(db *gorm.DB, userID, campaignID, taskID uint, proofURL string, now time.Time) (*ProofResult, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, task, err := loadTriple(tx, userID, campaignID, taskID)
		if err != nil {
			return err
		}

		var uc models.UserCampaign
		if err := tx.Where("user_id = ? AND campaign_id = ?", userID, campaignID).First(&uc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotJoined
			}
			return err
		}

		ut, err := loadUserTask(tx, userID, task.ID)
		if err != nil {
			return err
		}
		if ut != nil {
			switch ut.Status {
			case models.TaskStatusCompleted:
				return ErrAlreadyCompleted
			case models.TaskStatusPending:
				return ErrProofPending
			}
		}

		if ut == nil {
			ut = &models.UserTask{
				UserID:     userID,
				TaskID:     task.ID,
				CampaignID: campaignID,
			}
		}
		ut.Status = models.TaskStatusPending
		ut.ProofURL = &proofURL
		ut.SubmittedAt = &now
		ut.CompletedAt = nil
		if err := tx.Save(ut).Error; err != nil {
			return err
		}

		if err := tx.Model(&uc).Update("last_activity", now).Error; err != nil {
			return err
		}

		return upsertParticipantViews(tx, campaignID, userID, task.ID, models.TaskStatusPending, now, &now, nil, &proofURL)
	})
	if err != nil {
		return nil, err
	}
	return &ProofResult{ProofURL: proofURL, Status: models.TaskStatusPending, SubmittedAt: now}, nil
}

// ApproveProof transitions a pending proof to completed, applying the same
// reward computation and bookkeeping as a direct completion. The reward
// decay is evaluated at approval time.
func ApproveProof(db *gorm.DB, userID, campaignID, taskID uint, now time.Time) (*CompletionResult, error) {
	var result *CompletionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		user, campaign, task, err := loadTriple(tx, userID, campaignID, taskID)
		if err != nil {
			return err
		}

		var uc models.UserCampaign
		if err := tx.Where("user_id = ? AND campaign_id = ?", userID, campaignID).First(&uc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotJoined
			}
			return err
		}

		ut, err := loadUserTask(tx, userID, task.ID)
		if err != nil {
			return err
		}
		if ut == nil || ut.Status != models.TaskStatusPending {
			if ut != nil && ut.Status == models.TaskStatusCompleted {
				return ErrAlreadyCompleted
			}
			return ErrProofNotPending
		}

		result, err = grantCompletion(tx, user, campaign, task, &uc, ut, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RejectProof transitions a pending proof to rejected and clears the proof
// reference from every view, reopening the task for resubmission.
func RejectProof(db *gorm.DB, userID, campaignID, taskID uint, now time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		_, _, task, err := loadTriple(tx, userID, campaignID, taskID)
		if err != nil {
			return err
		}

		ut, err := loadUserTask(tx, userID, task.ID)
		if err != nil {
			return err
		}
		if ut == nil || ut.Status != models.TaskStatusPending {
			if ut != nil && ut.Status == models.TaskStatusCompleted {
				return ErrAlreadyCompleted
			}
			return ErrProofNotPending
		}

		ut.Status = models.TaskStatusRejected
		ut.ProofURL = nil
		ut.SubmittedAt = nil
		if err := tx.Save(ut).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.ParticipantTask{}).
			Where("campaign_id = ? AND user_id = ? AND task_id = ?", campaignID, userID, task.ID).
			Updates(map[string]interface{}{"status": models.TaskStatusRejected, "submitted_at": nil}).Error; err != nil {
			return err
		}

		return tx.Model(&models.TaskCompletion{}).
			Where("task_id = ? AND user_id = ?", task.ID, userID).
			Updates(map[string]interface{}{"status": models.TaskStatusRejected, "proof_url": nil, "submitted_at": nil}).Error
	})
}
