package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Progress summarizes a user's standing inside one campaign.
type Progress struct {
	Completed int64   `json:"completed"`
	Total     int64   `json:"total"`
	Percent   float64 `json:"percent"`
}

// CompletionResult is returned on a successful reward grant.
type CompletionResult struct {
	Reward   decimal.Decimal `json:"reward"`
	Penalty  *Penalty        `json:"penalty"` // nil when completed on time
	Earnings decimal.Decimal `json:"earnings"`
	CO2Saved decimal.Decimal `json:"co2_saved"`
	Progress Progress        `json:"progress"`
}

// CompleteTask processes a single "mark task complete" request for one
// (user, campaign, task) triple. All bookkeeping (the user's task entry
// and balances, both campaign-side views, the campaign counters and the
// ledger append) commits in one transaction or not at all. The user row
// is locked first, which serializes concurrent completions for the same
// user; the (user_id, task_id) unique index backstops duplicate grants.
func CompleteTask(db *gorm.DB, userID, campaignID, taskID uint, now time.Time) (*CompletionResult, error) {
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
		if ut != nil && ut.Status == models.TaskStatusCompleted {
			return ErrAlreadyCompleted
		}
		if task.RequiresProof {
			// proof-gated tasks reach completed only through ApproveProof
			return ErrProofRequired
		}
		if ut != nil && ut.Status == models.TaskStatusPending {
			return ErrProofPending
		}

		result, err = grantCompletion(tx, user, campaign, task, &uc, ut, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// grantCompletion applies every effect of a completion. Callers have
// already validated eligibility and hold the user row lock.
func grantCompletion(tx *gorm.DB, user *models.User, campaign *models.Campaign, task *models.Task, uc *models.UserCampaign, ut *models.UserTask, now time.Time) (*CompletionResult, error) {
	dayDiff := CampaignDay(now, campaign.StartDate)
	penalty := PenaltyFor(dayDiff, task.Day)
	reward := FinalReward(task.Reward, penalty)

	co2, healed := ResolveCO2(task.CO2Impact)
	if healed {
		// Self-heal bad seed data so future completions see the corrected value.
		if err := tx.Model(task).Update("co2_impact", co2).Error; err != nil {
			return nil, err
		}
	}

	// User-side task entry
	if ut == nil {
		ut = &models.UserTask{
			UserID:     user.ID,
			TaskID:     task.ID,
			CampaignID: campaign.ID,
		}
	}
	ut.Status = models.TaskStatusCompleted
	ut.CompletedAt = &now
	ut.RewardEarned = decimal.NewNullDecimal(reward)
	if err := tx.Save(ut).Error; err != nil {
		return nil, err
	}

	// User balances
	newEarnings := user.Earnings.Add(reward).Round(RewardPlaces)
	newCO2 := user.CO2Saved.Add(co2).Round(CO2Places)
	if err := tx.Model(user).Updates(map[string]interface{}{
		"earnings":  newEarnings,
		"co2_saved": newCO2,
	}).Error; err != nil {
		return nil, err
	}

	// User-side membership counters
	if err := tx.Model(uc).Updates(map[string]interface{}{
		"completed":     gorm.Expr("completed + 1"),
		"last_activity": now,
	}).Error; err != nil {
		return nil, err
	}

	// Campaign aggregate counter
	if err := tx.Model(campaign).Update("completed_tasks", gorm.Expr("completed_tasks + 1")).Error; err != nil {
		return nil, err
	}

	// Campaign-side participant views (find-or-create repairs a missing
	// participant row for a user who legitimately joined)
	if err := upsertParticipantViews(tx, campaign.ID, user.ID, task.ID, models.TaskStatusCompleted, now, nil, &now, ut.ProofURL); err != nil {
		return nil, err
	}

	// Ledger append: immutable record of the grant
	desc := fmt.Sprintf("Completed task %q in campaign %q", task.Title, campaign.Title)
	trx := models.Transaction{
		UserID:      user.ID,
		Amount:      reward,
		Type:        "earn",
		Category:    "Campaign",
		Activity:    task.Title,
		Description: &desc,
		Reference:   utils.GenerateReference(user.ID),
		CreatedAt:   now,
	}
	if err := tx.Create(&trx).Error; err != nil {
		return nil, err
	}

	var totalTasks int64
	if err := tx.Model(&models.Task{}).Where("campaign_id = ?", campaign.ID).Count(&totalTasks).Error; err != nil {
		return nil, err
	}
	completed := uc.Completed + 1

	return &CompletionResult{
		Reward:   reward,
		Penalty:  penalty,
		Earnings: newEarnings,
		CO2Saved: newCO2,
		Progress: Progress{
			Completed: completed,
			Total:     totalTasks,
			Percent:   ProgressPercent(completed, totalTasks),
		},
	}, nil
}

// loadTriple resolves and validates the three entities. The user row is
// locked FOR UPDATE: every engine mutation for a user funnels through this
// lock, so the read-then-write on their task state is serialized.
func loadTriple(tx *gorm.DB, userID, campaignID, taskID uint) (*models.User, *models.Campaign, *models.Task, error) {
	var user models.User
	if err := lockForUpdate(tx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrUserNotFound
		}
		return nil, nil, nil, err
	}
	var campaign models.Campaign
	if err := tx.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrCampaignNotFound
		}
		return nil, nil, nil, err
	}
	var task models.Task
	if err := tx.Where("id = ? AND campaign_id = ?", taskID, campaignID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrTaskNotFound
		}
		return nil, nil, nil, err
	}
	return &user, &campaign, &task, nil
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has no
// SELECT ... FOR UPDATE syntax; its single-writer model already serializes
// mutations, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func loadUserTask(tx *gorm.DB, userID, taskID uint) (*models.UserTask, error) {
	var ut models.UserTask
	if err := tx.Where("user_id = ? AND task_id = ?", userID, taskID).First(&ut).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ut, nil
}

// upsertParticipantViews keeps the two campaign-side denormalized views in
// step with the user-side state, creating missing rows as it goes.
func upsertParticipantViews(tx *gorm.DB, campaignID, userID, taskID uint, status string, now time.Time, submittedAt, completedAt *time.Time, proofURL *string) error {
	var participant models.CampaignParticipant
	err := tx.Where("campaign_id = ? AND user_id = ?", campaignID, userID).First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Repair path: the join record exists on the user side but the
		// participant mirror is missing. Recreate it; the reconcile job
		// settles the campaign-level participants counter.
		participant = models.CampaignParticipant{
			CampaignID: campaignID,
			UserID:     userID,
			JoinedAt:   now,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if completedAt != nil {
		updates["completed"] = gorm.Expr("completed + 1")
		updates["last_activity"] = *completedAt
	} else if submittedAt != nil {
		updates["last_activity"] = *submittedAt
	}
	if len(updates) > 0 {
		if err := tx.Model(&participant).Updates(updates).Error; err != nil {
			return err
		}
	}

	var pt models.ParticipantTask
	err = tx.Where("campaign_id = ? AND user_id = ? AND task_id = ?", campaignID, userID, taskID).First(&pt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pt = models.ParticipantTask{CampaignID: campaignID, UserID: userID, TaskID: taskID}
	} else if err != nil {
		return err
	}
	pt.Status = status
	if submittedAt != nil {
		pt.SubmittedAt = submittedAt
	}
	pt.CompletedAt = completedAt
	if err := tx.Save(&pt).Error; err != nil {
		return err
	}

	var tc models.TaskCompletion
	err = tx.Where("task_id = ? AND user_id = ?", taskID, userID).First(&tc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tc = models.TaskCompletion{TaskID: taskID, UserID: userID}
	} else if err != nil {
		return err
	}
	tc.Status = status
	if proofURL != nil {
		tc.ProofURL = proofURL
	}
	if submittedAt != nil {
		tc.SubmittedAt = submittedAt
	}
	tc.CompletedAt = completedAt
	if err := tx.Save(&tc).Error; err != nil {
		return err
	}
	return nil
}
