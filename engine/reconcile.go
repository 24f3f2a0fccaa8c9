package engine

import (
	"errors"
	"log"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"

	"gorm.io/gorm"
)

// ReconcileStats reports what a reconcile pass had to repair.
type ReconcileStats struct {
	CampaignID          uint  `json:"campaign_id"`
	ParticipantsCreated int64 `json:"participants_created"`
	TasksRepaired       int64 `json:"tasks_repaired"`
	CountersAdjusted    bool  `json:"counters_adjusted"`
}

// Reconcile rebuilds the campaign-side denormalized views and aggregate
// counters of one campaign from the user-side state (user_campaigns and
// user_tasks). It is idempotent: running it on a consistent campaign
// changes nothing. Scheduled via the cron endpoint rather than triggered
// ad hoc on symptom discovery.
func Reconcile(db *gorm.DB, campaignID uint) (*ReconcileStats, error) {
	stats := &ReconcileStats{CampaignID: campaignID}
	err := db.Transaction(func(tx *gorm.DB) error {
		var campaign models.Campaign
		if err := tx.First(&campaign, campaignID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCampaignNotFound
			}
			return err
		}

		var memberships []models.UserCampaign
		if err := tx.Where("campaign_id = ?", campaignID).Find(&memberships).Error; err != nil {
			return err
		}

		var completedTotal int64
		for _, uc := range memberships {
			var userTasks []models.UserTask
			if err := tx.Where("user_id = ? AND campaign_id = ?", uc.UserID, campaignID).Find(&userTasks).Error; err != nil {
				return err
			}

			var completed int64
			var lastActivity *time.Time
			for i := range userTasks {
				ut := &userTasks[i]
				if ut.Status == models.TaskStatusCompleted {
					completed++
				}
				if ts := latestActivity(ut); ts != nil && (lastActivity == nil || ts.After(*lastActivity)) {
					lastActivity = ts
				}
				if err := reconcileTaskViews(tx, campaignID, ut, stats); err != nil {
					return err
				}
			}
			completedTotal += completed

			var participant models.CampaignParticipant
			err := tx.Where("campaign_id = ? AND user_id = ?", campaignID, uc.UserID).First(&participant).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				participant = models.CampaignParticipant{
					CampaignID: campaignID,
					UserID:     uc.UserID,
					JoinedAt:   uc.JoinedAt,
				}
				stats.ParticipantsCreated++
				if err := tx.Create(&participant).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			if participant.Completed != completed || !timePtrEqual(participant.LastActivity, lastActivity) {
				if err := tx.Model(&participant).Updates(map[string]interface{}{
					"completed":     completed,
					"last_activity": lastActivity,
				}).Error; err != nil {
					return err
				}
			}
			// settle the user-side counter too, in case an engine write was
			// interrupted before this table and user_tasks agreed
			if uc.Completed != completed {
				if err := tx.Model(&uc).Update("completed", completed).Error; err != nil {
					return err
				}
			}
		}

		participants := int64(len(memberships))
		if campaign.Participants != participants || campaign.CompletedTasks != completedTotal {
			stats.CountersAdjusted = true
			if err := tx.Model(&campaign).Updates(map[string]interface{}{
				"participants":    participants,
				"completed_tasks": completedTotal,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ReconcileAll runs Reconcile over every campaign, logging and skipping
// failures so one broken campaign does not block the rest of the sweep.
func ReconcileAll(db *gorm.DB) ([]ReconcileStats, error) {
	var ids []uint
	if err := db.Model(&models.Campaign{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	out := make([]ReconcileStats, 0, len(ids))
	for _, id := range ids {
		stats, err := Reconcile(db, id)
		if err != nil {
			log.Printf("[engine] reconcile campaign %d failed: %v", id, err)
			continue
		}
		out = append(out, *stats)
	}
	return out, nil
}

// reconcileTaskViews forces the two campaign-side task views to match the
// user-side row.
func reconcileTaskViews(tx *gorm.DB, campaignID uint, ut *models.UserTask, stats *ReconcileStats) error {
	var pt models.ParticipantTask
	err := tx.Where("campaign_id = ? AND user_id = ? AND task_id = ?", campaignID, ut.UserID, ut.TaskID).First(&pt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pt = models.ParticipantTask{CampaignID: campaignID, UserID: ut.UserID, TaskID: ut.TaskID}
		stats.TasksRepaired++
	} else if err != nil {
		return err
	} else if pt.Status != ut.Status || !timePtrEqual(pt.CompletedAt, ut.CompletedAt) {
		stats.TasksRepaired++
	}
	pt.Status = ut.Status
	pt.SubmittedAt = ut.SubmittedAt
	pt.CompletedAt = ut.CompletedAt
	if err := tx.Save(&pt).Error; err != nil {
		return err
	}

	var tc models.TaskCompletion
	err = tx.Where("task_id = ? AND user_id = ?", ut.TaskID, ut.UserID).First(&tc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tc = models.TaskCompletion{TaskID: ut.TaskID, UserID: ut.UserID}
		stats.TasksRepaired++
	} else if err != nil {
		return err
	} else if tc.Status != ut.Status || !timePtrEqual(tc.CompletedAt, ut.CompletedAt) {
		stats.TasksRepaired++
	}
	tc.Status = ut.Status
	tc.ProofURL = ut.ProofURL
	tc.SubmittedAt = ut.SubmittedAt
	tc.CompletedAt = ut.CompletedAt
	return tx.Save(&tc).Error
}

func latestActivity(ut *models.UserTask) *time.Time {
	if ut.CompletedAt != nil {
		return ut.CompletedAt
	}
	return ut.SubmittedAt
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
