package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserCampaign is the user-side membership record: one row per campaign a
// user has joined, with a running count of tasks they completed in it.
type UserCampaign struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_campaign" json:"user_id"`
	CampaignID   uint       `gorm:"not null;uniqueIndex:idx_user_campaign" json:"campaign_id"`
	Completed    int64      `gorm:"default:0" json:"completed"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	JoinedAt     time.Time  `json:"joined_at"`
}

func (UserCampaign) TableName() string {
	return "user_campaigns"
}

// UserTask is the user-side view of one task interaction. The unique index
// on (user_id, task_id) is the hard backstop against double reward grants.
type UserTask struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	UserID       uint                `gorm:"not null;uniqueIndex:idx_user_task" json:"user_id"`
	TaskID       uint                `gorm:"not null;uniqueIndex:idx_user_task" json:"task_id"`
	CampaignID   uint                `gorm:"not null;index" json:"campaign_id"`
	Status       string              `gorm:"type:enum('open','pending','completed','rejected');default:'open'" json:"status"`
	ProofURL     *string             `gorm:"size:255" json:"proof_url,omitempty"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	RewardEarned decimal.NullDecimal `gorm:"type:decimal(20,5)" json:"reward_earned"`
}

func (UserTask) TableName() string {
	return "user_tasks"
}

// CampaignParticipant mirrors a joined user on the campaign side so admin
// queries never have to join across the users table. Kept consistent with
// UserCampaign by the engine transaction and the reconcile job.
type CampaignParticipant struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CampaignID   uint       `gorm:"not null;uniqueIndex:idx_campaign_user" json:"campaign_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_campaign_user" json:"user_id"`
	Completed    int64      `gorm:"default:0" json:"completed"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	JoinedAt     time.Time  `json:"joined_at"`
}

func (CampaignParticipant) TableName() string {
	return "campaign_participants"
}

// ParticipantTask is the campaign-side copy of a user's per-task status.
type ParticipantTask struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CampaignID  uint       `gorm:"not null;uniqueIndex:idx_campaign_user_task" json:"campaign_id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_campaign_user_task" json:"user_id"`
	TaskID      uint       `gorm:"not null;uniqueIndex:idx_campaign_user_task" json:"task_id"`
	Status      string     `gorm:"type:enum('open','pending','completed','rejected');default:'open'" json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (ParticipantTask) TableName() string {
	return "participant_tasks"
}
