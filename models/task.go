package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Per-(user, task) lifecycle: open -> pending -> completed | rejected.
// A rejected task may be resubmitted; completed is terminal.
const (
	TaskStatusOpen      = "open"
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
	TaskStatusRejected  = "rejected"
)

type Task struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CampaignID  uint            `gorm:"not null;index" json:"campaign_id"`
	Day         int             `gorm:"not null" json:"day"` // 1-based campaign day the task becomes due
	Title       string          `gorm:"size:150;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Reward      decimal.Decimal `gorm:"type:decimal(20,5);not null" json:"reward"`
	// CO2Impact may be missing or garbage in seeded campaigns; the engine
	// self-heals it to 2.0 on first completion.
	CO2Impact     decimal.NullDecimal `gorm:"column:co2_impact;type:decimal(10,2)" json:"co2_impact"`
	RequiresProof bool                `gorm:"default:false" json:"requires_proof"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskCompletion is the task-side view of who interacted with a task
// (the completedBy list). One row per (task, user).
type TaskCompletion struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TaskID      uint       `gorm:"not null;uniqueIndex:idx_task_user" json:"task_id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_task_user" json:"user_id"`
	Status      string     `gorm:"type:enum('open','pending','completed','rejected');default:'open'" json:"status"`
	ProofURL    *string    `gorm:"size:255" json:"proof_url,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (TaskCompletion) TableName() string {
	return "task_completions"
}
