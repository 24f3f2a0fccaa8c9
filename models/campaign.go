package models

import "time"

const (
	CampaignStatusUpcoming  = "upcoming"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
)

// MaxTasksPerDay caps how many tasks a campaign may schedule on a single day.
const MaxTasksPerDay = 5

type Campaign struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:150;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Category     string    `gorm:"size:50" json:"category"`
	Image        *string   `gorm:"size:255" json:"image,omitempty"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	// Aggregate counters maintained by the completion engine and the
	// reconcile job. Participants counts joined users, CompletedTasks counts
	// per-user completions (not distinct tasks).
	Participants   int64     `gorm:"default:0" json:"participants"`
	CompletedTasks int64     `gorm:"default:0" json:"completed_tasks"`
	Featured       bool      `gorm:"default:false" json:"featured"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`

	Tasks []Task `gorm:"foreignKey:CampaignID" json:"tasks,omitempty"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// EndDate is derived from start date and duration, never stored.
func (c *Campaign) EndDate() time.Time {
	return c.StartDate.AddDate(0, 0, c.DurationDays)
}

// StatusAt derives the campaign lifecycle status from wall-clock time.
// It is computed on read so there is no stored status to drift.
func (c *Campaign) StatusAt(now time.Time) string {
	if now.Before(c.StartDate) {
		return CampaignStatusUpcoming
	}
	if now.Before(c.EndDate()) {
		return CampaignStatusActive
	}
	return CampaignStatusCompleted
}

// MaxTasks is the schedule capacity of the campaign (5 tasks per day).
func (c *Campaign) MaxTasks() int {
	return c.DurationDays * MaxTasksPerDay
}
