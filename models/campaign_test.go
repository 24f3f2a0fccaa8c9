package models

import (
	"testing"
	"time"
)

func TestCampaignStatusDerivation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := Campaign{StartDate: start, DurationDays: 7}

	if got := c.StatusAt(start.Add(-time.Hour)); got != CampaignStatusUpcoming {
		t.Fatalf("before start: got %q, want %q", got, CampaignStatusUpcoming)
	}
	if got := c.StatusAt(start); got != CampaignStatusActive {
		t.Fatalf("at start: got %q, want %q", got, CampaignStatusActive)
	}
	if got := c.StatusAt(start.AddDate(0, 0, 6)); got != CampaignStatusActive {
		t.Fatalf("last day: got %q, want %q", got, CampaignStatusActive)
	}
	if got := c.StatusAt(start.AddDate(0, 0, 7)); got != CampaignStatusCompleted {
		t.Fatalf("after end: got %q, want %q", got, CampaignStatusCompleted)
	}
}

func TestCampaignEndDate(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := Campaign{StartDate: start, DurationDays: 10}

	want := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := c.EndDate(); !got.Equal(want) {
		t.Fatalf("EndDate() = %v, want %v", got, want)
	}
}

func TestCampaignMaxTasks(t *testing.T) {
	c := Campaign{DurationDays: 7}
	if got := c.MaxTasks(); got != 35 {
		t.Fatalf("MaxTasks() = %d, want 35", got)
	}
}
