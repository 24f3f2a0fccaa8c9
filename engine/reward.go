package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reward amounts are fixed-point with 5 fractional digits everywhere
// (storage and display); CO2 uses 2. Raw float64 would drift across many
// completions, hence decimal throughout.
const (
	RewardPlaces = 5
	CO2Places    = 2
)

var (
	penaltyStep  = decimal.NewFromFloat(0.1) // 10% per late day
	penaltyFloor = decimal.NewFromFloat(0.5) // never below half the base reward
	defaultCO2   = decimal.NewFromFloat(2.0)
	minValidCO2  = decimal.NewFromFloat(0.01)
)

// Penalty describes the late-completion decay applied to a reward.
type Penalty struct {
	DaysLate int             `json:"days_late"`
	Factor   decimal.Decimal `json:"penalty_factor"`
}

// CampaignDay returns the 1-based campaign-relative day for now:
// floor((now - start) / 1 day) + 1. Day 1 is the first 24 hours.
func CampaignDay(now, start time.Time) int {
	diff := now.Sub(start)
	day := int(diff/(24*time.Hour)) + 1
	if diff < 0 && diff%(24*time.Hour) != 0 {
		// integer division truncates toward zero; pre-start must floor
		day--
	}
	return day
}

// PenaltyFor returns the decay for completing a task due on taskDay during
// campaign day dayDiff, or nil when the task is on time.
func PenaltyFor(dayDiff, taskDay int) *Penalty {
	daysLate := dayDiff - taskDay
	if daysLate <= 0 {
		return nil
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(daysLate)).Mul(penaltyStep))
	if factor.LessThan(penaltyFloor) {
		factor = penaltyFloor
	}
	return &Penalty{DaysLate: daysLate, Factor: factor}
}

// FinalReward applies the penalty factor to the base reward, rounded to
// the system-wide 5 decimal places.
func FinalReward(base decimal.Decimal, p *Penalty) decimal.Decimal {
	if p == nil {
		return base.Round(RewardPlaces)
	}
	return base.Mul(p.Factor).Round(RewardPlaces)
}

// ResolveCO2 returns the CO2 impact to credit for a completion. Seeded
// campaigns carry missing or garbage values; anything absent or <= 0.01 is
// treated as the 2.0 default and the second return value asks the caller
// to persist the corrected value back onto the task.
func ResolveCO2(v decimal.NullDecimal) (decimal.Decimal, bool) {
	if !v.Valid || v.Decimal.LessThanOrEqual(minValidCO2) {
		return defaultCO2, true
	}
	return v.Decimal.Round(CO2Places), false
}

// ProgressPercent is the user's completion ratio for a campaign, clamped
// to 100 (counters can exceed the task count after admin task deletions).
func ProgressPercent(completed int64, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
