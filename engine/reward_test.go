package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCampaignDay(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		now  time.Time
		want int
	}{
		{start, 1},
		{start.Add(23 * time.Hour), 1},
		{start.Add(24*time.Hour - time.Nanosecond), 1},
		{start.Add(24 * time.Hour), 2},
		{start.Add(48*time.Hour - time.Nanosecond), 2},
		{start.AddDate(0, 0, 365), 366},
		{start.AddDate(0, 0, 3).Add(5 * time.Hour), 4},
		{start.Add(-1 * time.Hour), 0},
		{start.AddDate(0, 0, -2), -1},
	}
	for _, c := range cases {
		if got := CampaignDay(c.now, start); got != c.want {
			t.Fatalf("CampaignDay(%v) = %d, want %d", c.now, got, c.want)
		}
	}
}

func TestPenaltyOnTime(t *testing.T) {
	if p := PenaltyFor(3, 3); p != nil {
		t.Fatalf("expected nil penalty on due day, got %+v", p)
	}
	if p := PenaltyFor(2, 5); p != nil {
		t.Fatalf("expected nil penalty before due day, got %+v", p)
	}
}

func TestPenaltyDecayAndFloor(t *testing.T) {
	// 10% per late day down to the 50% floor, which then holds forever
	cases := []struct {
		daysLate int
		want     string
	}{
		{1, "0.9"},
		{2, "0.8"},
		{4, "0.6"},
		{5, "0.5"},
		{10, "0.5"},
		{100, "0.5"},
	}
	for _, c := range cases {
		p := PenaltyFor(c.daysLate+3, 3)
		if p == nil {
			t.Fatalf("daysLate=%d: expected penalty, got nil", c.daysLate)
		}
		if p.DaysLate != c.daysLate {
			t.Fatalf("daysLate=%d: got DaysLate=%d", c.daysLate, p.DaysLate)
		}
		if p.Factor.String() != c.want {
			t.Fatalf("daysLate=%d: factor = %s, want %s", c.daysLate, p.Factor.String(), c.want)
		}
	}
}

func TestFinalRewardPrecision(t *testing.T) {
	// 0.002 * 0.9 must be exactly 0.0018, not a float artifact
	base := decimal.RequireFromString("0.002")
	p := PenaltyFor(4, 3)
	got := FinalReward(base, p)
	if got.String() != "0.0018" {
		t.Fatalf("finalReward = %s, want 0.0018", got.String())
	}
}

func TestFinalRewardOnTime(t *testing.T) {
	base := decimal.RequireFromString("0.01")
	if got := FinalReward(base, nil); got.String() != "0.01" {
		t.Fatalf("finalReward = %s, want 0.01", got.String())
	}
}

func TestFinalRewardEndToEndScenario(t *testing.T) {
	// campaign starts day 0, day-1 task of 0.01, completed on day 3:
	// daysLate = 2, factor 0.8, reward 0.008
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, 2).Add(6 * time.Hour) // campaign day 3
	day := CampaignDay(now, start)
	p := PenaltyFor(day, 1)
	if p == nil || p.DaysLate != 2 {
		t.Fatalf("expected daysLate=2, got %+v", p)
	}
	got := FinalReward(decimal.RequireFromString("0.01"), p)
	if got.String() != "0.008" {
		t.Fatalf("finalReward = %s, want 0.008", got.String())
	}
}

func TestResolveCO2(t *testing.T) {
	absent := decimal.NullDecimal{}
	if v, healed := ResolveCO2(absent); !healed || v.String() != "2" {
		t.Fatalf("absent co2: got %s healed=%v", v.String(), healed)
	}
	garbage := decimal.NewNullDecimal(decimal.RequireFromString("0.005"))
	if v, healed := ResolveCO2(garbage); !healed || v.String() != "2" {
		t.Fatalf("garbage co2: got %s healed=%v", v.String(), healed)
	}
	valid := decimal.NewNullDecimal(decimal.RequireFromString("3.5"))
	if v, healed := ResolveCO2(valid); healed || v.String() != "3.5" {
		t.Fatalf("valid co2: got %s healed=%v", v.String(), healed)
	}
}

func TestProgressPercent(t *testing.T) {
	if got := ProgressPercent(3, 10); got != 30 {
		t.Fatalf("progress = %v, want 30", got)
	}
	if got := ProgressPercent(12, 10); got != 100 {
		t.Fatalf("progress should clamp at 100, got %v", got)
	}
	if got := ProgressPercent(0, 0); got != 0 {
		t.Fatalf("empty campaign progress = %v, want 0", got)
	}
}
