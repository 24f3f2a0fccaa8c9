package admins

import (
	"net/http"
	"strings"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/database"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"
	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/utils"

	"github.com/shopspring/decimal"
)

type DailyGrowth struct {
	Day   string `json:"day"`
	Count *int64 `json:"count"`
}

type DailyCompletions struct {
	Day   string `json:"day"`
	Count *int64 `json:"count"`
}

type RecentCompletion struct {
	Username    string          `json:"username"`
	Campaign    string          `json:"campaign"`
	Task        string          `json:"task"`
	Reward      decimal.Decimal `json:"reward"`
	CompletedAt time.Time       `json:"completed_at"`
}

type DashboardStats struct {
	TotalUsers        int64              `json:"total_users"`
	ActiveUsers       int64              `json:"active_users"`
	GrowthUsers       []DailyGrowth      `json:"growth_users"`
	TotalCampaigns    int64              `json:"total_campaigns"`
	ActiveCampaigns   int64              `json:"active_campaigns"`
	TotalCompletions  int64              `json:"total_completions"`
	PendingProofs     int64              `json:"pending_proofs"`
	DailyCompletions  []DailyCompletions `json:"daily_completions"`
	TotalRewardsPaid  decimal.Decimal    `json:"total_rewards_paid"`
	TotalCO2Saved     decimal.Decimal    `json:"total_co2_saved"`
	RecentCompletions []RecentCompletion `json:"recent_completions"`
}

func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB
	now := time.Now()

	// initialize slices to ensure empty arrays are returned (not null)
	stats.GrowthUsers = make([]DailyGrowth, 0)
	stats.DailyCompletions = make([]DailyCompletions, 0)
	stats.RecentCompletions = make([]RecentCompletion, 0)

	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.User{}).Where("status = ?", "Active").Count(&stats.ActiveUsers)

	// User growth grouped by day name over the last 7 days
	growthMap := map[string]int64{}
	rows, err := db.Model(&models.User{}).
		Select("DATE_FORMAT(created_at, '%W') as day, COUNT(*) as count").
		Where("created_at >= NOW() - INTERVAL 7 DAY").
		Group("DATE_FORMAT(created_at, '%W')").
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var day string
			var count int64
			if scanErr := rows.Scan(&day, &count); scanErr == nil {
				growthMap[strings.TrimSpace(day)] = count
			}
		}
	}
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		dayName := d.Format("Monday")
		if val, ok := growthMap[dayName]; ok {
			v := val
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: dayName, Count: &v})
		} else {
			stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: dayName, Count: nil})
		}
	}

	db.Model(&models.Campaign{}).Count(&stats.TotalCampaigns)
	db.Model(&models.Campaign{}).
		Where("start_date <= ? AND DATE_ADD(start_date, INTERVAL duration_days DAY) > ?", now, now).
		Count(&stats.ActiveCampaigns)

	db.Model(&models.UserTask{}).Where("status = ?", models.TaskStatusCompleted).Count(&stats.TotalCompletions)
	db.Model(&models.UserTask{}).Where("status = ?", models.TaskStatusPending).Count(&stats.PendingProofs)

	// Completions grouped by day name over the last 7 days
	completionMap := map[string]int64{}
	rows, err = db.Model(&models.UserTask{}).
		Select("DATE_FORMAT(completed_at, '%W') as day, COUNT(*) as count").
		Where("status = ? AND completed_at >= NOW() - INTERVAL 7 DAY", models.TaskStatusCompleted).
		Group("DATE_FORMAT(completed_at, '%W')").
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var day string
			var count int64
			if scanErr := rows.Scan(&day, &count); scanErr == nil {
				completionMap[strings.TrimSpace(day)] = count
			}
		}
	}
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		dayName := d.Format("Monday")
		if val, ok := completionMap[dayName]; ok {
			v := val
			stats.DailyCompletions = append(stats.DailyCompletions, DailyCompletions{Day: dayName, Count: &v})
		} else {
			stats.DailyCompletions = append(stats.DailyCompletions, DailyCompletions{Day: dayName, Count: nil})
		}
	}

	var totalRewards decimal.NullDecimal
	db.Model(&models.Transaction{}).
		Where("type = ? AND category = ?", "earn", "Campaign").
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRewards)
	if totalRewards.Valid {
		stats.TotalRewardsPaid = totalRewards.Decimal
	}

	var totalCO2 decimal.NullDecimal
	db.Model(&models.User{}).Select("COALESCE(SUM(co2_saved), 0)").Scan(&totalCO2)
	if totalCO2.Valid {
		stats.TotalCO2Saved = totalCO2.Decimal
	}

	// Last 10 completions with user, campaign and task names
	rows, err = db.Model(&models.UserTask{}).
		Select("users.username, campaigns.title, tasks.title, user_tasks.reward_earned, user_tasks.completed_at").
		Joins("JOIN users ON users.id = user_tasks.user_id").
		Joins("JOIN campaigns ON campaigns.id = user_tasks.campaign_id").
		Joins("JOIN tasks ON tasks.id = user_tasks.task_id").
		Where("user_tasks.status = ?", models.TaskStatusCompleted).
		Order("user_tasks.completed_at DESC").
		Limit(10).
		Rows()
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var rc RecentCompletion
			var reward decimal.NullDecimal
			var completedAt *time.Time
			if scanErr := rows.Scan(&rc.Username, &rc.Campaign, &rc.Task, &reward, &completedAt); scanErr == nil {
				if reward.Valid {
					rc.Reward = reward.Decimal
				}
				if completedAt != nil {
					rc.CompletedAt = *completedAt
				}
				stats.RecentCompletions = append(stats.RecentCompletions, rc)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data:    stats,
	})
}
