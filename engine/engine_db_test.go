package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/RecycleFlux-RFX/RFX-Mining-App-sub001/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Decimal columns are declared TEXT so values round-trip exactly instead of
// passing through float affinity.
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		full_name TEXT,
		wallet_address TEXT,
		earnings TEXT DEFAULT '0',
		co2_saved TEXT DEFAULT '0',
		reff_code TEXT NOT NULL UNIQUE,
		reff_by INTEGER,
		status TEXT DEFAULT 'Active',
		profile TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE campaigns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		image TEXT,
		start_date DATETIME NOT NULL,
		duration_days INTEGER NOT NULL,
		participants INTEGER DEFAULT 0,
		completed_tasks INTEGER DEFAULT 0,
		featured BOOLEAN DEFAULT false,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER NOT NULL,
		day INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		reward TEXT NOT NULL,
		co2_impact TEXT,
		requires_proof BOOLEAN DEFAULT false,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE user_campaigns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		campaign_id INTEGER NOT NULL,
		completed INTEGER DEFAULT 0,
		last_activity DATETIME,
		joined_at DATETIME,
		UNIQUE (user_id, campaign_id)
	)`,
	`CREATE TABLE user_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		task_id INTEGER NOT NULL,
		campaign_id INTEGER NOT NULL,
		status TEXT DEFAULT 'open',
		proof_url TEXT,
		submitted_at DATETIME,
		completed_at DATETIME,
		reward_earned TEXT,
		UNIQUE (user_id, task_id)
	)`,
	`CREATE TABLE campaign_participants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		completed INTEGER DEFAULT 0,
		last_activity DATETIME,
		joined_at DATETIME,
		UNIQUE (campaign_id, user_id)
	)`,
	`CREATE TABLE participant_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		campaign_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		task_id INTEGER NOT NULL,
		status TEXT DEFAULT 'open',
		submitted_at DATETIME,
		completed_at DATETIME,
		UNIQUE (campaign_id, user_id, task_id)
	)`,
	`CREATE TABLE task_completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		status TEXT DEFAULT 'open',
		proof_url TEXT,
		submitted_at DATETIME,
		completed_at DATETIME,
		UNIQUE (task_id, user_id)
	)`,
	`CREATE TABLE transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		amount TEXT NOT NULL,
		type TEXT NOT NULL,
		category TEXT NOT NULL,
		activity TEXT,
		description TEXT,
		reference TEXT NOT NULL UNIQUE,
		created_at DATETIME
	)`,
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db pool: %v", err)
	}
	// a single connection keeps every statement on the same in-memory db
	sqlDB.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func seedCampaignTask(t *testing.T, db *gorm.DB, start time.Time, reward string, requiresProof bool) (models.User, models.Campaign, models.Task) {
	t.Helper()
	user := models.User{
		Username: "greta",
		Email:    "greta@example.com",
		Password: "hashed",
		FullName: "Greta Larsson",
		ReffCode: "GRETA123",
		Status:   "Active",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	campaign := models.Campaign{
		Title:        "River Cleanup Week",
		Category:     "recycling",
		StartDate:    start,
		DurationDays: 7,
	}
	if err := db.Create(&campaign).Error; err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	task := models.Task{
		CampaignID:    campaign.ID,
		Day:           1,
		Title:         "Collect ten plastic bottles",
		Reward:        decimal.RequireFromString(reward),
		RequiresProof: requiresProof,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return user, campaign, task
}

func joinCampaign(t *testing.T, db *gorm.DB, userID, campaignID uint, at time.Time) {
	t.Helper()
	uc := models.UserCampaign{UserID: userID, CampaignID: campaignID, JoinedAt: at}
	if err := db.Create(&uc).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	cp := models.CampaignParticipant{CampaignID: campaignID, UserID: userID, JoinedAt: at}
	if err := db.Create(&cp).Error; err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	if err := db.Model(&models.Campaign{}).Where("id = ?", campaignID).
		Update("participants", gorm.Expr("participants + 1")).Error; err != nil {
		t.Fatalf("bump participants: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCompleteTaskGrantsExactlyOnce(t *testing.T) {
	db := testDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	user, campaign, task := seedCampaignTask(t, db, start, "0.002", false)
	joinCampaign(t, db, user.ID, campaign.ID, start)

	now := start.Add(6 * time.Hour)
	res, err := CompleteTask(db, user.ID, campaign.ID, task.ID, now)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if res.Penalty != nil {
		t.Fatalf("on-time completion got penalty %+v", res.Penalty)
	}
	if res.Reward.String() != "0.002" {
		t.Fatalf("reward = %s, want 0.002", res.Reward.String())
	}

	if _, err := CompleteTask(db, user.ID, campaign.ID, task.ID, now.Add(time.Hour)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion: got %v, want ErrAlreadyCompleted", err)
	}

	// exactly one grant landed
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Fatalf("ledger rows = %d, want 1", n)
	}
	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if fresh.Earnings.String() != "0.002" {
		t.Fatalf("earnings = %s, want 0.002", fresh.Earnings.String())
	}
	if fresh.CO2Saved.String() != "2" {
		t.Fatalf("co2_saved = %s, want healed default 2", fresh.CO2Saved.String())
	}
	var freshCampaign models.Campaign
	if err := db.First(&freshCampaign, campaign.ID).Error; err != nil {
		t.Fatalf("reload campaign: %v", err)
	}
	if freshCampaign.CompletedTasks != 1 {
		t.Fatalf("campaign completed_tasks = %d, want 1", freshCampaign.CompletedTasks)
	}

	// all three views completed with the same timestamp
	var ut models.UserTask
	if err := db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).First(&ut).Error; err != nil {
		t.Fatalf("load user task: %v", err)
	}
	var pt models.ParticipantTask
	if err := db.Where("campaign_id = ? AND user_id = ? AND task_id = ?", campaign.ID, user.ID, task.ID).First(&pt).Error; err != nil {
		t.Fatalf("load participant task: %v", err)
	}
	var tc models.TaskCompletion
	if err := db.Where("task_id = ? AND user_id = ?", task.ID, user.ID).First(&tc).Error; err != nil {
		t.Fatalf("load task completion: %v", err)
	}
	for name, got := range map[string]string{"user_tasks": ut.Status, "participant_tasks": pt.Status, "task_completions": tc.Status} {
		if got != models.TaskStatusCompleted {
			t.Fatalf("%s status = %s, want completed", name, got)
		}
	}
	if ut.CompletedAt == nil || !ut.CompletedAt.Equal(now) {
		t.Fatalf("user_tasks completed_at = %v, want %v", ut.CompletedAt, now)
	}
	if pt.CompletedAt == nil || !pt.CompletedAt.Equal(now) {
		t.Fatalf("participant_tasks completed_at = %v, want %v", pt.CompletedAt, now)
	}
	if tc.CompletedAt == nil || !tc.CompletedAt.Equal(now) {
		t.Fatalf("task_completions completed_at = %v, want %v", tc.CompletedAt, now)
	}
}

func TestCompleteTaskNotJoinedLeavesNoTrace(t *testing.T) {
	db := testDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	user, campaign, task := seedCampaignTask(t, db, start, "0.01", false)

	_, err := CompleteTask(db, user.ID, campaign.ID, task.ID, start.Add(time.Hour))
	if !errors.Is(err, ErrNotJoined) {
		t.Fatalf("got %v, want ErrNotJoined", err)
	}

	if n := countRows(t, db, &models.UserTask{}); n != 0 {
		t.Fatalf("user_tasks rows = %d, want 0", n)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 0 {
		t.Fatalf("ledger rows = %d, want 0", n)
	}
	if n := countRows(t, db, &models.TaskCompletion{}); n != 0 {
		t.Fatalf("task_completions rows = %d, want 0", n)
	}
	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if !fresh.Earnings.IsZero() {
		t.Fatalf("earnings = %s, want 0", fresh.Earnings.String())
	}
	var freshCampaign models.Campaign
	if err := db.First(&freshCampaign, campaign.ID).Error; err != nil {
		t.Fatalf("reload campaign: %v", err)
	}
	if freshCampaign.CompletedTasks != 0 {
		t.Fatalf("campaign completed_tasks = %d, want 0", freshCampaign.CompletedTasks)
	}
}

func TestCompleteTaskProofGatedRejectedWithoutWrites(t *testing.T) {
	db := testDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	user, campaign, task := seedCampaignTask(t, db, start, "0.01", true)
	joinCampaign(t, db, user.ID, campaign.ID, start)

	_, err := CompleteTask(db, user.ID, campaign.ID, task.ID, start.Add(time.Hour))
	if !errors.Is(err, ErrProofRequired) {
		t.Fatalf("got %v, want ErrProofRequired", err)
	}
	if n := countRows(t, db, &models.UserTask{}); n != 0 {
		t.Fatalf("user_tasks rows = %d, want 0", n)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 0 {
		t.Fatalf("ledger rows = %d, want 0", n)
	}
}

func TestProofApprovalRewardsAtApprovalTime(t *testing.T) {
	db := testDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	user, campaign, task := seedCampaignTask(t, db, start, "0.01", true)
	joinCampaign(t, db, user.ID, campaign.ID, start)

	submitted := start.Add(12 * time.Hour)
	proofURL := "https://cdn.example.com/proofs/bottles.jpg"
	if _, err := UploadProof(db, user.ID, campaign.ID, task.ID, proofURL, submitted); err != nil {
		t.Fatalf("upload proof: %v", err)
	}

	// pending everywhere, nothing granted yet
	var ut models.UserTask
	if err := db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).First(&ut).Error; err != nil {
		t.Fatalf("load user task: %v", err)
	}
	if ut.Status != models.TaskStatusPending || ut.ProofURL == nil || *ut.ProofURL != proofURL {
		t.Fatalf("after upload: status=%s proof=%v", ut.Status, ut.ProofURL)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 0 {
		t.Fatalf("ledger rows before approval = %d, want 0", n)
	}

	// approved two days past the due day: factor 0.8
	approved := start.AddDate(0, 0, 2).Add(6 * time.Hour)
	res, err := ApproveProof(db, user.ID, campaign.ID, task.ID, approved)
	if err != nil {
		t.Fatalf("approve proof: %v", err)
	}
	if res.Penalty == nil || res.Penalty.DaysLate != 2 {
		t.Fatalf("penalty = %+v, want 2 days late", res.Penalty)
	}
	if res.Reward.String() != "0.008" {
		t.Fatalf("reward = %s, want 0.008", res.Reward.String())
	}

	if _, err := ApproveProof(db, user.ID, campaign.ID, task.ID, approved.Add(time.Hour)); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second approval: got %v, want ErrAlreadyCompleted", err)
	}
	if n := countRows(t, db, &models.Transaction{}); n != 1 {
		t.Fatalf("ledger rows = %d, want 1", n)
	}
	var fresh models.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if fresh.Earnings.String() != "0.008" {
		t.Fatalf("earnings = %s, want 0.008", fresh.Earnings.String())
	}
}

func TestProofRejectReopensTask(t *testing.T) {
	db := testDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	user, campaign, task := seedCampaignTask(t, db, start, "0.01", true)
	joinCampaign(t, db, user.ID, campaign.ID, start)

	now := start.Add(time.Hour)
	if _, err := UploadProof(db, user.ID, campaign.ID, task.ID, "https://cdn.example.com/proofs/a.jpg", now); err != nil {
		t.Fatalf("upload proof: %v", err)
	}
	if err := RejectProof(db, user.ID, campaign.ID, task.ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("reject proof: %v", err)
	}

	var ut models.UserTask
	if err := db.Where("user_id = ? AND task_id = ?", user.ID, task.ID).First(&ut).Error; err != nil {
		t.Fatalf("load user task: %v", err)
	}
	if ut.Status != models.TaskStatusRejected || ut.ProofURL != nil {
		t.Fatalf("after reject: status=%s proof=%v", ut.Status, ut.ProofURL)
	}
	if err := RejectProof(db, user.ID, campaign.ID, task.ID, now.Add(2*time.Hour)); !errors.Is(err, ErrProofNotPending) {
		t.Fatalf("double reject: got %v, want ErrProofNotPending", err)
	}

	// rejection reopens the task for resubmission
	if _, err := UploadProof(db, user.ID, campaign.ID, task.ID, "https://cdn.example.com/proofs/b.jpg", now.Add(3*time.Hour)); err != nil {
		t.Fatalf("resubmit proof: %v", err)
	}
}

func TestReconcileRepairsDriftedViews(t *testing.T) {
	db := testDB(t)
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	user, campaign, task := seedCampaignTask(t, db, start, "0.01", false)
	joinCampaign(t, db, user.ID, campaign.ID, start)
	if _, err := CompleteTask(db, user.ID, campaign.ID, task.ID, start.Add(time.Hour)); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	// consistent data: reconcile is a no-op
	stats, err := Reconcile(db, campaign.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if stats.ParticipantsCreated != 0 || stats.TasksRepaired != 0 || stats.CountersAdjusted {
		t.Fatalf("reconcile on consistent campaign repaired something: %+v", stats)
	}

	// damage the campaign-side copies
	if err := db.Where("campaign_id = ?", campaign.ID).Delete(&models.ParticipantTask{}).Error; err != nil {
		t.Fatalf("drop participant task: %v", err)
	}
	if err := db.Model(&models.Campaign{}).Where("id = ?", campaign.ID).Update("completed_tasks", 0).Error; err != nil {
		t.Fatalf("zero counter: %v", err)
	}

	stats, err = Reconcile(db, campaign.ID)
	if err != nil {
		t.Fatalf("reconcile after damage: %v", err)
	}
	if stats.TasksRepaired == 0 || !stats.CountersAdjusted {
		t.Fatalf("reconcile missed the damage: %+v", stats)
	}
	var fresh models.Campaign
	if err := db.First(&fresh, campaign.ID).Error; err != nil {
		t.Fatalf("reload campaign: %v", err)
	}
	if fresh.CompletedTasks != 1 {
		t.Fatalf("completed_tasks = %d, want 1", fresh.CompletedTasks)
	}
	var pt models.ParticipantTask
	if err := db.Where("campaign_id = ? AND user_id = ? AND task_id = ?", campaign.ID, user.ID, task.ID).First(&pt).Error; err != nil {
		t.Fatalf("repaired participant task missing: %v", err)
	}
	if pt.Status != models.TaskStatusCompleted {
		t.Fatalf("repaired status = %s, want completed", pt.Status)
	}

	stats, err = Reconcile(db, campaign.ID)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if stats.TasksRepaired != 0 || stats.CountersAdjusted {
		t.Fatalf("reconcile not idempotent: %+v", stats)
	}
}
