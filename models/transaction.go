package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an append-only ledger entry. Rows are never updated after
// creation; user balances are maintained redundantly on the users table and
// the ledger serves as the audit trail.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,5);not null" json:"amount"`
	Type        string          `gorm:"type:enum('earn','spend');not null" json:"type"`
	Category    string          `gorm:"size:50;not null" json:"category"`
	Activity    string          `gorm:"size:150" json:"activity"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Reference   string          `gorm:"type:varchar(191);not null;uniqueIndex" json:"reference"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
