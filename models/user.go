package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Username      string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         string          `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password      string          `gorm:"size:255;not null" json:"-"`
	FullName      string          `gorm:"size:100" json:"full_name"`
	WalletAddress *string         `gorm:"size:64" json:"wallet_address,omitempty"`
	Earnings      decimal.Decimal `gorm:"type:decimal(20,5);default:0" json:"earnings"`
	CO2Saved      decimal.Decimal `gorm:"column:co2_saved;type:decimal(15,2);default:0" json:"co2_saved"`
	ReffCode      string          `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	ReffBy        *uint           `gorm:"column:reff_by" json:"reff_by,omitempty"`
	Status        string          `gorm:"type:enum('Active','Deactivated');default:'Active'" json:"status"`
	Profile       *string         `gorm:"type:varchar(255);null" json:"profile,omitempty"`
	CreatedAt     time.Time       `json:"-"`
	UpdatedAt     time.Time       `json:"-"`
}

func (User) TableName() string {
	return "users"
}
