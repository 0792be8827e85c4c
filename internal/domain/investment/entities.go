package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a direct investor stake (the investor is a platform user).
type Investment struct {
	ID                  uint64          `gorm:"primaryKey;column:id" json:"-"`
	PropertyID          uint64          `gorm:"column:property_id;not null;index" json:"-"`
	UserID              string          `gorm:"column:user_id;size:32;not null;index" json:"user_id"`
	InvestorName        string          `gorm:"column:investor_name;size:255" json:"investor_name"`
	InvestmentAmount    decimal.Decimal `gorm:"column:investment_amount;type:decimal(18,2);not null" json:"investment_amount"`
	OwnershipPercentage decimal.Decimal `gorm:"column:ownership_percentage;type:decimal(9,4);not null" json:"ownership_percentage"`
	InvestmentDate      *time.Time      `gorm:"column:investment_date;type:date" json:"investment_date"`
	IsSponsor           bool            `gorm:"column:is_sponsor;not null" json:"is_sponsor"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Investment) TableName() string { return "investments" }

// EntityInvestment is a stake held through an investing entity (LLC, fund).
type EntityInvestment struct {
	ID                  uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntityInvestmentID  string          `gorm:"column:entity_investment_id;size:32;not null;uniqueIndex" json:"entity_investment_id"`
	PropertyID          uint64          `gorm:"column:property_id;not null;index" json:"-"`
	EntityName          string          `gorm:"column:entity_name;size:255;not null" json:"entity_name"`
	InvestmentAmount    decimal.Decimal `gorm:"column:investment_amount;type:decimal(18,2);not null" json:"investment_amount"`
	OwnershipPercentage decimal.Decimal `gorm:"column:ownership_percentage;type:decimal(9,4);not null" json:"ownership_percentage"`
	InvestmentDate      *time.Time      `gorm:"column:investment_date;type:date" json:"investment_date"`
	IsSponsor           bool            `gorm:"column:is_sponsor;not null" json:"is_sponsor"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (EntityInvestment) TableName() string { return "entity_investments" }
