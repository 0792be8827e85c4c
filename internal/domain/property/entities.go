package property

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("property not found")

// Property is the deal record. DebtAmount and DebtDetails are a cache of the
// active loan set; only the debt ledger writes them.
type Property struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	PropertyID  string          `gorm:"column:property_id;size:32;not null;uniqueIndex:ux_properties_property_id" json:"property_id"`
	Name        string          `gorm:"column:name;size:255;not null" json:"name"`
	Address     string          `gorm:"column:address;type:text" json:"address"`
	DebtAmount  decimal.Decimal `gorm:"column:debt_amount;type:decimal(18,2);not null;default:0" json:"debt_amount"`
	DebtDetails *string         `gorm:"column:debt_details;type:text" json:"debt_details"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Property) TableName() string { return "properties" }
