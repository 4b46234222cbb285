package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsID is the fixed primary key of the singleton settings row.
const SettingsID = "singleton"

// Settings is a singleton row holding the opening cash balance and the
// simplified Turkish tax rates used by the summary computation. It is lazily
// created with defaults on first read.
type Settings struct {
	ID             string          `gorm:"type:varchar(20);primaryKey" json:"id"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"initial_balance"`
	VATRate        decimal.Decimal `gorm:"column:vat_rate;type:decimal(10,2);not null;default:20" json:"vat_rate"`         // percent
	IncomeTaxRate  decimal.Decimal `gorm:"column:income_tax_rate;type:decimal(10,2);not null;default:15" json:"income_tax_rate"` // percent
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DefaultSettings returns the settings row created when none exists yet.
func DefaultSettings() Settings {
	return Settings{
		ID:             SettingsID,
		InitialBalance: decimal.Zero,
		VATRate:        decimal.NewFromInt(20),
		IncomeTaxRate:  decimal.NewFromInt(15),
	}
}
