package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TxTypeIncome  = "INCOME"
	TxTypeExpense = "EXPENSE"
)

// TransactionCategory enum constants
const (
	CategoryVehicleSale     = "VEHICLE_SALE"
	CategoryVehiclePurchase = "VEHICLE_PURCHASE"
	CategoryMaintenance     = "MAINTENANCE"
	CategoryTax             = "TAX"
	CategoryNotary          = "NOTARY"
	CategoryCommission      = "COMMISSION"
	CategoryCashIn          = "CASH_IN"
	CategoryCashOut         = "CASH_OUT"
	CategoryOther           = "OTHER"
)

// Transaction is a single ledger entry. Amount is always the non-negative
// magnitude; the sign of its effect comes from Type (INCOME adds, EXPENSE
// subtracts). A nil VehicleID marks a general/cash-register entry.
type Transaction struct {
	ID       uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type     string          `gorm:"type:varchar(10);not null;index" json:"type"`     // INCOME, EXPENSE
	Category string          `gorm:"type:varchar(30);not null;index" json:"category"` // VEHICLE_SALE, VEHICLE_PURCHASE, ...
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Date     time.Time       `gorm:"not null;index" json:"date"`

	Description *string    `gorm:"type:text" json:"description"`
	VehicleID   *uuid.UUID `gorm:"type:uuid;index" json:"vehicle_id"`
	Vehicle     *Vehicle   `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Signed returns the amount with the sign implied by the transaction type.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TxTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
