package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleStatus enum constants
const (
	VehicleStatusInStock  = "IN_STOCK"
	VehicleStatusSold     = "SOLD"
	VehicleStatusReserved = "RESERVED"
)

// Vehicle represents a car in the dealership's inventory.
// A SOLD vehicle always carries selling_price and sale_date; an IN_STOCK one never does.
type Vehicle struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Make    string    `gorm:"type:varchar(100);not null" json:"make"`
	Model   string    `gorm:"type:varchar(100);not null" json:"model"`
	Year    int       `gorm:"not null" json:"year"`
	Package *string   `gorm:"type:varchar(100)" json:"package"`
	VIN     *string   `gorm:"column:vin;type:varchar(50)" json:"vin"`
	Plate   *string   `gorm:"type:varchar(20)" json:"plate"`
	Status  string    `gorm:"type:varchar(20);not null;default:'IN_STOCK';index" json:"status"` // IN_STOCK, SOLD, RESERVED

	PurchasePrice decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"purchase_price"`
	PurchaseDate  time.Time        `gorm:"not null" json:"purchase_date"`
	SellingPrice  *decimal.Decimal `gorm:"type:decimal(18,2)" json:"selling_price"`
	SaleDate      *time.Time       `json:"sale_date"`

	Description *string `gorm:"type:text" json:"description"`
	ImageURL    *string `gorm:"column:image_url;type:text" json:"image_url"`

	Transactions []Transaction `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"transactions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the "make model" label used in synthesized transaction
// descriptions and the per-vehicle profit breakdown.
func (v *Vehicle) DisplayName() string {
	return v.Make + " " + v.Model
}
