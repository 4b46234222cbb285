package service

import (
	"context"
	"fmt"
	"time"

	"galeri/internal/model"
	"galeri/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// VehicleProfit is the per-vehicle profit breakdown for a sold vehicle.
type VehicleProfit struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Year               int             `json:"year"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	AdditionalExpenses decimal.Decimal `json:"additional_expenses"` // costs beyond the purchase price
	TotalCost          decimal.Decimal `json:"total_cost"`          // purchase price + additional expenses
	SellingPrice       decimal.Decimal `json:"selling_price"`
	Profit             decimal.Decimal `json:"profit"`
	ProfitMargin       decimal.Decimal `json:"profit_margin"` // percent, 1 decimal place
}

// Summary carries the derived financial figures for the dashboard.
type Summary struct {
	// Cash and stock
	CashBalance     decimal.Decimal `json:"cash_balance"`
	InitialBalance  decimal.Decimal `json:"initial_balance"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	VehiclesInStock int             `json:"vehicles_in_stock"`
	VehiclesSold    int             `json:"vehicles_sold"`
	TotalVehicles   int             `json:"total_vehicles"`

	// Income / expense
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	GrossProfitLoss decimal.Decimal `json:"gross_profit_loss"`

	// Profit analysis
	TotalVehicleProfit decimal.Decimal `json:"total_vehicle_profit"`

	// Tax analysis (simplified Turkish model)
	VATRate            decimal.Decimal `json:"vat_rate"`
	IncomeTaxRate      decimal.Decimal `json:"income_tax_rate"`
	TaxableProfit      decimal.Decimal `json:"taxable_profit"`
	EstimatedVAT       decimal.Decimal `json:"estimated_vat"`
	EstimatedIncomeTax decimal.Decimal `json:"estimated_income_tax"`
	TotalTaxBurden     decimal.Decimal `json:"total_tax_burden"`
	NetProfitAfterTax  decimal.Decimal `json:"net_profit_after_tax"`

	// Current calendar month
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
	MonthlyProfit  decimal.Decimal `json:"monthly_profit"`
}

type SummaryResponse struct {
	Summary        Summary         `json:"summary"`
	VehicleProfits []VehicleProfit `json:"vehicle_profits"`
	Settings       model.Settings  `json:"settings"`
}

var hundred = decimal.NewFromInt(100)

// BuildSummary derives the full financial report from the loaded collections.
// Pure computation: deterministic and order-independent over its inputs; the
// monthly figures are taken from now's local calendar month.
func BuildSummary(vehicles []model.Vehicle, transactions []model.Transaction, settings model.Settings, now time.Time) SummaryResponse {
	summary := Summary{
		InitialBalance: settings.InitialBalance,
		VATRate:        settings.VATRate,
		IncomeTaxRate:  settings.IncomeTaxRate,
		TotalVehicles:  len(vehicles),
	}

	vehicleProfits := make([]VehicleProfit, 0)

	for i := range vehicles {
		v := &vehicles[i]
		switch v.Status {
		case model.VehicleStatusInStock:
			summary.VehiclesInStock++
			summary.TotalStockValue = summary.TotalStockValue.Add(v.PurchasePrice)
		case model.VehicleStatusSold:
			summary.VehiclesSold++

			// All expenses booked against this vehicle, purchase included
			vehicleExpenses := decimal.Zero
			for j := range v.Transactions {
				if v.Transactions[j].Type == model.TxTypeExpense {
					vehicleExpenses = vehicleExpenses.Add(v.Transactions[j].Amount)
				}
			}

			sellingPrice := decimal.Zero
			if v.SellingPrice != nil {
				sellingPrice = *v.SellingPrice
			}

			profit := sellingPrice.Sub(vehicleExpenses)
			summary.TotalVehicleProfit = summary.TotalVehicleProfit.Add(profit)

			margin := decimal.Zero
			if !sellingPrice.IsZero() {
				margin = profit.Div(sellingPrice).Mul(hundred).Round(1)
			}

			vehicleProfits = append(vehicleProfits, VehicleProfit{
				ID:                 v.ID.String(),
				Name:               v.DisplayName(),
				Year:               v.Year,
				PurchasePrice:      v.PurchasePrice,
				AdditionalExpenses: vehicleExpenses.Sub(v.PurchasePrice),
				TotalCost:          vehicleExpenses,
				SellingPrice:       sellingPrice,
				Profit:             profit,
				ProfitMargin:       margin,
			})
		}
	}

	for i := range transactions {
		t := &transactions[i]
		inMonth := t.Date.Month() == now.Month() && t.Date.Year() == now.Year()
		if t.Type == model.TxTypeIncome {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			if inMonth {
				summary.MonthlyIncome = summary.MonthlyIncome.Add(t.Amount)
			}
		} else if t.Type == model.TxTypeExpense {
			summary.TotalExpense = summary.TotalExpense.Add(t.Amount)
			if inMonth {
				summary.MonthlyExpense = summary.MonthlyExpense.Add(t.Amount)
			}
		}
	}

	summary.GrossProfitLoss = summary.TotalIncome.Sub(summary.TotalExpense)
	summary.MonthlyProfit = summary.MonthlyIncome.Sub(summary.MonthlyExpense)

	// Only positive realized profit is taxed; losses are never offset
	taxable := summary.TotalVehicleProfit
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	summary.TaxableProfit = taxable
	summary.EstimatedVAT = taxable.Mul(settings.VATRate.Div(hundred))
	summary.EstimatedIncomeTax = taxable.Mul(settings.IncomeTaxRate.Div(hundred))
	summary.TotalTaxBurden = summary.EstimatedVAT.Add(summary.EstimatedIncomeTax)
	// Tax is subtracted from the total profit, not just the taxable part
	summary.NetProfitAfterTax = summary.TotalVehicleProfit.Sub(summary.TotalTaxBurden)

	summary.CashBalance = settings.InitialBalance.Add(summary.GrossProfitLoss)

	return SummaryResponse{
		Summary:        summary,
		VehicleProfits: vehicleProfits,
		Settings:       settings,
	}
}

// --- Interface ---

type SummaryService interface {
	GetSummary(ctx context.Context) (SummaryResponse, error)
}

type summaryService struct {
	vehicleRepo     repository.VehicleRepository
	transactionRepo repository.TransactionRepository
	settingsService SettingsService
}

func NewSummaryService(
	vehicleRepo repository.VehicleRepository,
	transactionRepo repository.TransactionRepository,
	settingsService SettingsService,
) SummaryService {
	return &summaryService{
		vehicleRepo:     vehicleRepo,
		transactionRepo: transactionRepo,
		settingsService: settingsService,
	}
}

func (s *summaryService) GetSummary(ctx context.Context) (SummaryResponse, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	transactions, err := s.transactionRepo.List(ctx)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	// GetSettings persists defaults when the singleton row is missing
	settings, err := s.settingsService.GetSettings(ctx)
	if err != nil {
		return SummaryResponse{}, fmt.Errorf("failed to fetch settings: %w", err)
	}

	return BuildSummary(vehicles, transactions, settings, time.Now()), nil
}
