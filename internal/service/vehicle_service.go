package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"galeri/internal/model"
	"galeri/internal/repository"
	ws "galeri/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateVehicleRequest struct {
	Make    string  `json:"make" binding:"required"`
	Model   string  `json:"model" binding:"required"`
	Year    int     `json:"year" binding:"required"`
	Package *string `json:"package"`
	VIN     *string `json:"vin"`
	Plate   *string `json:"plate"`

	PurchasePrice string `json:"purchase_price" binding:"required"` // Decimal string
	PurchaseDate  string `json:"purchase_date" binding:"required"`  // RFC3339 or 2006-01-02

	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

type UpdateVehicleRequest struct {
	Make    string  `json:"make" binding:"required"`
	Model   string  `json:"model" binding:"required"`
	Year    int     `json:"year" binding:"required"`
	Package *string `json:"package"`
	VIN     *string `json:"vin"`
	Plate   *string `json:"plate"`
	Status  string  `json:"status" binding:"required,oneof=IN_STOCK SOLD RESERVED"`

	PurchasePrice string  `json:"purchase_price" binding:"required"`
	PurchaseDate  string  `json:"purchase_date" binding:"required"`
	SellingPrice  *string `json:"selling_price"`
	SaleDate      *string `json:"sale_date"`

	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

type SellVehicleRequest struct {
	SellingPrice string  `json:"selling_price" binding:"required"`
	SaleDate     *string `json:"sale_date"` // defaults to now
}

// --- Interface ---

type VehicleService interface {
	GetVehicles(ctx context.Context) ([]model.Vehicle, error)
	GetVehicleByID(ctx context.Context, id string) (*model.Vehicle, error)
	CreateVehicle(ctx context.Context, userID string, req CreateVehicleRequest) (*model.Vehicle, error)
	UpdateVehicle(ctx context.Context, userID string, id string, req UpdateVehicleRequest) (*model.Vehicle, error)
	DeleteVehicle(ctx context.Context, userID string, id string) error
	SellVehicle(ctx context.Context, userID string, id string, req SellVehicleRequest) (*model.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo     repository.VehicleRepository
	transactionRepo repository.TransactionRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	transactionRepo repository.TransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) VehicleService {
	return &vehicleService{
		vehicleRepo:     vehicleRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// --- Implementation ---

func (s *vehicleService) GetVehicles(ctx context.Context) ([]model.Vehicle, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}
	return vehicles, nil
}

func (s *vehicleService) GetVehicleByID(ctx context.Context, id string) (*model.Vehicle, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id: %w", err)
	}
	return s.vehicleRepo.FindByID(ctx, vehicleID)
}

// CreateVehicle registers a vehicle intake: the vehicle enters stock and the
// purchase price is booked as a VEHICLE_PURCHASE expense in the same DB
// transaction.
func (s *vehicleService) CreateVehicle(ctx context.Context, userID string, req CreateVehicleRequest) (*model.Vehicle, error) {
	purchasePrice, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase_price: %w", err)
	}
	if purchasePrice.IsNegative() {
		return nil, fmt.Errorf("purchase_price must not be negative")
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase_date: %w", err)
	}

	vehicle := model.Vehicle{
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		Package:       req.Package,
		VIN:           req.VIN,
		Plate:         req.Plate,
		Status:        model.VehicleStatusInStock,
		PurchasePrice: purchasePrice,
		PurchaseDate:  purchaseDate,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.vehicleRepo.Create(txCtx, &vehicle); createErr != nil {
			return fmt.Errorf("failed to create vehicle: %w", createErr)
		}

		description := vehicle.DisplayName() + " alışı"
		txn := model.Transaction{
			Type:        model.TxTypeExpense,
			Category:    model.CategoryVehiclePurchase,
			Amount:      purchasePrice,
			Date:        purchaseDate,
			Description: &description,
			VehicleID:   &vehicle.ID,
		}
		if createErr := s.transactionRepo.Create(txCtx, &txn); createErr != nil {
			return fmt.Errorf("failed to create purchase transaction: %w", createErr)
		}
		vehicle.Transactions = append(vehicle.Transactions, txn)

		details, _ := json.Marshal(map[string]interface{}{
			"make":           req.Make,
			"model":          req.Model,
			"year":           req.Year,
			"purchase_price": req.PurchasePrice,
			"purchase_date":  req.PurchaseDate,
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionCreateVehicle,
			EntityID:   vehicle.ID.String(),
			EntityName: vehicle.DisplayName(),
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("created", "vehicle", vehicle.ID.String())

	return &vehicle, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, userID string, id string, req UpdateVehicleRequest) (*model.Vehicle, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	purchasePrice, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase_price: %w", err)
	}
	if purchasePrice.IsNegative() {
		return nil, fmt.Errorf("purchase_price must not be negative")
	}

	purchaseDate, err := parseDate(req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase_date: %w", err)
	}

	vehicle.Make = req.Make
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.Package = req.Package
	vehicle.VIN = req.VIN
	vehicle.Plate = req.Plate
	vehicle.Status = req.Status
	vehicle.PurchasePrice = purchasePrice
	vehicle.PurchaseDate = purchaseDate
	vehicle.Description = req.Description
	vehicle.ImageURL = req.ImageURL

	// A sold vehicle always carries its sale fields; one in stock never does
	switch req.Status {
	case model.VehicleStatusSold:
		if req.SellingPrice == nil || req.SaleDate == nil {
			return nil, fmt.Errorf("selling_price and sale_date are required when status is SOLD")
		}
		sellingPrice, parseErr := decimal.NewFromString(*req.SellingPrice)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid selling_price: %w", parseErr)
		}
		saleDate, parseErr := parseDate(*req.SaleDate)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid sale_date: %w", parseErr)
		}
		vehicle.SellingPrice = &sellingPrice
		vehicle.SaleDate = &saleDate
	case model.VehicleStatusInStock:
		vehicle.SellingPrice = nil
		vehicle.SaleDate = nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.vehicleRepo.Update(txCtx, vehicle); updateErr != nil {
			return fmt.Errorf("failed to update vehicle: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"status":         req.Status,
			"purchase_price": req.PurchasePrice,
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateVehicle,
			EntityID:   vehicle.ID.String(),
			EntityName: vehicle.DisplayName(),
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("updated", "vehicle", vehicle.ID.String())

	return vehicle, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, userID string, id string) error {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.vehicleRepo.Delete(txCtx, vehicleID); deleteErr != nil {
			return fmt.Errorf("failed to delete vehicle: %w", deleteErr)
		}

		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionDeleteVehicle,
			EntityID:   vehicleID.String(),
			EntityName: vehicle.DisplayName(),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Notify("deleted", "vehicle", vehicleID.String())

	return nil
}

// SellVehicle marks the vehicle SOLD and books the selling price as a
// VEHICLE_SALE income in the same DB transaction.
func (s *vehicleService) SellVehicle(ctx context.Context, userID string, id string, req SellVehicleRequest) (*model.Vehicle, error) {
	vehicleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle id: %w", err)
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	sellingPrice, err := decimal.NewFromString(req.SellingPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid selling_price: %w", err)
	}
	if sellingPrice.IsNegative() {
		return nil, fmt.Errorf("selling_price must not be negative")
	}

	saleDate := time.Now()
	if req.SaleDate != nil && *req.SaleDate != "" {
		saleDate, err = parseDate(*req.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("invalid sale_date: %w", err)
		}
	}

	vehicle.Status = model.VehicleStatusSold
	vehicle.SellingPrice = &sellingPrice
	vehicle.SaleDate = &saleDate

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.vehicleRepo.Update(txCtx, vehicle); updateErr != nil {
			return fmt.Errorf("failed to update vehicle: %w", updateErr)
		}

		description := vehicle.DisplayName() + " satışı"
		txn := model.Transaction{
			Type:        model.TxTypeIncome,
			Category:    model.CategoryVehicleSale,
			Amount:      sellingPrice,
			Date:        saleDate,
			Description: &description,
			VehicleID:   &vehicle.ID,
		}
		if createErr := s.transactionRepo.Create(txCtx, &txn); createErr != nil {
			return fmt.Errorf("failed to create sale transaction: %w", createErr)
		}
		vehicle.Transactions = append(vehicle.Transactions, txn)

		details, _ := json.Marshal(map[string]interface{}{
			"selling_price": req.SellingPrice,
			"sale_date":     saleDate,
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionSellVehicle,
			EntityID:   vehicle.ID.String(),
			EntityName: vehicle.DisplayName(),
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("sold", "vehicle", vehicle.ID.String())

	return vehicle, nil
}
