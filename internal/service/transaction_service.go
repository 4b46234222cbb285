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

type CreateTransactionRequest struct {
	Type        string  `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Category    string  `json:"category" binding:"required,oneof=VEHICLE_SALE VEHICLE_PURCHASE MAINTENANCE TAX NOTARY COMMISSION CASH_IN CASH_OUT OTHER"`
	Amount      string  `json:"amount" binding:"required"` // Decimal string
	Date        string  `json:"date" binding:"required"`   // RFC3339 or 2006-01-02
	Description *string `json:"description"`
	VehicleID   *string `json:"vehicle_id"`
}

type UpdateTransactionRequest = CreateTransactionRequest

// KasaRequest is a cash-register intent: ADD deposits into the till,
// WITHDRAW takes out of it. Amounts are stored as absolute values either way.
type KasaRequest struct {
	Direction   string  `json:"direction" binding:"required,oneof=ADD WITHDRAW"`
	Amount      string  `json:"amount" binding:"required"`
	Date        *string `json:"date"` // defaults to now
	Description *string `json:"description"`
}

// --- Interface ---

type TransactionService interface {
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, id string, req UpdateTransactionRequest) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, userID string, id string) error
	CreateKasaTransaction(ctx context.Context, userID string, req KasaRequest) (*model.Transaction, error)
}

type transactionService struct {
	transactionRepo repository.TransactionRepository
	auditRepo       repository.AuditRepository
	txManager       repository.TransactionManager
	hub             *ws.Hub
}

func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TransactionService {
	return &transactionService{
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		hub:             hub,
	}
}

// --- Implementation ---

func (s *transactionService) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	txns, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txns, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	txnID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}
	return s.transactionRepo.FindByID(ctx, txnID)
}

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*model.Transaction, error) {
	txn, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.transactionRepo.Create(txCtx, txn); createErr != nil {
			return fmt.Errorf("failed to create transaction: %w", createErr)
		}
		return s.logTransactionAudit(txCtx, userID, model.ActionCreateTransaction, txn)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("created", "transaction", txn.ID.String())

	return txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, id string, req UpdateTransactionRequest) (*model.Transaction, error) {
	txnID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	existing, err := s.transactionRepo.FindByID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildTransaction(req)
	if err != nil {
		return nil, err
	}

	existing.Type = updated.Type
	existing.Category = updated.Category
	existing.Amount = updated.Amount
	existing.Date = updated.Date
	existing.Description = updated.Description
	existing.VehicleID = updated.VehicleID
	existing.Vehicle = nil // re-resolved on next read

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.transactionRepo.Update(txCtx, existing); updateErr != nil {
			return fmt.Errorf("failed to update transaction: %w", updateErr)
		}
		return s.logTransactionAudit(txCtx, userID, model.ActionUpdateTransaction, existing)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("updated", "transaction", existing.ID.String())

	return existing, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, id string) error {
	txnID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid transaction id: %w", err)
	}

	existing, err := s.transactionRepo.FindByID(ctx, txnID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.transactionRepo.Delete(txCtx, txnID); deleteErr != nil {
			return fmt.Errorf("failed to delete transaction: %w", deleteErr)
		}
		return s.logTransactionAudit(txCtx, userID, model.ActionDeleteTransaction, existing)
	})
	if err != nil {
		return err
	}

	s.hub.Notify("deleted", "transaction", txnID.String())

	return nil
}

// CreateKasaTransaction maps a cash-register intent onto a plain transaction
// with no vehicle attached.
func (s *transactionService) CreateKasaTransaction(ctx context.Context, userID string, req KasaRequest) (*model.Transaction, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	date := time.Now()
	if req.Date != nil && *req.Date != "" {
		date, err = parseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
	}

	txnType := model.TxTypeIncome
	category := model.CategoryCashIn
	description := "Kasaya para eklendi"
	if req.Direction == "WITHDRAW" {
		txnType = model.TxTypeExpense
		category = model.CategoryCashOut
		description = "Kasadan para çekildi"
	}
	if req.Description != nil && *req.Description != "" {
		description = *req.Description
	}

	txn := &model.Transaction{
		Type:        txnType,
		Category:    category,
		Amount:      amount.Abs(),
		Date:        date,
		Description: &description,
		VehicleID:   nil, // kasa entries are never tied to a vehicle
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.transactionRepo.Create(txCtx, txn); createErr != nil {
			return fmt.Errorf("failed to create kasa transaction: %w", createErr)
		}
		return s.logTransactionAudit(txCtx, userID, model.ActionKasaTransaction, txn)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Notify("created", "transaction", txn.ID.String())

	return txn, nil
}

// --- Helpers ---

func (s *transactionService) buildTransaction(req CreateTransactionRequest) (*model.Transaction, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	txn := &model.Transaction{
		Type:        req.Type,
		Category:    req.Category,
		Amount:      amount,
		Date:        date,
		Description: req.Description,
	}

	if req.VehicleID != nil && *req.VehicleID != "" {
		parsed, parseErr := uuid.Parse(*req.VehicleID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid vehicle_id: %w", parseErr)
		}
		txn.VehicleID = &parsed
	}

	return txn, nil
}

func (s *transactionService) logTransactionAudit(ctx context.Context, userID, action string, txn *model.Transaction) error {
	details, _ := json.Marshal(map[string]interface{}{
		"type":     txn.Type,
		"category": txn.Category,
		"amount":   txn.Amount,
		"date":     txn.Date,
	})
	name := txn.Category
	if txn.Description != nil {
		name = *txn.Description
	}
	audit := &model.AuditLog{
		UserID:     parseUserID(userID),
		Action:     action,
		EntityID:   txn.ID.String(),
		EntityName: name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// parseDate accepts RFC3339 timestamps or bare 2006-01-02 dates, which is
// what the dashboard's forms send.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
