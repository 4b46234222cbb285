package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"galeri/internal/model"
	"galeri/internal/repository"
	ws "galeri/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpdateSettingsRequest is a partial update: nil fields keep their stored value.
type UpdateSettingsRequest struct {
	InitialBalance *string `json:"initial_balance"`
	VATRate        *string `json:"vat_rate"`
	IncomeTaxRate  *string `json:"income_tax_rate"`
}

type SettingsService interface {
	GetSettings(ctx context.Context) (model.Settings, error)
	UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (model.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          *ws.Hub
}

func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// GetSettings returns the singleton settings row, creating it with defaults
// on first read.
func (s *settingsService) GetSettings(ctx context.Context) (model.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return *settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Settings{}, fmt.Errorf("failed to fetch settings: %w", err)
	}

	defaults := model.DefaultSettings()
	if createErr := s.settingsRepo.Create(ctx, &defaults); createErr != nil {
		return model.Settings{}, fmt.Errorf("failed to create default settings: %w", createErr)
	}
	return defaults, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (model.Settings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}

	if req.InitialBalance != nil {
		v, parseErr := decimal.NewFromString(*req.InitialBalance)
		if parseErr != nil {
			return model.Settings{}, fmt.Errorf("invalid initial_balance: %w", parseErr)
		}
		settings.InitialBalance = v
	}
	if req.VATRate != nil {
		v, parseErr := decimal.NewFromString(*req.VATRate)
		if parseErr != nil {
			return model.Settings{}, fmt.Errorf("invalid vat_rate: %w", parseErr)
		}
		if v.IsNegative() {
			return model.Settings{}, fmt.Errorf("vat_rate must not be negative")
		}
		settings.VATRate = v
	}
	if req.IncomeTaxRate != nil {
		v, parseErr := decimal.NewFromString(*req.IncomeTaxRate)
		if parseErr != nil {
			return model.Settings{}, fmt.Errorf("invalid income_tax_rate: %w", parseErr)
		}
		if v.IsNegative() {
			return model.Settings{}, fmt.Errorf("income_tax_rate must not be negative")
		}
		settings.IncomeTaxRate = v
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.settingsRepo.Update(txCtx, &settings); updateErr != nil {
			return fmt.Errorf("failed to update settings: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"initial_balance": settings.InitialBalance,
			"vat_rate":        settings.VATRate,
			"income_tax_rate": settings.IncomeTaxRate,
		})
		audit := &model.AuditLog{
			UserID:     parseUserID(userID),
			Action:     model.ActionUpdateSettings,
			EntityID:   model.SettingsID,
			EntityName: "Settings",
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return model.Settings{}, err
	}

	s.hub.Notify("updated", "settings", model.SettingsID)

	return settings, nil
}

// parseUserID converts the JWT subject into a nullable UUID for audit rows.
func parseUserID(userID string) *uuid.UUID {
	if userID == "" {
		return nil
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &parsed
}
