package service_test

import (
	"context"
	"testing"

	"galeri/internal/model"
	"galeri/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetSettings_CreatesDefaultsOnFirstRead(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	auditRepo := new(MockAuditRepository)

	settingsRepo.On("Get", mock.Anything).Return(nil, gorm.ErrRecordNotFound).Once()
	settingsRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Settings) bool {
		return s.ID == model.SettingsID &&
			s.InitialBalance.IsZero() &&
			s.VATRate.Equal(dec("20")) &&
			s.IncomeTaxRate.Equal(dec("15"))
	})).Return(nil).Once()

	svc := service.NewSettingsService(settingsRepo, auditRepo, fakeTxManager{}, nil)

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assertDec(t, "20", settings.VATRate)
	assertDec(t, "15", settings.IncomeTaxRate)

	settingsRepo.AssertExpectations(t)
}

func TestGetSettings_ReturnsStoredRow(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	stored := &model.Settings{ID: model.SettingsID, InitialBalance: dec("250000"), VATRate: dec("18"), IncomeTaxRate: dec("10")}
	settingsRepo.On("Get", mock.Anything).Return(stored, nil).Once()

	svc := service.NewSettingsService(settingsRepo, new(MockAuditRepository), fakeTxManager{}, nil)

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assertDec(t, "250000", settings.InitialBalance)
	assertDec(t, "18", settings.VATRate)
	settingsRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateSettings_PartialUpdateKeepsOtherFields(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	auditRepo := new(MockAuditRepository)
	stored := &model.Settings{ID: model.SettingsID, InitialBalance: dec("100000"), VATRate: dec("20"), IncomeTaxRate: dec("15")}

	settingsRepo.On("Get", mock.Anything).Return(stored, nil).Once()
	settingsRepo.On("Update", mock.Anything, mock.MatchedBy(func(s *model.Settings) bool {
		return s.VATRate.Equal(dec("18")) &&
			s.InitialBalance.Equal(dec("100000")) &&
			s.IncomeTaxRate.Equal(dec("15"))
	})).Return(nil).Once()
	auditRepo.On("Log", mock.Anything, mock.MatchedBy(func(a *model.AuditLog) bool {
		return a.Action == model.ActionUpdateSettings
	})).Return(nil).Once()

	svc := service.NewSettingsService(settingsRepo, auditRepo, fakeTxManager{}, nil)

	vat := "18"
	settings, err := svc.UpdateSettings(context.Background(), "", service.UpdateSettingsRequest{VATRate: &vat})
	require.NoError(t, err)
	assertDec(t, "18", settings.VATRate)
	assertDec(t, "100000", settings.InitialBalance)

	settingsRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestUpdateSettings_RejectsNegativeRate(t *testing.T) {
	settingsRepo := new(MockSettingsRepository)
	stored := &model.Settings{ID: model.SettingsID, VATRate: dec("20"), IncomeTaxRate: dec("15")}
	settingsRepo.On("Get", mock.Anything).Return(stored, nil).Once()

	svc := service.NewSettingsService(settingsRepo, new(MockAuditRepository), fakeTxManager{}, nil)

	vat := "-5"
	_, err := svc.UpdateSettings(context.Background(), "", service.UpdateSettingsRequest{VATRate: &vat})
	assert.Error(t, err)
	settingsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
