package repository

import (
	"context"

	"galeri/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	Create(ctx context.Context, settings *model.Settings) error
	Update(ctx context.Context, settings *model.Settings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*model.Settings, error) {
	var settings model.Settings
	if err := GetDB(ctx, r.db).First(&settings, "id = ?", model.SettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Create(ctx context.Context, settings *model.Settings) error {
	return GetDB(ctx, r.db).Create(settings).Error
}

func (r *settingsRepository) Update(ctx context.Context, settings *model.Settings) error {
	return GetDB(ctx, r.db).Save(settings).Error
}
