package repository

import (
	"context"

	"galeri/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	Update(ctx context.Context, txn *model.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context) ([]model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	return GetDB(ctx, r.db).Create(txn).Error
}

func (r *transactionRepository) Update(ctx context.Context, txn *model.Transaction) error {
	return GetDB(ctx, r.db).Save(txn).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Transaction{}).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var txn model.Transaction
	if err := GetDB(ctx, r.db).Preload("Vehicle").First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) List(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := GetDB(ctx, r.db).Preload("Vehicle").Order("date desc").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
