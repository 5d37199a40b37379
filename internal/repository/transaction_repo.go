package repository

import (
	"context"
	"errors"

	"refearn/internal/models"

	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, ref string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.WithContext(ctx).Where("reference = ?", ref).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
