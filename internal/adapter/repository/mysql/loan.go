package mysql

import (
	"context"
	"errors"

	loanDomain "campus-rentals-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) Delete(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Delete(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, propertyID uint64, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("property_id = ? AND loan_id = ?", propertyID, loanID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) ListByProperty(ctx context.Context, propertyID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListActiveByProperty(ctx context.Context, propertyID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) RetireActive(ctx context.Context, propertyID, distributionID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Updates(map[string]any{"is_active": false, "retired_by_distribution_id": distributionID})
	return res.RowsAffected, res.Error
}

func (r *LoanRepository) RestoreRetired(ctx context.Context, distributionID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("retired_by_distribution_id = ?", distributionID).
		Updates(map[string]any{"is_active": true, "retired_by_distribution_id": nil})
	return res.RowsAffected, res.Error
}

func (r *LoanRepository) DeleteOriginatedBy(ctx context.Context, distributionID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("originated_by_distribution_id = ?", distributionID).
		Delete(&loanDomain.Loan{})
	return res.RowsAffected, res.Error
}
