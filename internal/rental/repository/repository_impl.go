package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/rentflow/internal/rental/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LoadSnapshot(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*domain.Snapshot, error) {
	tx := db.WithContext(ctx)

	var snap domain.Snapshot
	if err := findByID(tx, invoiceID, &snap.Invoice); err != nil {
		return nil, err
	}
	if err := findByID(tx, snap.Invoice.RentID, &snap.Rent); err != nil {
		return nil, err
	}
	if err := findByID(tx, snap.Rent.LandlordID, &snap.Landlord); err != nil {
		return nil, err
	}
	if err := findByID(tx, snap.Rent.TenantID, &snap.Tenant); err != nil {
		return nil, err
	}
	if err := findByID(tx, snap.Rent.PropertyID, &snap.Property); err != nil {
		return nil, err
	}

	var state domain.State
	err := findByID(tx, snap.Invoice.StateID, &state)
	switch {
	case err == nil:
		snap.State = &state
	case errors.Is(err, domain.ErrNotFound):
		// readings are informational on the document
	default:
		return nil, err
	}

	return &snap, nil
}

func (r *repo) SaveTotal(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, total decimal.Decimal, issuedAt time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Invoice{}).
			Where("id = ?", invoiceID).
			Updates(map[string]any{
				"total_gross": total,
				"updated_at":  issuedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		// The first successful generation marks the invoice as issued.
		return tx.Model(&domain.Invoice{}).
			Where("id = ? AND issued_at IS NULL", invoiceID).
			Update("issued_at", issuedAt).Error
	})
}

func findByID[T any](db *gorm.DB, id snowflake.ID, out *T) error {
	err := db.Where("id = ?", id).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
