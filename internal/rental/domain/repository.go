package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	LoadSnapshot(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (*Snapshot, error)
	SaveTotal(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, total decimal.Decimal, issuedAt time.Time) error
}

var (
	ErrNotFound = errors.New("not_found")
)
