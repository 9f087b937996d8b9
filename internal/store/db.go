package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

type dbStore struct {
	db *gorm.DB
}

// NewDBStore creates a gorm-backed store and migrates the schema
func NewDBStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&schema.Certificate{}, &schema.PendingCertificate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &dbStore{db: db}, nil
}

// ConfigureConnectionPool sets pool limits on the underlying sql.DB, applying
// defaults for zero values.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	return nil
}

func (s *dbStore) CreatePendingCertificate(ctx context.Context, pending *schema.PendingCertificate) error {
	if err := s.db.WithContext(ctx).Create(pending).Error; err != nil {
		return fmt.Errorf("failed to persist pending certificate: %w", err)
	}
	return nil
}

func (s *dbStore) GetPendingCertificate(ctx context.Context, idempotencyKey string) (*schema.PendingCertificate, error) {
	var pending schema.PendingCertificate
	err := s.db.WithContext(ctx).
		Where("idempotency_key = ?", idempotencyKey).
		First(&pending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPendingCertificateNotFound, idempotencyKey)
		}
		return nil, fmt.Errorf("failed to load pending certificate: %w", err)
	}
	return &pending, nil
}

func (s *dbStore) ListPendingCertificates(ctx context.Context, limit int) ([]schema.PendingCertificate, error) {
	var pendings []schema.PendingCertificate
	query := s.db.WithContext(ctx).
		Where("status = ?", schema.PendingStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&pendings).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending certificates: %w", err)
	}
	return pendings, nil
}

func (s *dbStore) DeletePendingCertificate(ctx context.Context, idempotencyKey string) error {
	result := s.db.WithContext(ctx).
		Where("idempotency_key = ?", idempotencyKey).
		Delete(&schema.PendingCertificate{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete pending certificate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPendingCertificateNotFound, idempotencyKey)
	}
	return nil
}

func (s *dbStore) RecordPublicationFailure(ctx context.Context, idempotencyKey string, reason string) error {
	result := s.db.WithContext(ctx).
		Model(&schema.PendingCertificate{}).
		Where("idempotency_key = ?", idempotencyKey).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record publication failure: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPendingCertificateNotFound, idempotencyKey)
	}
	return nil
}

func (s *dbStore) MarkPublished(ctx context.Context, idempotencyKey string, cid domain.CID) (*schema.Certificate, error) {
	var certificate *schema.Certificate

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending schema.PendingCertificate
		if err := tx.Where("idempotency_key = ?", idempotencyKey).First(&pending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", domain.ErrPendingCertificateNotFound, idempotencyKey)
			}
			return err
		}

		// Resuming an already-published intent must not create a second row
		if pending.Status == schema.PendingStatusPublished {
			var existing schema.Certificate
			if err := tx.Where("voucher_code = ?", pending.VoucherCode).First(&existing).Error; err != nil {
				return err
			}
			certificate = &existing
			return nil
		}

		if err := tx.Model(&schema.PendingCertificate{}).
			Where("idempotency_key = ?", idempotencyKey).
			Updates(map[string]interface{}{
				"status": schema.PendingStatusPublished,
				"cid":    cid.String(),
			}).Error; err != nil {
			return err
		}

		cert := schema.Certificate{
			VoucherCode:      pending.VoucherCode,
			VerificationHash: pending.VerificationHash,
			CustomerAddress:  pending.CustomerAddress,
			RewardID:         pending.RewardID,
			RewardName:       pending.RewardName,
			TokenCost:        pending.TokenCost,
			RedeemedAt:       pending.RedeemedAt,
			CID:              cid.String(),
		}
		if err := tx.Create(&cert).Error; err != nil {
			return err
		}
		certificate = &cert
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certificate, nil
}

func (s *dbStore) GetCertificateByVoucher(ctx context.Context, voucherCode string) (*schema.Certificate, error) {
	var cert schema.Certificate
	err := s.db.WithContext(ctx).
		Where("voucher_code = ?", voucherCode).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: voucher %s", domain.ErrCertificateNotFound, voucherCode)
		}
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}
	return &cert, nil
}

func (s *dbStore) ListCertificatesByCustomer(ctx context.Context, customer domain.Address) ([]schema.Certificate, error) {
	var certs []schema.Certificate
	err := s.db.WithContext(ctx).
		Where("customer_address = ?", customer.String()).
		Order("id ASC").
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return certs, nil
}

func (s *dbStore) CountCertificatesByCustomer(ctx context.Context, customer domain.Address) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Certificate{}).
		Where("customer_address = ?", customer.String()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count certificates: %w", err)
	}
	return count, nil
}
