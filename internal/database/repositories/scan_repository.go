package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// ScanRepository stores finished scans
type ScanRepository interface {
	Create(ctx context.Context, record *models.ScanRecord) error
	GetByScanID(ctx context.Context, scanID string) (*models.ScanRecord, error)
}

type scanRepo struct {
	db *gorm.DB
}

// NewScanRepository creates a GORM backed scan repository
func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepo{db: db}
}

// Create inserts a record. A second record for the same scan is rejected.
func (r *scanRepo) Create(ctx context.Context, record *models.ScanRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: scan %s already stored", ErrDuplicateKey, record.ScanID)
		}
		return fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return nil
}

// GetByScanID finds the record of a scan
func (r *scanRepo) GetByScanID(ctx context.Context, scanID string) (*models.ScanRecord, error) {
	var record models.ScanRecord
	err := r.db.WithContext(ctx).Where("scan_id = ?", scanID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return &record, nil
}
