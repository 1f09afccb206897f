package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/infrastructure/numbering"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormNumberSeeder reads the highest document number stored for a day so a
// restarted sequence continues after it.
type GormNumberSeeder struct {
	db *gorm.DB
}

// NewGormNumberSeeder creates a new GormNumberSeeder
func NewGormNumberSeeder(db *gorm.DB) *GormNumberSeeder {
	return &GormNumberSeeder{db: db}
}

// LastSequence implements numbering.Seeder
func (s *GormNumberSeeder) LastSequence(ctx context.Context, prefix string, day time.Time) (int64, error) {
	var (
		model  any
		column string
	)
	switch prefix {
	case numbering.PrefixPR:
		model, column = &models.PurchaseRequisitionModel{}, "pr_number"
	case numbering.PrefixLot:
		model, column = &models.InventoryLotModel{}, "lot_number"
	default:
		return 0, fmt.Errorf("no table stores %q numbers", prefix)
	}

	pattern := prefix + "-" + day.UTC().Format("20060102") + "-%"
	var numbers []string
	if err := s.db.WithContext(ctx).Model(model).
		Where(column+" LIKE ?", pattern).
		Pluck(column, &numbers).Error; err != nil {
		return 0, err
	}

	// counters past 9999 are wider, so compare numerically
	var last int64
	for _, number := range numbers {
		if seq, ok := numbering.ParseSequence(number, prefix, day); ok && seq > last {
			last = seq
		}
	}
	return last, nil
}

var _ numbering.Seeder = (*GormNumberSeeder)(nil)
