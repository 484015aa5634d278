package importer

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rental-analytics/internal/models"
)

const DefaultBatchSize = 500

type Options struct {
	BatchSize int
	// Replace clears existing rentals, vehicles and locations first.
	Replace bool
}

// Summary counts what an import wrote.
type Summary struct {
	Vehicles  int
	Locations int
	Rentals   int
}

// Importer bulk-loads a cleaned flat dataset into the rental schema.
type Importer struct {
	db   *gorm.DB
	opts Options
}

func New(db *gorm.DB, opts Options) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Importer{db: db, opts: opts}
}

func (i *Importer) ImportFile(ctx context.Context, path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

func (i *Importer) Import(ctx context.Context, r io.Reader) (*Summary, error) {
	ds, err := Parse(r)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"rows":      len(ds.Rentals),
		"vehicles":  len(ds.Vehicles),
		"locations": len(ds.Locations),
	}).Info("parsed dataset")

	if err := i.Load(ctx, ds); err != nil {
		return nil, err
	}

	return &Summary{
		Vehicles:  len(ds.Vehicles),
		Locations: len(ds.Locations),
		Rentals:   len(ds.Rentals),
	}, nil
}

// Load writes ds in a single transaction, referenced tables first. The
// database enforces keys and constraints; any rejection rolls back the
// whole import.
func (i *Importer) Load(ctx context.Context, ds *Dataset) error {
	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := i.prepare(tx); err != nil {
			return err
		}

		if len(ds.Vehicles) > 0 {
			if err := tx.CreateInBatches(ds.Vehicles, i.opts.BatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert vehicles: %w", err)
			}
		}
		if len(ds.Locations) > 0 {
			if err := tx.CreateInBatches(ds.Locations, i.opts.BatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert locations: %w", err)
			}
		}
		if len(ds.Rentals) > 0 {
			if err := tx.Omit("Vehicle", "Location").CreateInBatches(ds.Rentals, i.opts.BatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert rentals: %w", err)
			}
		}
		return nil
	})
}

func (i *Importer) prepare(tx *gorm.DB) error {
	var existing int64
	for _, model := range models.ModelTypeRegistry {
		var count int64
		if err := tx.Model(model).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count %T: %w", model, err)
		}
		existing += count
	}

	if existing == 0 {
		return nil
	}
	if !i.opts.Replace {
		return fmt.Errorf("%w: %d rows present, use replace to overwrite", ErrSchemaNotEmpty, existing)
	}

	log.WithField("rows", existing).Warn("clearing existing rental data")
	registry := models.ModelTypeRegistry
	for j := len(registry) - 1; j >= 0; j-- {
		if err := tx.Where("1 = 1").Delete(registry[j]).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", registry[j], err)
		}
	}
	return nil
}
