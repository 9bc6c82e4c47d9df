package repository

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/glucose-logger/internal/database"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"gorm.io/gorm"
)

// ReadingRepository persists readings in the remote Postgres store.
type ReadingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// List returns all readings ordered most recent first. Period values
// coming back from the store are normalized at this boundary, so
// unrecognized tags default to Fasting.
func (r *ReadingRepository) List(ctx context.Context) ([]domain.Reading, error) {
	var rows []database.GlucoseReading
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list glucose readings: %w", err)
	}

	readings := make([]domain.Reading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, toDomain(row))
	}
	return readings, nil
}

func (r *ReadingRepository) Create(ctx context.Context, reading domain.Reading) error {
	row := toRow(reading)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create glucose reading: %w", err)
	}
	return nil
}

func (r *ReadingRepository) Update(ctx context.Context, reading domain.Reading) error {
	row := toRow(reading)
	result := r.db.WithContext(ctx).Model(&database.GlucoseReading{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"value":     row.Value,
			"timestamp": row.Timestamp,
			"period":    row.Period,
			"note":      row.Note,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update glucose reading: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReadingRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Delete(&database.GlucoseReading{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete glucose reading: %w", err)
	}
	return nil
}

func toDomain(row database.GlucoseReading) domain.Reading {
	return domain.Reading{
		ID:        row.ID,
		Value:     row.Value,
		Timestamp: row.Timestamp,
		Period:    domain.ParsePeriod(row.Period),
		Note:      row.Note,
	}
}

func toRow(reading domain.Reading) database.GlucoseReading {
	return database.GlucoseReading{
		ID:        reading.ID,
		Value:     reading.Value,
		Timestamp: reading.Timestamp,
		Period:    string(reading.Period),
		Note:      reading.Note,
	}
}
