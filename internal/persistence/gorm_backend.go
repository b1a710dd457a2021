package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cnds86/kiptrack/internal/database"
	"github.com/cnds86/kiptrack/internal/models"
)

// GormBackend stores documents in the app_documents table. Changes by other
// writers are detected by polling the row's revision and update time.
type GormBackend struct {
	db           *gorm.DB
	pollInterval time.Duration
	closer       func() error
}

// NewGormBackend wraps an opened database. The caller owns the connection.
func NewGormBackend(db *gorm.DB, pollInterval time.Duration) *GormBackend {
	return &GormBackend{db: db, pollInterval: pollInterval}
}

// NewGormBackendFromManager wraps a database manager and closes it on Close.
func NewGormBackendFromManager(m *database.Manager, pollInterval time.Duration) *GormBackend {
	return &GormBackend{db: m.DB(), pollInterval: pollInterval, closer: m.Close}
}

// Load implements Backend.
func (b *GormBackend) Load(ctx context.Context, key string) (*models.AppData, error) {
	doc, _, err := b.fetch(ctx, key)
	return doc, err
}

// Save implements Backend. The row is inserted or fully replaced.
func (b *GormBackend) Save(ctx context.Context, key string, data models.AppData) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}
	row := database.Document{
		UserKey:  key,
		Data:     string(raw),
		Revision: data.Revision,
	}
	err = b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "revision", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Subscribe implements Backend.
func (b *GormBackend) Subscribe(ctx context.Context, key string, fn func(*models.AppData)) (func(), error) {
	return subscribePolling(ctx, "gorm", b.pollInterval,
		func(ctx context.Context) (string, error) { return b.version(ctx, key) },
		func(ctx context.Context) (*models.AppData, string, error) { return b.fetch(ctx, key) },
		fn,
	)
}

// Close implements Backend.
func (b *GormBackend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

func (b *GormBackend) fetch(ctx context.Context, key string) (*models.AppData, string, error) {
	var row database.Document
	err := b.db.WithContext(ctx).Where("user_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load document: %w", err)
	}
	doc, err := decode([]byte(row.Data))
	if err != nil {
		return nil, "", err
	}
	return doc, rowVersion(row.Revision, row.UpdatedAt), nil
}

func (b *GormBackend) version(ctx context.Context, key string) (string, error) {
	var row struct {
		Revision  uint64
		UpdatedAt time.Time
	}
	res := b.db.WithContext(ctx).Model(&database.Document{}).
		Select("revision", "updated_at").
		Where("user_key = ?", key).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return "", fmt.Errorf("poll document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", nil
	}
	return rowVersion(row.Revision, row.UpdatedAt), nil
}

func rowVersion(revision uint64, updatedAt time.Time) string {
	return fmt.Sprintf("%d@%d", revision, updatedAt.UnixNano())
}
