package content

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS site_content (
    id           INTEGER PRIMARY KEY,
    content_json TEXT     NOT NULL,
    version      INTEGER  NOT NULL DEFAULT 1,
    updated_at   DATETIME NOT NULL
)`

// Meta describes the persisted content row.
type Meta struct {
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store owns the single site_content row and the process-wide normalized copy of it.
type Store struct {
	db   *gorm.DB
	logg *logger.Logger
	now  func() time.Time

	mu     sync.RWMutex
	cached *Value
}

// NewStore builds a store bound to db.
func NewStore(db *gorm.DB, logg *logger.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Store{db: db, logg: logg, now: time.Now}, nil
}

// Ensure creates the table when missing and seeds the default document.
func (s *Store) Ensure(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("create site_content: %w", err)
	}

	var row models.SiteContent
	err := s.db.WithContext(ctx).First(&row, models.SiteContentRowID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load site_content: %w", err)
	}

	row = models.SiteContent{
		ID:          models.SiteContentRowID,
		ContentJSON: string(DefaultsJSON()),
		Version:     1,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("seed site_content: %w", err)
	}
	s.setCache(Sanitize(Defaults()))
	return nil
}

// Get returns the normalized document. A stored document that fails to parse is
// logged and replaced by the defaults for reads; it is never surfaced as an error.
func (s *Store) Get(ctx context.Context) (Value, error) {
	s.mu.RLock()
	if s.cached != nil {
		out := s.cached.Clone()
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	var row models.SiteContent
	err := s.db.WithContext(ctx).First(&row, models.SiteContentRowID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.fillCache(Sanitize(Defaults())), nil
	case err != nil:
		return Value{}, fmt.Errorf("load site_content: %w", err)
	}

	parsed, err := Parse([]byte(row.ContentJSON))
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "content.parse_failed", err)
		}
		return s.fillCache(Sanitize(Defaults())), nil
	}
	return s.fillCache(Sanitize(parsed)), nil
}

// Save normalizes doc against the defaults, replaces the stored row and the cache.
func (s *Store) Save(ctx context.Context, doc Value) (Value, error) {
	normalized := Sanitize(doc)
	payload, err := normalized.MarshalJSON()
	if err != nil {
		return Value{}, fmt.Errorf("encode site content: %w", err)
	}

	now := s.now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.SiteContent
		version := int64(1)
		err := tx.First(&current, models.SiteContentRowID).Error
		switch {
		case err == nil:
			version = current.Version + 1
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		row := models.SiteContent{
			ID:          models.SiteContentRowID,
			ContentJSON: string(payload),
			Version:     version,
			UpdatedAt:   now,
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return Value{}, fmt.Errorf("save site_content: %w", err)
	}

	return s.setCache(normalized), nil
}

// Meta reports the stored version and timestamp. A missing row yields the zero Meta.
func (s *Store) Meta(ctx context.Context) (Meta, error) {
	var row models.SiteContent
	err := s.db.WithContext(ctx).
		Select("id", "version", "updated_at").
		First(&row, models.SiteContentRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Meta{}, nil
	}
	if err != nil {
		return Meta{}, fmt.Errorf("load site_content meta: %w", err)
	}
	return Meta{Version: row.Version, UpdatedAt: row.UpdatedAt}, nil
}

// fillCache stores v only when nothing is cached yet. A document loaded
// before a concurrent Save must not replace the saved one.
func (s *Store) fillCache(v Value) Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached.Clone()
	}
	stored := v.Clone()
	s.cached = &stored
	return v
}

func (s *Store) setCache(v Value) Value {
	stored := v.Clone()
	s.mu.Lock()
	s.cached = &stored
	s.mu.Unlock()
	return v
}
