package docstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"gridboard/internal/export"
)

// ErrNotFound reports that no layout is saved under the requested name.
var ErrNotFound = errors.New("layout not found")

// layoutRow is the persisted form of a named layout document.
type layoutRow struct {
	Name      string `gorm:"primaryKey"`
	Body      []byte
	CreatedAt int64
	UpdatedAt int64
}

func (layoutRow) TableName() string { return "layouts" }

// Info describes a saved layout without its body.
type Info struct {
	Name    string
	Created time.Time
	Updated time.Time
}

// Store persists named layout documents in sqlite.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("docstore: path is required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open layout db: %w", err)
	}
	if err := db.AutoMigrate(&layoutRow{}); err != nil {
		return nil, fmt.Errorf("migrate layout db: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts a document under name.
func (s *Store) Save(name string, doc export.Document) error {
	if s == nil || s.db == nil {
		return errors.New("docstore: not initialized")
	}
	n := strings.TrimSpace(name)
	if n == "" {
		return errors.New("docstore: name is required")
	}
	body, err := export.EncodeJSON(doc)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Unix()
	row := layoutRow{Name: n, Body: body, CreatedAt: now, UpdatedAt: now}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"body":       body,
			"updated_at": now,
		}),
	}).Create(&row).Error
}

// Load retrieves the document saved under name.
func (s *Store) Load(name string) (export.Document, error) {
	if s == nil || s.db == nil {
		return export.Document{}, errors.New("docstore: not initialized")
	}
	var row layoutRow
	if err := s.db.First(&row, "name = ?", strings.TrimSpace(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return export.Document{}, fmt.Errorf("layout %q: %w", name, ErrNotFound)
		}
		return export.Document{}, err
	}
	return export.DecodeJSON(row.Body)
}

// List returns saved layouts, most recently updated first.
func (s *Store) List(limit int) ([]Info, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("docstore: not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	rows := make([]layoutRow, 0, limit)
	if err := s.db.Order("updated_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(rows))
	for _, row := range rows {
		infos = append(infos, Info{
			Name:    row.Name,
			Created: time.Unix(row.CreatedAt, 0).UTC(),
			Updated: time.Unix(row.UpdatedAt, 0).UTC(),
		})
	}
	return infos, nil
}

// Delete removes a saved layout. Unknown names are a no-op.
func (s *Store) Delete(name string) error {
	if s == nil || s.db == nil {
		return errors.New("docstore: not initialized")
	}
	return s.db.Delete(&layoutRow{}, "name = ?", strings.TrimSpace(name)).Error
}
