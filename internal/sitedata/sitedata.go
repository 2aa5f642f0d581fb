package sitedata

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Well-known sections seeded at startup. Arbitrary section names are
// still accepted on writes.
const (
	SectionHero      = "hero"
	SectionHeader    = "header"
	SectionFooter    = "footer"
	SectionAbout     = "about"
	SectionContact   = "contact"
	SectionPortfolio = "portfolio"
	SectionGallery   = "gallery"
)

// Document is an opaque JSON payload stored as jsonb.
type Document json.RawMessage

func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = append((*d)[:0], v...)
		return nil
	case string:
		*d = Document(v)
		return nil
	}
	return errors.New("unsupported document column type")
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Entry is one named section of site content.
type Entry struct {
	ID        int64     `json:"-" gorm:"primaryKey"`
	Section   string    `json:"section" gorm:"uniqueIndex;not null"`
	Data      Document  `json:"data" gorm:"type:jsonb"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "site_data"
}
