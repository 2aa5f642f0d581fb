package postgres

import (
	"errors"
	"time"

	"github.com/treyfatech/sitecms/internal/sitedata"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SiteDataRepository implements sitedata.Repository using GORM.
type SiteDataRepository struct {
	db *gorm.DB
}

func NewSiteDataRepository(db *gorm.DB) sitedata.Repository {
	return &SiteDataRepository{db: db}
}

func (r *SiteDataRepository) GetAll() ([]sitedata.Entry, error) {
	var entries []sitedata.Entry
	err := r.db.Order("section ASC").Find(&entries).Error
	return entries, err
}

func (r *SiteDataRepository) GetBySection(section string) (*sitedata.Entry, error) {
	var entry sitedata.Entry
	err := r.db.Where("section = ?", section).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sitedata.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *SiteDataRepository) Upsert(entry *sitedata.Entry) error {
	entry.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(entry).Error
}
