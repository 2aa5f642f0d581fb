package postgres

import (
	"time"

	"github.com/treyfatech/sitecms/internal/consultation"
	"gorm.io/gorm"
)

// ConsultationRepository implements consultation.Repository using GORM.
type ConsultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) consultation.Repository {
	return &ConsultationRepository{db: db}
}

func (r *ConsultationRepository) Create(c *consultation.Consultation) error {
	return r.db.Create(c).Error
}

func (r *ConsultationRepository) GetByID(id int64) (*consultation.Consultation, error) {
	var c consultation.Consultation
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConsultationRepository) List(status string, limit, offset int) ([]*consultation.Consultation, error) {
	var items []*consultation.Consultation
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *ConsultationRepository) Count(status string) (int64, error) {
	var count int64
	q := r.db.Model(&consultation.Consultation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *ConsultationRepository) Update(c *consultation.Consultation) error {
	c.UpdatedAt = time.Now()
	return r.db.Save(c).Error
}

func (r *ConsultationRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&consultation.Consultation{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, rr := range rows {
		out[rr.Status] = rr.Count
	}
	return out, nil
}

func (r *ConsultationRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&consultation.Consultation{}).
		Where("created_at >= ?", t).
		Count(&count).Error
	return count, err
}
