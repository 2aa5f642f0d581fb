package postgres

import (
	"errors"
	"time"

	"github.com/treyfatech/sitecms/internal/blog"
	"gorm.io/gorm"
)

// BlogRepository implements blog.Repository using GORM.
type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) blog.Repository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(p *blog.Post) error {
	return r.db.Create(p).Error
}

func (r *BlogRepository) GetByID(id int64) (*blog.Post, error) {
	var p blog.Post
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, blog.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *BlogRepository) List(q blog.ListQuery) ([]*blog.Post, error) {
	var posts []*blog.Post
	offset := (q.Page - 1) * q.Limit
	db := r.filtered(q).Order("created_at DESC").Limit(q.Limit).Offset(offset)
	err := db.Find(&posts).Error
	return posts, err
}

func (r *BlogRepository) Count(q blog.ListQuery) (int64, error) {
	var count int64
	err := r.filtered(q).Count(&count).Error
	return count, err
}

func (r *BlogRepository) Update(p *blog.Post) error {
	p.UpdatedAt = time.Now()
	return r.db.Save(p).Error
}

func (r *BlogRepository) Delete(id int64) error {
	return r.db.Delete(&blog.Post{}, id).Error
}

func (r *BlogRepository) AllCategoriesAndTags() ([]string, []blog.Tags, error) {
	var rows []blog.Post
	err := r.db.Select("category", "tags").Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	categories := make([]string, 0, len(rows))
	tags := make([]blog.Tags, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.Category)
		tags = append(tags, row.Tags)
	}
	return categories, tags, nil
}

func (r *BlogRepository) IncrementViews(id int64) error {
	return r.db.Model(&blog.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *BlogRepository) filtered(q blog.ListQuery) *gorm.DB {
	db := r.db.Model(&blog.Post{})
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	return db
}
