package blog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Tags is stored as a jsonb string array on the post row.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	return json.Marshal(t)
}

func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = Tags{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return errors.New("unsupported tags column type")
}

type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	Excerpt   string    `json:"excerpt" gorm:"column:excerpt"`
	Author    string    `json:"author" gorm:"not null"`
	AuthorID  int64     `json:"authorId" gorm:"column:author_id;not null"`
	Category  string    `json:"category" gorm:"column:category"`
	Tags      Tags      `json:"tags" gorm:"column:tags;type:jsonb"`
	Image     string    `json:"image,omitempty" gorm:"column:image"`
	Status    string    `json:"status" gorm:"default:draft"`
	Views     int64     `json:"views" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

func (Post) TableName() string {
	return "blog_posts"
}

// ValidStatus reports whether s is a known post status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
