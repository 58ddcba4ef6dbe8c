package blog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostStatusDraft   PostStatus = "draft"
	PostStatusPublish PostStatus = "publish"
	PostStatusPrivate PostStatus = "private"
)

func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublish, PostStatusPrivate:
		return true
	}
	return false
}

// BlogPost is a CMS article. Content is stored as the editor produced it and
// sanitized on the way out, never on the way in, so the original markup
// survives policy changes.
type BlogPost struct {
	ID       uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Title    string         `json:"title" gorm:"column:post_title;not null"`
	Content  string         `json:"content" gorm:"column:post_content;type:text;not null"`
	Category string         `json:"category" gorm:"not null;index:idx_blog_posts_category"`
	Tags     datatypes.JSON `json:"tags" gorm:"type:jsonb"`
	Status   PostStatus     `json:"status" gorm:"column:post_status;type:varchar(20);not null;default:'draft'"`
	AuthorID *uuid.UUID     `json:"author_id,omitempty" gorm:"type:uuid;index:idx_blog_posts_author"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:current_timestamp"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for the BlogPost model
func (BlogPost) TableName() string {
	return "blog_posts"
}

// BeforeCreate is called before creating a new blog post record
func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// BeforeUpdate is called before updating a blog post record
func (p *BlogPost) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now().UTC()
	return nil
}
