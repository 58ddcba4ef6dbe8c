package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrInvalidInput = errors.New("invalid input")
)

// PostFilter defines filtering options for listing posts
type PostFilter struct {
	Category *string
	AuthorID *uuid.UUID
	Status   *PostStatus
}

// Repository defines persistence operations for blog posts.
type Repository interface {
	Create(ctx context.Context, post *BlogPost) error
	FindByID(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	FindAll(ctx context.Context, filter PostFilter) ([]BlogPost, error)
	Update(ctx context.Context, post *BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, post *BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	var post BlogPost
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find blog post: %w", err)
	}
	return &post, nil
}

func (r *repository) FindAll(ctx context.Context, filter PostFilter) ([]BlogPost, error) {
	query := r.db.WithContext(ctx).Model(&BlogPost{})

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Status != nil {
		query = query.Where("post_status = ?", *filter.Status)
	}

	var posts []BlogPost
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

func (r *repository) Update(ctx context.Context, post *BlogPost) error {
	result := r.db.WithContext(ctx).Save(post)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}
