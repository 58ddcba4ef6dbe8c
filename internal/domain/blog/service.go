package blog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CreatePostInput carries the fields required to create a post.
type CreatePostInput struct {
	Title    string
	Content  string
	Category string
	Tags     []string
	Status   PostStatus
	AuthorID *uuid.UUID
}

// UpdatePostInput carries the fields of a full post update.
type UpdatePostInput struct {
	ID       uuid.UUID
	Title    string
	Content  string
	Category string
	Tags     []string
	Status   PostStatus
}

// Service exposes blog post CRUD. Read operations return sanitized content.
type Service interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]BlogPost, error)
	UpdatePost(ctx context.Context, input UpdatePostInput) (*BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreatePost(ctx context.Context, input CreatePostInput) (*BlogPost, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Content) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		len(input.Tags) == 0 {
		return nil, ErrInvalidInput
	}

	status := input.Status
	if status == "" {
		status = PostStatusDraft
	}
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}

	tags, err := tagsJSON(input.Tags)
	if err != nil {
		return nil, ErrInvalidInput
	}

	post := &BlogPost{
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		Category: strings.TrimSpace(input.Category),
		Tags:     tags,
		Status:   status,
		AuthorID: input.AuthorID,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Content = SanitizeContent(post.Content)
	return post, nil
}

func (s *service) ListPosts(ctx context.Context, filter PostFilter) ([]BlogPost, error) {
	posts, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Content = SanitizeContent(posts[i].Content)
	}
	return posts, nil
}

func (s *service) UpdatePost(ctx context.Context, input UpdatePostInput) (*BlogPost, error) {
	if input.ID == uuid.Nil ||
		strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Content) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		len(input.Tags) == 0 {
		return nil, ErrInvalidInput
	}

	post, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	tags, err := tagsJSON(input.Tags)
	if err != nil {
		return nil, ErrInvalidInput
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.Category = strings.TrimSpace(input.Category)
	post.Tags = tags
	if input.Status != "" {
		if !input.Status.IsValid() {
			return nil, ErrInvalidInput
		}
		post.Status = input.Status
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func tagsJSON(tags []string) (datatypes.JSON, error) {
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
