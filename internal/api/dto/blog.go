package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBlogPostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags" binding:"required"`
	Status   string   `json:"status"`
}

type UpdateBlogPostRequest struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Title    string    `json:"title" binding:"required"`
	Content  string    `json:"content" binding:"required"`
	Category string    `json:"category" binding:"required"`
	Tags     []string  `json:"tags" binding:"required"`
	Status   string    `json:"status"`
}

type DeleteBlogPostRequest struct {
	ID uuid.UUID `json:"id" binding:"required"`
}

type BlogPostResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"post_title"`
	Content   string     `json:"post_content"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	Status    string     `json:"post_status"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
