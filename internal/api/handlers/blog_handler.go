package handlers

import (
	"net/http"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/blog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlogHandler struct {
	service blog.Service
}

func NewBlogHandler(service blog.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// ListPosts serves the public post listing, newest first, content sanitized.
func (h *BlogHandler) ListPosts(c *gin.Context) {
	filter := blog.PostFilter{}

	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if authorStr := c.Query("authorId"); authorStr != "" {
		authorID, err := uuid.Parse(authorStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author ID"})
			return
		}
		filter.AuthorID = &authorID
	}

	posts, err := h.service.ListPosts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": BlogPostsToResponse(posts)})
}

// GetPost serves a single sanitized post.
func (h *BlogHandler) GetPost(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post ID"})
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == blog.ErrPostNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": BlogPostToResponse(post)})
}

// CreatePost creates a post authored by the authenticated admin.
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req dto.CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	input := blog.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   blog.PostStatus(req.Status),
	}
	if userID, exists := middleware.GetUserID(c); exists {
		input.AuthorID = &userID
	}

	post, err := h.service.CreatePost(c.Request.Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == blog.ErrInvalidInput {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": BlogPostToResponse(post)})
}

// UpdatePost replaces all editable fields of a post.
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	var req dto.UpdateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), blog.UpdatePostInput{
		ID:       req.ID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		Status:   blog.PostStatus(req.Status),
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == blog.ErrPostNotFound {
			statusCode = http.StatusNotFound
		} else if err == blog.ErrInvalidInput {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": BlogPostToResponse(post)})
}

// DeletePost removes a post by the id in the request body.
func (h *BlogHandler) DeletePost(c *gin.Context) {
	var req dto.DeleteBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), req.ID); err != nil {
		statusCode := http.StatusInternalServerError
		if err == blog.ErrPostNotFound {
			statusCode = http.StatusNotFound
		} else if err == blog.ErrInvalidInput {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
