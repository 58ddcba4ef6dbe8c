package handlers

import (
	"encoding/json"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/blog"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/lead"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/user"
)

// BlogPostToResponse converts a blog post to its API representation.
func BlogPostToResponse(p *blog.BlogPost) *dto.BlogPostResponse {
	var tags []string
	if len(p.Tags) > 0 {
		// A post with unreadable tags still renders; the field just comes
		// back empty.
		_ = json.Unmarshal(p.Tags, &tags)
	}

	return &dto.BlogPostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		Tags:      tags,
		Status:    string(p.Status),
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// BlogPostsToResponse converts a slice of blog posts.
func BlogPostsToResponse(posts []blog.BlogPost) []*dto.BlogPostResponse {
	out := make([]*dto.BlogPostResponse, len(posts))
	for i := range posts {
		out[i] = BlogPostToResponse(&posts[i])
	}
	return out
}

// LeadToEntry converts a lead with its partner responses.
func LeadToEntry(l *lead.Lead) dto.LeadEntry {
	entry := dto.LeadEntry{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		LeadType:   l.LeadType,
		LeadSource: l.LeadSource,
		MoveDate:   l.MoveDate,
		MoveSize:   l.MoveSize,
		FromState:  l.FromState,
		FromCity:   l.FromCity,
		FromZip:    l.FromZip,
		ToState:    l.ToState,
		ToCity:     l.ToCity,
		ToZip:      l.ToZip,
		CreatedAt:  l.CreatedAt,
		Responses:  make([]dto.LeadResponseEntry, 0, len(l.Responses)),
	}
	for _, r := range l.Responses {
		entry.Responses = append(entry.Responses, dto.LeadResponseEntry{
			StatusCode:  r.StatusCode,
			Body:        r.Body,
			ForwardedAt: r.ForwardedAt,
		})
	}
	return entry
}

// UserToResponse converts a user to its API representation.
func UserToResponse(u *user.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
