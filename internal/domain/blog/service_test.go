package blog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	posts map[uuid.UUID]*BlogPost
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{posts: make(map[uuid.UUID]*BlogPost)}
}

func (m *memoryRepository) Create(_ context.Context, post *BlogPost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (*BlogPost, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (m *memoryRepository) FindAll(_ context.Context, filter PostFilter) ([]BlogPost, error) {
	var out []BlogPost
	for _, post := range m.posts {
		if filter.Category != nil && post.Category != *filter.Category {
			continue
		}
		out = append(out, *post)
	}
	return out, nil
}

func (m *memoryRepository) Update(_ context.Context, post *BlogPost) error {
	if _, ok := m.posts[post.ID]; !ok {
		return ErrPostNotFound
	}
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func validCreateInput() CreatePostInput {
	return CreatePostInput{
		Title:    "Moving to Austin on a Budget",
		Content:  "<p>Plan ahead.</p>",
		Category: "guides",
		Tags:     []string{"austin", "budget"},
	}
}

func TestCreatePostValidation(t *testing.T) {
	tests := []struct {
		name  string
		mutip func(*CreatePostInput)
	}{
		{"missing title", func(i *CreatePostInput) { i.Title = "  " }},
		{"missing content", func(i *CreatePostInput) { i.Content = "" }},
		{"missing category", func(i *CreatePostInput) { i.Category = "" }},
		{"no tags", func(i *CreatePostInput) { i.Tags = nil }},
		{"unknown status", func(i *CreatePostInput) { i.Status = "archived" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			svc := NewService(repo)

			input := validCreateInput()
			tt.mutip(&input)

			_, err := svc.CreatePost(context.Background(), input)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.posts)
		})
	}
}

func TestCreatePostDefaultsToDraft(t *testing.T) {
	svc := NewService(newMemoryRepository())

	post, err := svc.CreatePost(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, PostStatusDraft, post.Status)
}

func TestCreatePostStoresContentUnmodified(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	input := validCreateInput()
	input.Content = `<p>hi</p><script>alert(1)</script>`

	post, err := svc.CreatePost(context.Background(), input)
	require.NoError(t, err)

	// Raw content is stored as-is; sanitization happens on the read path so
	// policy changes apply to existing posts.
	stored := repo.posts[post.ID]
	assert.Equal(t, input.Content, stored.Content)
}

func TestGetPostSanitizesContent(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	input := validCreateInput()
	input.Content = `<p>hi</p><script>alert(1)</script>`
	created, err := svc.CreatePost(context.Background(), input)
	require.NoError(t, err)

	post, err := svc.GetPost(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotContains(t, post.Content, "<script>")
	assert.Contains(t, post.Content, "<p>hi</p>")
}

func TestGetPostNotFound(t *testing.T) {
	svc := NewService(newMemoryRepository())

	_, err := svc.GetPost(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListPostsSanitizesEveryPost(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	for i := 0; i < 2; i++ {
		input := validCreateInput()
		input.Content = `<p>ok</p><iframe src="https://evil.example"></iframe>`
		_, err := svc.CreatePost(context.Background(), input)
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(context.Background(), PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, post := range posts {
		assert.NotContains(t, post.Content, "iframe")
	}
}

func TestUpdatePost(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	created, err := svc.CreatePost(context.Background(), validCreateInput())
	require.NoError(t, err)

	updated, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		ID:       created.ID,
		Title:    "Moving to Dallas on a Budget",
		Content:  "<p>Updated.</p>",
		Category: "guides",
		Tags:     []string{"dallas"},
		Status:   PostStatusPublish,
	})
	require.NoError(t, err)

	assert.Equal(t, "Moving to Dallas on a Budget", updated.Title)
	assert.Equal(t, PostStatusPublish, updated.Status)
	assert.JSONEq(t, `["dallas"]`, string(updated.Tags))
}

func TestUpdatePostKeepsStatusWhenOmitted(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	input := validCreateInput()
	input.Status = PostStatusPublish
	created, err := svc.CreatePost(context.Background(), input)
	require.NoError(t, err)

	updated, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		ID:       created.ID,
		Title:    created.Title,
		Content:  "<p>Edited.</p>",
		Category: created.Category,
		Tags:     []string{"austin"},
	})
	require.NoError(t, err)
	assert.Equal(t, PostStatusPublish, updated.Status)
}

func TestUpdatePostNotFound(t *testing.T) {
	svc := NewService(newMemoryRepository())

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		ID:       uuid.New(),
		Title:    "t",
		Content:  "c",
		Category: "guides",
		Tags:     []string{"x"},
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePost(t *testing.T) {
	repo := newMemoryRepository()
	svc := NewService(repo)

	created, err := svc.CreatePost(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(context.Background(), created.ID))
	_, err = svc.GetPost(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.ErrorIs(t, svc.DeletePost(context.Background(), uuid.Nil), ErrInvalidInput)
}
