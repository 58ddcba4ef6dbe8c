package lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/infrastructure/persistence/postgres/connection"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrInvalidInput = errors.New("invalid input")
)

// LeadFilter defines pagination for the admin lead listing.
type LeadFilter struct {
	Page     int
	PageSize int
}

// Repository defines persistence operations for leads and their forwarded
// responses.
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindAll(ctx context.Context, filter LeadFilter) ([]Lead, int64, error)
	CreateResponse(ctx context.Context, response *LeadResponse) error
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	var lead Lead
	err := r.db.WithContext(ctx).Preload("Responses").First(&lead, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to find lead: %w", err)
	}
	return &lead, nil
}

func (r *repository) FindAll(ctx context.Context, filter LeadFilter) ([]Lead, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Lead{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	var leads []Lead
	err := r.db.WithContext(ctx).
		Preload("Responses").
		Order("created_at DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&leads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, total, nil
}

func (r *repository) CreateResponse(ctx context.Context, response *LeadResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}
