package lead

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SubmitLeadInput carries a quote request from the public cost calculator.
type SubmitLeadInput struct {
	Name       string
	Email      string
	Phone      string
	LeadType   string
	LeadSource string
	MoveDate   *time.Time
	MoveSize   string
	FromState  string
	FromCity   string
	FromZip    string
	ToState    string
	ToCity     string
	ToZip      string

	// Raw is the submission body exactly as received; it is stored with the
	// lead and forwarded verbatim to the partner.
	Raw json.RawMessage
}

// SubmitResult reports the stored lead and the outcome of the partner
// forwarding attempt, if one was made. ForwardAttempted stays false when no
// partner endpoint is configured, so callers can tell "forwarding disabled"
// apart from "partner down".
type SubmitResult struct {
	Lead             *Lead
	ForwardAttempted bool
	Forwarded        bool
	Partner          *ForwardResult
}

// Service defines the business logic for lead intake and review.
type Service interface {
	Submit(ctx context.Context, input SubmitLeadInput) (*SubmitResult, error)
	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, int64, error)
}

type service struct {
	repo      Repository
	forwarder Forwarder
	logger    *logrus.Logger
}

// ServiceConfig holds the configuration for the lead service. Forwarder may
// be nil when no partner endpoint is configured.
type ServiceConfig struct {
	Repository Repository
	Forwarder  Forwarder
	Logger     *logrus.Logger
}

func NewService(cfg ServiceConfig) Service {
	return &service{
		repo:      cfg.Repository,
		forwarder: cfg.Forwarder,
		logger:    cfg.Logger,
	}
}

// Submit persists the lead first, then forwards it to the partner. The lead
// is accepted even when the partner is down; the failed attempt is recorded
// so it can be retried by hand.
func (s *service) Submit(ctx context.Context, input SubmitLeadInput) (*SubmitResult, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Phone) == "" {
		return nil, ErrInvalidInput
	}

	leadType := strings.TrimSpace(input.LeadType)
	if leadType == "" {
		leadType = "moving"
	}

	record := &Lead{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      strings.TrimSpace(input.Phone),
		LeadType:   leadType,
		LeadSource: strings.TrimSpace(input.LeadSource),
		MoveDate:   input.MoveDate,
		MoveSize:   strings.TrimSpace(input.MoveSize),
		FromState:  strings.TrimSpace(input.FromState),
		FromCity:   strings.TrimSpace(input.FromCity),
		FromZip:    strings.TrimSpace(input.FromZip),
		ToState:    strings.TrimSpace(input.ToState),
		ToCity:     strings.TrimSpace(input.ToCity),
		ToZip:      strings.TrimSpace(input.ToZip),
	}
	if len(input.Raw) > 0 {
		record.Payload = datatypes.JSON(input.Raw)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"lead_id":   record.ID,
		"lead_type": record.LeadType,
		"from_zip":  record.FromZip,
		"to_zip":    record.ToZip,
	}).Info("Lead accepted")

	result := &SubmitResult{Lead: record}
	if s.forwarder == nil {
		return result, nil
	}

	payload := input.Raw
	if len(payload) == 0 {
		b, err := json.Marshal(record)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to encode lead for forwarding")
			return result, nil
		}
		payload = b
	}

	result.ForwardAttempted = true
	partner, err := s.forwarder.Forward(ctx, payload)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"lead_id": record.ID,
		}).WithError(err).Warn("Lead forwarding failed")
		s.recordResponse(ctx, record.ID, 0, err.Error())
		return result, nil
	}

	s.logger.WithFields(logrus.Fields{
		"lead_id":     record.ID,
		"status_code": partner.StatusCode,
	}).Info("Lead forwarded to partner")

	s.recordResponse(ctx, record.ID, partner.StatusCode, partner.Body)
	result.Forwarded = true
	result.Partner = partner
	return result, nil
}

func (s *service) recordResponse(ctx context.Context, leadID uuid.UUID, statusCode int, body string) {
	resp := &LeadResponse{
		LeadID:     leadID,
		StatusCode: statusCode,
		Body:       body,
	}
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		s.logger.WithFields(logrus.Fields{
			"lead_id": leadID,
		}).WithError(err).Warn("Failed to record partner response")
	}
}

func (s *service) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	if id == uuid.Nil {
		return nil, ErrInvalidInput
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, int64, error) {
	return s.repo.FindAll(ctx, filter)
}
