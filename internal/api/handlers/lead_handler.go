package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/middleware"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/lead"
	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	service lead.Service
}

func NewLeadHandler(service lead.Service) *LeadHandler {
	return &LeadHandler{service: service}
}

const maxLeadBodyBytes = 256 << 10

// SubmitLead accepts a quote request and forwards it to the partner network.
// The raw body is kept so the partner receives exactly what the calculator
// sent, including fields this service does not model.
func (h *LeadHandler) SubmitLead(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLeadBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var req dto.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := lead.SubmitLeadInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		LeadType:   req.LeadType,
		LeadSource: req.LeadSource,
		MoveSize:   req.MoveSize,
		FromState:  req.FromState,
		FromCity:   req.FromCity,
		FromZip:    req.FromZip,
		ToState:    req.ToState,
		ToCity:     req.ToCity,
		ToZip:      req.ToZip,
		Raw:        json.RawMessage(body),
	}
	if req.MoveDate != "" {
		if moveDate, err := parseMoveDate(req.MoveDate); err == nil {
			input.MoveDate = &moveDate
		}
	}

	result, err := h.service.Submit(c.Request.Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == lead.ErrInvalidInput {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	switch {
	case result.Forwarded:
		middleware.ObserveLeadForward("success")
	case result.ForwardAttempted:
		middleware.ObserveLeadForward("failed")
	default:
		// No partner endpoint configured; the lead is stored locally only.
		middleware.ObserveLeadForward("skipped")
	}

	c.JSON(http.StatusCreated, dto.SubmitLeadResponse{
		ID:        result.Lead.ID,
		Forwarded: result.Forwarded,
	})
}

// ListLeads serves the paginated admin lead view with partner responses.
func (h *LeadHandler) ListLeads(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page size"})
		return
	}

	leads, total, err := h.service.ListLeads(c.Request.Context(), lead.LeadFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := dto.LeadListResponse{
		Leads:      make([]dto.LeadEntry, 0, len(leads)),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}
	for i := range leads {
		response.Leads = append(response.Leads, LeadToEntry(&leads[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}

func parseMoveDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
