package handlers

import (
	"net/http"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/api/dto"
	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service user.Service
}

func NewAuthHandler(service user.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login exchanges email and password for a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == user.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: result.Token,
		User:  UserToResponse(result.User),
	})
}

// Register creates a CMS account. Only admins can reach this route.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Register(c.Request.Context(), user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.Role(req.Role),
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch err {
		case user.ErrEmailTaken:
			statusCode = http.StatusConflict
		case user.ErrInvalidInput:
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: result.Token,
		User:  UserToResponse(result.User),
	})
}
