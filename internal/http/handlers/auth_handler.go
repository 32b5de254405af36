package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sakshiot4/UrbanWatch-plus/internal/dto"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
)

// AuthHandler provides the HTTP layer for registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterCitizen handles POST /auth/register/citizen.
func (h *AuthHandler) RegisterCitizen(c *gin.Context) {
	var req dto.RegisterCitizenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.auth.RegisterCitizen(c.Request.Context(), service.RegisterCitizenInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Region:   req.Region,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// RegisterContractor handles POST /auth/register/contractor.
func (h *AuthHandler) RegisterContractor(c *gin.Context) {
	var req dto.RegisterContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.auth.RegisterContractor(c.Request.Context(), service.RegisterContractorInput{
		Email:          req.Email,
		Password:       req.Password,
		Username:       req.Username,
		Name:           req.Name,
		Phone:          req.Phone,
		CompanyName:    req.CompanyName,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
		Region:         req.Region,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.Wrap(err, apperror.ErrCodeValidation, "invalid request body"))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}
