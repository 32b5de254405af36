package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/authz"
	"github.com/sakshiot4/UrbanWatch-plus/internal/http/middleware"
	"github.com/sakshiot4/UrbanWatch-plus/internal/pkg/apperror"
)

// PrincipalResolver loads the role profile behind an authenticated user.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID, role string) (authz.Principal, error)
}

// CurrentUserID extracts the authenticated user ID from the gin context.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// CurrentUserRole extracts the authenticated role from the gin context.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	role, ok := raw.(string)
	if !ok {
		return "", apperror.ErrUnauthorized
	}

	return role, nil
}

// CurrentPrincipal resolves the full principal (user plus role profile) for
// the authenticated request.
func CurrentPrincipal(c *gin.Context, resolver PrincipalResolver) (authz.Principal, error) {
	userID, err := CurrentUserID(c)
	if err != nil {
		return authz.Principal{}, err
	}

	role, err := CurrentUserRole(c)
	if err != nil {
		return authz.Principal{}, err
	}

	return resolver.ResolvePrincipal(c.Request.Context(), userID, role)
}

// ParseUUIDParam parses a UUID from a URL parameter.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("parameter %s is required", paramName))
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("parameter %s must be a valid UUID", paramName))
	}

	return parsed, nil
}

// ParseIntQuery safely reads an integer query parameter with a fallback value.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// PageQuery reads the "page" query parameter, defaulting to the first page.
func PageQuery(c *gin.Context) int {
	page := ParseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	return page
}

// GetPagination extracts limit and offset from query parameters with defaults.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
