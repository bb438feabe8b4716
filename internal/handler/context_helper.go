package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bdu-ccms/ccms-api/internal/middleware"
	"github.com/bdu-ccms/ccms-api/internal/models"
)

// claimsFromContext extracts the authenticated claims set by the JWT
// middleware. Returns nil when the route is unauthenticated.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func pagination(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
