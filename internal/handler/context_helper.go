package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dverenik/coursegrade/internal/middleware"
	"github.com/dverenik/coursegrade/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context) *models.AuthActor {
	return claimsFromContext(c).Actor()
}

func listFilter(c *gin.Context) models.ListFilter {
	var filter models.ListFilter
	filter.Page = intQuery(c, "page", 1)
	filter.PageSize = intQuery(c, "limit", 20)
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}
