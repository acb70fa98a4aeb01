package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/middleware"
	"expensetrack.backend/pkg/utils"
)

// mustPrincipal returns the authenticated user or writes a 401. Routes
// behind AuthMiddleware always have one; this guards direct handler use.
func mustPrincipal(c *gin.Context) (*entities.User, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "authentication required"})
		return nil, false
	}
	return principal, true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// requestedCompanyID reads the optional companyId query parameter. Absent
// means "no explicit request"; the resolver decides what that implies for
// the caller.
func requestedCompanyID(c *gin.Context) (*int64, bool) {
	raw := c.Query("companyId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

func paginationFromQuery(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return utils.GetPaginationParams(page, limit)
}
