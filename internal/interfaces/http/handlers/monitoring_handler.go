package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/pkg/cache"
	"expensetrack.backend/pkg/metrics"
)

// MonitoringHandler exposes operational introspection, admin-only.
type MonitoringHandler struct {
	aggregator *metrics.Aggregator
	principals *cache.Cache[*entities.User]
	listings   *cache.Cache[[]*entities.Category]
}

func NewMonitoringHandler(
	aggregator *metrics.Aggregator,
	principals *cache.Cache[*entities.User],
	listings *cache.Cache[[]*entities.Category],
) *MonitoringHandler {
	return &MonitoringHandler{
		aggregator: aggregator,
		principals: principals,
		listings:   listings,
	}
}

// Metrics returns the aggregator snapshot
func (h *MonitoringHandler) Metrics(c *gin.Context) {
	response.Success(c, http.StatusOK, h.aggregator.GetSnapshot())
}

// Cache returns entry counts for the in-process caches
func (h *MonitoringHandler) Cache(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"principals":       h.principals.GetStats(),
		"categoryListings": h.listings.GetStats(),
	})
}
