package rest

import (
	"context"
	"net/http"
	"recommendationService/domain"
	"recommendationService/pkg/logger"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by the recommendation store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type IndexHandler struct {
	name    string
	version string
	store   Pinger
}

func NewIndexHandler(name, version string, store Pinger) *IndexHandler {
	return &IndexHandler{
		name:    name,
		version: version,
		store:   store,
	}
}

// Index describes the service and points at the collection.
func (h *IndexHandler) Index(c echo.Context) error {
	base := c.Scheme() + "://" + c.Request().Host + "/"

	return c.JSON(http.StatusOK, domain.ServiceInfo{
		Name:    h.name,
		Version: h.version,
		URL:     base + "recommendations",
	})
}

func (h *IndexHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.Warn("health check failed", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
