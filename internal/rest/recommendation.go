package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"recommendationService/business/recommendation"
	"recommendationService/domain"
	"recommendationService/pkg/logger"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type RecommendationService interface {
	ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) []domain.Recommendation
	GetRecommendation(ctx context.Context, id uint64) (domain.Recommendation, error)
	CreateRecommendation(ctx context.Context, payload []byte) (domain.Recommendation, error)
	UpdateRecommendation(ctx context.Context, id uint64, payload []byte) (domain.Recommendation, error)
	DeleteRecommendation(ctx context.Context, id uint64) error
	ClickRecommendation(ctx context.Context, id uint64) (domain.Recommendation, error)
}

type RecommendationHandler struct {
	recommendationService RecommendationService
	timeout               time.Duration
}

func NewRecommendationHandler(recommendationService RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		timeout:               10 * time.Second,
	}
}

// ListRecommendations handles GET /recommendations?type=&product-id=
func (h *RecommendationHandler) ListRecommendations(c echo.Context) error {
	var filter domain.RecommendationFilter

	if typ := c.QueryParam("type"); typ != "" {
		filter.Type = &typ
	}

	if raw := c.QueryParam("product-id"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "product-id must be an integer"})
		}
		filter.ParentProductID = &productID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, h.recommendationService.ListRecommendations(ctx, filter))
}

func (h *RecommendationHandler) GetRecommendation(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.GetRecommendation(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *RecommendationHandler) CreateRecommendation(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "failed to read request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.CreateRecommendation(ctx, payload)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/recommendations/%d", rec.ID))

	return c.JSON(http.StatusCreated, rec)
}

func (h *RecommendationHandler) UpdateRecommendation(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "failed to read request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.UpdateRecommendation(ctx, id, payload)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rec)
}

// DeleteRecommendation always answers 204, whether or not the id existed.
func (h *RecommendationHandler) DeleteRecommendation(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.recommendationService.DeleteRecommendation(ctx, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ClickRecommendation handles PUT /recommendations/:id/clicked
func (h *RecommendationHandler) ClickRecommendation(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rec, err := h.recommendationService.ClickRecommendation(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rec)
}

func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, ResponseError{
		Message: fmt.Sprintf("Recommendation with id: %s was not found", c.Param("id")),
	})
}

func writeError(c echo.Context, err error) error {
	var (
		validationErr *recommendation.ValidationError
		notFoundErr   *recommendation.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: validationErr.Message})
	case errors.As(err, &notFoundErr):
		return c.JSON(http.StatusNotFound, ResponseError{Message: notFoundErr.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("recommendation request timed out", err, "path", c.Path())
		return c.JSON(http.StatusGatewayTimeout, ResponseError{Message: "request timed out"})
	default:
		logger.Error("recommendation request failed", err, "path", c.Path())
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal server error"})
	}
}
