package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recommendationService/business/recommendation"
	"recommendationService/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err       error
	gotFilter domain.RecommendationFilter
}

func (s *stubService) ListRecommendations(_ context.Context, filter domain.RecommendationFilter) []domain.Recommendation {
	s.gotFilter = filter
	return []domain.Recommendation{}
}

func (s *stubService) GetRecommendation(context.Context, uint64) (domain.Recommendation, error) {
	return domain.Recommendation{}, s.err
}

func (s *stubService) CreateRecommendation(context.Context, []byte) (domain.Recommendation, error) {
	return domain.Recommendation{}, s.err
}

func (s *stubService) UpdateRecommendation(context.Context, uint64, []byte) (domain.Recommendation, error) {
	return domain.Recommendation{}, s.err
}

func (s *stubService) DeleteRecommendation(context.Context, uint64) error {
	return s.err
}

func (s *stubService) ClickRecommendation(context.Context, uint64) (domain.Recommendation, error) {
	return domain.Recommendation{}, s.err
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{
			name: "validation",
			err:  &recommendation.ValidationError{Reason: recommendation.ReasonSchemaMismatch, Message: "data is not valid"},
			code: http.StatusBadRequest,
			body: `{"error":"data is not valid"}`,
		},
		{
			name: "not found",
			err:  &recommendation.NotFoundError{ID: 5},
			code: http.StatusNotFound,
			body: `{"error":"Recommendation with id: 5 was not found"}`,
		},
		{
			name: "store fault",
			err:  errors.New("failed to create recommendation: disk full"),
			code: http.StatusInternalServerError,
			body: `{"error":"internal server error"}`,
		},
		{
			name: "timeout",
			err:  context.DeadlineExceeded,
			code: http.StatusGatewayTimeout,
			body: `{"error":"request timed out"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRecommendationHandler(&stubService{err: tt.err})
			c, rec := newContext(http.MethodPost, "/recommendations", `{}`)

			assert.NoError(t, h.CreateRecommendation(c))
			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestListRecommendationsParsesFilters(t *testing.T) {
	svc := &stubService{}
	h := NewRecommendationHandler(svc)
	c, rec := newContext(http.MethodGet, "/recommendations?type=up-sell&product-id=7", "")

	assert.NoError(t, h.ListRecommendations(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	if assert.NotNil(t, svc.gotFilter.Type) && assert.NotNil(t, svc.gotFilter.ParentProductID) {
		assert.Equal(t, "up-sell", *svc.gotFilter.Type)
		assert.Equal(t, int64(7), *svc.gotFilter.ParentProductID)
	}
}

func TestListRecommendationsEmptyFiltersAreUnconstrained(t *testing.T) {
	svc := &stubService{}
	h := NewRecommendationHandler(svc)
	c, _ := newContext(http.MethodGet, "/recommendations?type=&product-id=", "")

	assert.NoError(t, h.ListRecommendations(c))
	assert.Nil(t, svc.gotFilter.Type)
	assert.Nil(t, svc.gotFilter.ParentProductID)
}

func TestDeleteStoreFaultIsServerError(t *testing.T) {
	h := NewRecommendationHandler(&stubService{err: errors.New("connection lost")})
	c, rec := newContext(http.MethodDelete, "/recommendations/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	assert.NoError(t, h.DeleteRecommendation(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

func TestHealthUnavailable(t *testing.T) {
	h := NewIndexHandler("Recommendation Service", "1.0", failingPinger{})
	c, rec := newContext(http.MethodGet, "/healthz", "")

	assert.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
