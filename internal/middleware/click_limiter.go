package middleware

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// ClickRateLimiter throttles clicks per client IP. A limit <= 0 disables it.
// Burst is at least one request, so fractional limits still let clicks through.
func ClickRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}

	burst := int(math.Ceil(perSecond))
	if burst < 1 {
		burst = 1
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, errorBody{Error: "too many clicks"})
		},
	})
}
