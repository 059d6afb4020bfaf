package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// PoolStats is the /health/db view of a pgx pool.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	s := pool.Stat()
	return &PoolStats{
		TotalConns:      s.TotalConns(),
		IdleConns:       s.IdleConns(),
		AcquiredConns:   s.AcquiredConns(),
		MaxConns:        s.MaxConns(),
		AcquireCount:    s.AcquireCount(),
		AcquireDuration: s.AcquireDuration().String(),
		Healthy:         s.TotalConns() > 0,
	}
}

// HealthHandler pings Postgres and includes pool statistics in the body.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return probe("postgres", pool.Ping, func(healthy bool) (string, interface{}) {
		stats := GetPoolStats(pool)
		stats.Healthy = stats.Healthy && healthy
		return "pool", stats
	})
}

// PingHandler reports the health of a store that only exposes a ping, such
// as the document store.
func PingHandler(backend string, ping func(context.Context) error) echo.HandlerFunc {
	return probe(backend, ping, nil)
}

func probe(backend string, ping func(context.Context) error, extra func(healthy bool) (string, interface{})) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		err := ping(ctx)
		body := map[string]interface{}{"backend": backend, "status": "healthy"}
		code := http.StatusOK
		if err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if extra != nil {
			k, v := extra(err == nil)
			body[k] = v
		}
		return c.JSON(code, body)
	}
}
