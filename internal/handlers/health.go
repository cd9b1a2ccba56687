package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger adapts redis.Client to Pinger.
type RedisPinger struct {
	client *redis.Client
}

// NewRedisPinger creates a Redis health pinger.
func NewRedisPinger(client *redis.Client) *RedisPinger {
	return &RedisPinger{client: client}
}

func (r *RedisPinger) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresPinger adapts pgxpool.Pool to Pinger.
type PostgresPinger struct {
	pool *pgxpool.Pool
}

// NewPostgresPinger creates a Postgres health pinger.
func NewPostgresPinger(pool *pgxpool.Pool) *PostgresPinger {
	return &PostgresPinger{pool: pool}
}

func (p *PostgresPinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	redis    Pinger
	postgres Pinger
}

// NewHealthHandler creates the health handler. Nil pingers are
// reported as "disabled".
func NewHealthHandler(redisPinger, postgresPinger Pinger) *HealthHandler {
	return &HealthHandler{
		redis:    redisPinger,
		postgres: postgresPinger,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}

// Check pings each dependency and degrades the overall status when
// any of them fails.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Redis = h.ping(ctx, h.redis, &resp.Body.Status)
	resp.Body.Postgres = h.ping(ctx, h.postgres, &resp.Body.Status)

	return resp, nil
}

func (h *HealthHandler) ping(ctx context.Context, p Pinger, status *string) string {
	if p == nil {
		return "disabled"
	}

	if err := p.Ping(ctx); err != nil {
		*status = "degraded"

		return "unhealthy"
	}

	return "healthy"
}
