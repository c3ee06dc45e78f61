package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RequestLogRepo writes one audit row per forecast request: the request
// payload up front, the response (or error) filled in afterwards. Every
// method tolerates a nil pool and swallows database errors after logging
// them; auditing is best-effort by contract.
type RequestLogRepo struct {
	pool *pgxpool.Pool
}

// NewRequestLogRepo creates the repository. pool may be nil, which disables
// auditing entirely.
func NewRequestLogRepo(pool *pgxpool.Pool) *RequestLogRepo {
	return &RequestLogRepo{pool: pool}
}

// Enabled reports whether a database is wired.
func (r *RequestLogRepo) Enabled() bool {
	return r != nil && r.pool != nil
}

// EnsureSchema creates the audit table when it does not exist. The table is
// append-only; rows are updated once with the response and never mutated
// incrementally.
func (r *RequestLogRepo) EnsureSchema(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS request_logs (
			id BIGSERIAL PRIMARY KEY,
			request_id TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			request_payload TEXT NOT NULL,
			response_payload TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure request_logs schema: %w", err)
	}
	return nil
}

// Begin records the incoming request. Failures are logged and swallowed.
func (r *RequestLogRepo) Begin(ctx context.Context, requestID, endpoint, requestPayload string) {
	if !r.Enabled() {
		return
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO request_logs (request_id, endpoint, request_payload) VALUES ($1, $2, $3)`,
		requestID, endpoint, requestPayload)
	if err != nil {
		fmt.Printf("[STORE] Warning: initial audit write failed: %v\n", err)
	}
}

// Finish records the response (or error payload) for a request. Failures are
// logged and swallowed.
func (r *RequestLogRepo) Finish(ctx context.Context, requestID, responsePayload string) {
	if !r.Enabled() {
		return
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE request_logs SET response_payload = $2 WHERE request_id = $1`,
		requestID, responsePayload)
	if err != nil {
		fmt.Printf("[STORE] Warning: audit response write failed: %v\n", err)
	}
}
