// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// # Attempt Repository

// PostgresRepository implements [Repository] over security.login_attempt.
//
// # Error Mapping
//
// Storage errors are wrapped and surfaced as-is; the service layer maps them
// to apperr.Internal so clients never see SQL details.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
CountRecentAttempts counts attempt rows for an identifier inside the window.

Parameters:
  - ctx: context.Context
  - identifier: Logical subject (usually email)
  - actionType: Action being counted
  - since: Start of the sliding window

Returns:
  - int: Number of matching rows
  - error: Connectivity or query errors
*/
func (repository *PostgresRepository) CountRecentAttempts(ctx context.Context, identifier, actionType string, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM security.login_attempt
		WHERE identifier = $1 AND actiontype = $2 AND createdat >= $3`

	var count int
	err := repository.pool.QueryRow(ctx, query, identifier, actionType, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_attempt_repo_count_failed: %w", err)
	}

	return count, nil
}

/*
CountRecentAttemptsFromIP counts attempt rows from an IP inside the window.

Parameters:
  - ctx: context.Context
  - ipAddress: Client IP
  - actionType: Action being counted
  - since: Start of the sliding window

Returns:
  - int: Number of matching rows
  - error: Connectivity or query errors
*/
func (repository *PostgresRepository) CountRecentAttemptsFromIP(ctx context.Context, ipAddress, actionType string, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM security.login_attempt
		WHERE ipaddress = $1 AND actiontype = $2 AND createdat >= $3`

	var count int
	err := repository.pool.QueryRow(ctx, query, ipAddress, actionType, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_attempt_repo_count_ip_failed: %w", err)
	}

	return count, nil
}

/*
CountRecentFailedAttempts counts only failed attempt rows for an identifier
inside the window.

Parameters:
  - ctx: context.Context
  - identifier: Logical subject (usually email)
  - actionType: Action being counted
  - since: Start of the sliding window

Returns:
  - int: Number of matching failed rows
  - error: Connectivity or query errors
*/
func (repository *PostgresRepository) CountRecentFailedAttempts(ctx context.Context, identifier, actionType string, since time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM security.login_attempt
		WHERE identifier = $1 AND actiontype = $2 AND createdat >= $3 AND success = FALSE`

	var count int
	err := repository.pool.QueryRow(ctx, query, identifier, actionType, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres_attempt_repo_count_failures_failed: %w", err)
	}

	return count, nil
}

/*
RecordAttempt appends one attempt row. Rows are never mutated afterwards;
retention/cleanup is handled by a scheduled database job, not this repository.

Parameters:
  - ctx: context.Context
  - attempt: Attempt row to persist

Returns:
  - error: Constraint or connectivity errors
*/
func (repository *PostgresRepository) RecordAttempt(ctx context.Context, attempt Attempt) error {
	const query = `
		INSERT INTO security.login_attempt (
			identifier, actiontype, ipaddress, success, useragent, createdat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(ctx, query,
		attempt.Identifier,
		attempt.ActionType,
		attempt.IPAddress,
		attempt.Success,
		attempt.UserAgent,
		attempt.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_attempt_repo_record_failed: %w", err)
	}

	return nil
}
