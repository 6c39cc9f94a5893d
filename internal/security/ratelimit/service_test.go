// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package ratelimit_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorahq/vendora/internal/platform/apperr"
	"github.com/vendorahq/vendora/internal/security/ratelimit"
)

// stubRepository is an in-test Repository with scripted counts.
type stubRepository struct {
	identifierCount int
	ipCount         int
	failureCount    int

	identifierCalls int
	ipCalls         int
	failureCalls    int
	recorded        []ratelimit.Attempt
}

func (s *stubRepository) CountRecentAttempts(_ context.Context, _, _ string, _ time.Time) (int, error) {
	s.identifierCalls++
	return s.identifierCount, nil
}

func (s *stubRepository) CountRecentAttemptsFromIP(_ context.Context, _, _ string, _ time.Time) (int, error) {
	s.ipCalls++
	return s.ipCount, nil
}

func (s *stubRepository) CountRecentFailedAttempts(_ context.Context, _, _ string, _ time.Time) (int, error) {
	s.failureCalls++
	return s.failureCount, nil
}

func (s *stubRepository) RecordAttempt(_ context.Context, attempt ratelimit.Attempt) error {
	s.recorded = append(s.recorded, attempt)
	return nil
}

func newService(repo *stubRepository) *ratelimit.Service {
	return ratelimit.NewService(repo, map[string]ratelimit.Rule{
		ratelimit.ActionLogin: {Limit: 5, Window: 15 * time.Minute},
	})
}

/*
TestCheck_ThresholdBoundaries pins the exact boundary semantics: limit-1
passes, limit trips; the IP boundary sits at IPLimitFactor x limit.
*/
func TestCheck_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		name            string
		identifierCount int
		ipCount         int
		limited         bool
	}{
		{"identifier_below_limit", 4, 0, false},
		{"identifier_at_limit", 5, 0, true},
		{"ip_below_limit", 0, 14, false},
		{"ip_at_limit", 0, 15, true},
		{"both_zero", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{identifierCount: tt.identifierCount, ipCount: tt.ipCount}
			service := newService(repo)

			err := service.Check(context.Background(), "ana@vendora.shop", ratelimit.ActionLogin, "1.2.3.4")

			if tt.limited {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "RATE_LIMITED", ae.Code)
				assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestCheck_LoginUnderLimit is the canonical pass scenario: identifier count 3
of 5, IP count 8 of 15.
*/
func TestCheck_LoginUnderLimit(t *testing.T) {
	repo := &stubRepository{identifierCount: 3, ipCount: 8}
	service := newService(repo)

	err := service.Check(context.Background(), "ana@vendora.shop", ratelimit.ActionLogin, "1.2.3.4")
	assert.NoError(t, err)

	// Both counters were consulted.
	assert.Equal(t, 1, repo.identifierCalls)
	assert.Equal(t, 1, repo.ipCalls)
}

/*
TestCheck_IdentifierTripsFirst ensures the identifier threshold is evaluated
before the IP threshold: when it trips, the IP counter is never consulted.
*/
func TestCheck_IdentifierTripsFirst(t *testing.T) {
	repo := &stubRepository{identifierCount: 6, ipCount: 0}
	service := newService(repo)

	err := service.Check(context.Background(), "ana@vendora.shop", ratelimit.ActionLogin, "1.2.3.4")
	require.Error(t, err)

	assert.Equal(t, 1, repo.identifierCalls)
	assert.Equal(t, 0, repo.ipCalls)
}

/*
TestCheck_UnknownAction falls back to the documented DefaultRule instead of
leaving the action unlimited.
*/
func TestCheck_UnknownAction(t *testing.T) {
	repo := &stubRepository{identifierCount: ratelimit.DefaultRule.Limit}
	service := newService(repo)

	err := service.Check(context.Background(), "ana@vendora.shop", "newsletter_signup", "1.2.3.4")
	require.Error(t, err)
	assert.Equal(t, "RATE_LIMITED", apperr.As(err).Code)
}

/*
TestRecord verifies the attempt row shape handed to the repository.
*/
func TestRecord(t *testing.T) {
	repo := &stubRepository{}
	service := newService(repo)

	err := service.Record(context.Background(), "ana@vendora.shop", ratelimit.ActionLogin, "1.2.3.4", false, "Mozilla/5.0")
	require.NoError(t, err)

	require.Len(t, repo.recorded, 1)
	attempt := repo.recorded[0]
	assert.Equal(t, "ana@vendora.shop", attempt.Identifier)
	assert.Equal(t, ratelimit.ActionLogin, attempt.ActionType)
	assert.Equal(t, "1.2.3.4", attempt.IPAddress)
	assert.False(t, attempt.Success)
	assert.Equal(t, "Mozilla/5.0", attempt.UserAgent)
	assert.WithinDuration(t, time.Now(), attempt.CreatedAt, 5*time.Second)
}

/*
TestCountRecentFailures exposes the captcha policy hook. Only failed rows
count: successes in the same window must not push a user toward a challenge.
*/
func TestCountRecentFailures(t *testing.T) {
	// identifierCount includes successes; the failure counter must be used.
	repo := &stubRepository{identifierCount: 7, failureCount: 2}
	service := newService(repo)

	count, err := service.CountRecentFailures(context.Background(), "ana@vendora.shop", ratelimit.ActionLogin)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, 1, repo.failureCalls)
	assert.Equal(t, 0, repo.identifierCalls)
}
