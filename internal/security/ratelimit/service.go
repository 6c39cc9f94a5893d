// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package ratelimit implements sliding-window abuse mitigation for sensitive
storefront actions (login, registration, password reset).

Unlike the per-IP token bucket in the middleware chain, this service counts
persisted attempts so that lockouts survive restarts and are shared across
instances.

Architecture:

  - Service: Threshold decisions per (identifier, action) and (ip, action).
  - Repository: Abstracted persistence for attempt rows (PostgreSQL).
  - Config: Per-action {limit, window} pairs with a conservative default.

Counting and recording are two separate calls. Two simultaneous attempts from
the same identifier can both pass the check before either records — an
accepted race for rate limiting, not a consistency bug.
*/
package ratelimit

import (
	"context"
	"time"

	"github.com/vendorahq/vendora/internal/platform/apperr"
)

// # Action Types

const (
	// ActionLogin guards credential submissions.
	ActionLogin = "login"
	// ActionRegistration guards account creation.
	ActionRegistration = "registration"
	// ActionPasswordReset guards reset-link requests.
	ActionPasswordReset = "password_reset"
)

// IPLimitFactor is the fixed multiplier applied to the identifier limit when
// checking per-IP counts. Many identifiers behind one IP (offices, carriers)
// are tolerated 3x more than repeated attempts on a single identifier.
//
// Deliberately a constant, not configuration. Candidate for per-action
// configurability if product ever needs it.
const IPLimitFactor = 3

// # Contracts & Types

// Attempt is one persisted row of the attempt log. Rows are append-only.
type Attempt struct {
	Identifier string
	ActionType string
	IPAddress  string
	Success    bool
	UserAgent  string
	CreatedAt  time.Time
}

// Repository defines the persistence contract for attempt counting.
//
// Implementations own their concurrency control; the service never locks.
type Repository interface {
	// CountRecentAttempts returns the number of attempts for the identifier
	// and action recorded at or after since.
	CountRecentAttempts(ctx context.Context, identifier, actionType string, since time.Time) (int, error)

	// CountRecentAttemptsFromIP returns the number of attempts from the IP
	// address for the action recorded at or after since.
	CountRecentAttemptsFromIP(ctx context.Context, ipAddress, actionType string, since time.Time) (int, error)

	// CountRecentFailedAttempts is [Repository.CountRecentAttempts] restricted
	// to rows recorded with success = false.
	CountRecentFailedAttempts(ctx context.Context, identifier, actionType string, since time.Time) (int, error)

	// RecordAttempt appends one attempt row.
	RecordAttempt(ctx context.Context, attempt Attempt) error
}

// Rule is the per-action threshold configuration.
type Rule struct {
	// Limit is the maximum number of attempts per identifier inside Window.
	Limit int
	// Window is the sliding lookback interval.
	Window time.Duration
}

// DefaultRule applies to action types absent from the configured map.
//
// Unknown actions are limited, not unlimited: an unconfigured action slipping
// through without any ceiling would silently disable protection for new
// endpoints. 10 attempts per 15 minutes is strict enough to matter and loose
// enough not to lock out legitimate retries.
var DefaultRule = Rule{Limit: 10, Window: 15 * time.Minute}

// DefaultRules is the standard per-action configuration for the storefront.
func DefaultRules() map[string]Rule {
	return map[string]Rule{
		ActionLogin:         {Limit: 5, Window: 15 * time.Minute},
		ActionRegistration:  {Limit: 3, Window: 1 * time.Hour},
		ActionPasswordReset: {Limit: 3, Window: 1 * time.Hour},
	}
}

// # Service

// Service enforces sliding-window attempt limits.
type Service struct {
	repository Repository
	rules      map[string]Rule
	now        func() time.Time
}

// NewService constructs a rate limit [Service].
//
// A nil rules map falls back to [DefaultRules].
func NewService(repository Repository, rules map[string]Rule) *Service {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Service{
		repository: repository,
		rules:      rules,
		now:        time.Now,
	}
}

/*
Check enforces the attempt thresholds for one action.

Description: Counts attempts inside the sliding window [now-window, now] for
the identifier first, then for the IP address against IPLimitFactor x limit.
The identifier check is evaluated first so error attribution is deterministic;
the returned error never reveals which threshold tripped.

Parameters:
  - ctx: context.Context
  - identifier: Logical subject of the action (usually the email)
  - actionType: One of the Action* constants
  - ipAddress: Client IP

Returns:
  - error: apperr.RateLimited when either threshold is reached, or storage errors
*/
func (service *Service) Check(ctx context.Context, identifier, actionType, ipAddress string) error {
	rule := service.ruleFor(actionType)
	since := service.now().Add(-rule.Window)

	// Identifier threshold first.
	identifierCount, err := service.repository.CountRecentAttempts(ctx, identifier, actionType, since)
	if err != nil {
		return apperr.Internal(err)
	}

	if identifierCount >= rule.Limit {
		return apperr.RateLimited(int(rule.Window.Seconds()))
	}

	// IP threshold second, at IPLimitFactor times the identifier limit.
	ipCount, err := service.repository.CountRecentAttemptsFromIP(ctx, ipAddress, actionType, since)
	if err != nil {
		return apperr.Internal(err)
	}

	if ipCount >= rule.Limit*IPLimitFactor {
		return apperr.RateLimited(int(rule.Window.Seconds()))
	}

	return nil
}

/*
Record appends one attempt row. It never enforces limits itself.

Parameters:
  - ctx: context.Context
  - identifier: Logical subject of the action
  - actionType: One of the Action* constants
  - ipAddress: Client IP
  - success: Whether the underlying action succeeded
  - userAgent: Client User-Agent header (may be empty)

Returns:
  - error: Storage failures
*/
func (service *Service) Record(ctx context.Context, identifier, actionType, ipAddress string, success bool, userAgent string) error {
	return service.repository.RecordAttempt(ctx, Attempt{
		Identifier: identifier,
		ActionType: actionType,
		IPAddress:  ipAddress,
		Success:    success,
		UserAgent:  userAgent,
		CreatedAt:  service.now(),
	})
}

/*
CountRecentFailures returns the number of failed attempts for the identifier
within the action's configured window. Successful attempts do not count: a
user who signs in cleanly several times in a row is not challenged.

Description: Used by the captcha policy layer to decide whether a challenge
must be shown before the hard lockout threshold is reached.
*/
func (service *Service) CountRecentFailures(ctx context.Context, identifier, actionType string) (int, error) {
	rule := service.ruleFor(actionType)
	return service.repository.CountRecentFailedAttempts(ctx, identifier, actionType, service.now().Add(-rule.Window))
}

// ruleFor resolves the configured rule for an action, falling back to
// [DefaultRule] for unconfigured action types.
func (service *Service) ruleFor(actionType string) Rule {
	if rule, found := service.rules[actionType]; found {
		return rule
	}
	return DefaultRule
}
