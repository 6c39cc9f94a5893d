// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package captcha adapts Google reCAPTCHA as a conditional gate for storefront
form submissions.

The service is a policy layer: it decides WHEN a challenge is required and
verifies response tokens against the external siteverify endpoint. Rendering
the widget markup is the one piece of view logic kept here, because the
v2/v3/disabled branching is part of the state machine contract.

Architecture:

  - Policy: disabled -> never required; enabled -> per-action failure
    thresholds fed by an [AttemptCounter] capability.
  - Verification: HTTP POST with a hard timeout; any transport or decoding
    failure counts as "not verified" (fail closed).
  - Strategy: the attempt counter is always present — a static allow-list
    implementation stands in when no brute-force tracking is wired.
*/
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// # Constants

const (
	// VerifyURL is Google's token verification endpoint.
	VerifyURL = "https://www.google.com/recaptcha/api/siteverify"

	// VersionV2 renders the checkbox widget and trusts the success flag.
	VersionV2 = "v2"
	// VersionV3 is invisible and additionally enforces a score threshold.
	VersionV3 = "v3"

	// DefaultScoreThreshold is the minimum accepted v3 score when none is
	// configured.
	DefaultScoreThreshold = 0.5

	// DefaultFailureThreshold is the failed-attempt count after which a
	// challenge is required for actions without an explicit threshold.
	DefaultFailureThreshold = 3

	// verifyTimeout bounds the siteverify round trip. The provider going
	// slow must not stall login submissions indefinitely.
	verifyTimeout = 5 * time.Second
)

// # Contracts & Types

// AttemptCounter supplies recent failure counts for the requirement policy.
//
// Two implementations exist: the ratelimit-backed counter (production) and
// [StaticPolicy] for deployments without persisted attempt tracking.
type AttemptCounter interface {
	CountRecentFailures(ctx context.Context, identifier, actionType string) (int, error)
}

// StaticPolicy is an [AttemptCounter] that ignores history entirely: listed
// actions always require a challenge, everything else never does.
type StaticPolicy struct {
	actions map[string]struct{}
}

// NewStaticPolicy builds a [StaticPolicy] from the action names that must
// always be challenged when the service is enabled.
func NewStaticPolicy(actions ...string) *StaticPolicy {
	set := make(map[string]struct{}, len(actions))
	for _, action := range actions {
		set[action] = struct{}{}
	}
	return &StaticPolicy{actions: set}
}

// CountRecentFailures reports a count above any sane threshold for listed
// actions and zero for everything else.
func (policy *StaticPolicy) CountRecentFailures(_ context.Context, _, actionType string) (int, error) {
	if _, listed := policy.actions[actionType]; listed {
		return int(^uint(0) >> 1), nil
	}
	return 0, nil
}

// Config holds the reCAPTCHA deployment settings.
type Config struct {
	// Enabled is the global switch. Disabled means: never required, empty
	// widget, verification always succeeds.
	Enabled bool
	// SiteKey is the public widget key.
	SiteKey string
	// Secret is the server-side verification key.
	Secret string
	// Version selects v2 or v3 behavior. Defaults to v2.
	Version string
	// ScoreThreshold is the minimum accepted v3 score (0 means default).
	ScoreThreshold float64
	// Thresholds maps action types to the failed-attempt count that makes a
	// challenge mandatory. A threshold <= 0 disables the challenge for that
	// action. Absent actions use [DefaultFailureThreshold].
	Thresholds map[string]int
	// Theme and Size feed the v2 widget attributes.
	Theme string
	Size  string
	// VerifyEndpoint overrides the siteverify URL (tests only; empty means
	// [VerifyURL]).
	VerifyEndpoint string
}

// Service is the reCAPTCHA policy and verification adapter.
type Service struct {
	config  Config
	counter AttemptCounter
	client  *http.Client
}

// NewService constructs the captcha [Service].
//
// The counter must never be nil — pass a [StaticPolicy] when no brute-force
// tracking is available.
func NewService(config Config, counter AttemptCounter) *Service {
	if config.Version == "" {
		config.Version = VersionV2
	}
	if config.ScoreThreshold <= 0 {
		config.ScoreThreshold = DefaultScoreThreshold
	}
	if config.VerifyEndpoint == "" {
		config.VerifyEndpoint = VerifyURL
	}

	return &Service{
		config:  config,
		counter: counter,
		client:  &http.Client{Timeout: verifyTimeout},
	}
}

// IsEnabled reports the global switch.
func (service *Service) IsEnabled() bool {
	return service.config.Enabled
}

// # Requirement Policy

/*
IsRequired decides whether a challenge must be solved for one action.

Description: Disabled service -> never. Enabled: resolve the per-action
threshold (<= 0 means the action is exempt), then compare the identifier's
recent failure count from the [AttemptCounter]. When the counter errors, the
challenge is required (fail closed).

An explicit force signal (show_captcha query parameter) is the caller's
concern: controllers check it BEFORE consulting this method.

Parameters:
  - ctx: context.Context
  - actionType: Action being gated (e.g. "login")
  - identifier: Subject of the action (email or IP)

Returns:
  - bool: Whether the form must carry a solved challenge
*/
func (service *Service) IsRequired(ctx context.Context, actionType, identifier string) bool {
	if !service.config.Enabled {
		return false
	}

	threshold, configured := service.config.Thresholds[actionType]
	if !configured {
		threshold = DefaultFailureThreshold
	}
	if threshold <= 0 {
		return false
	}

	count, err := service.counter.CountRecentFailures(ctx, identifier, actionType)
	if err != nil {
		// Counting broke: demand the challenge rather than waving through.
		return true
	}

	return count >= threshold
}

// # Verification

// verifyResponse is the siteverify JSON payload.
type verifyResponse struct {
	Success bool     `json:"success"`
	Score   *float64 `json:"score"`
	Errors  []string `json:"error-codes"`
}

/*
Verify checks a response token against the external verification endpoint.

Description: A disabled service accepts anything, including empty tokens. An
enabled service rejects empty tokens outright, then POSTs secret + response +
remote IP. Transport failures, non-200 statuses, and malformed JSON all count
as failed verification — never as a bypass.

Parameters:
  - ctx: context.Context
  - responseToken: The g-recaptcha-response form value
  - remoteIP: Client IP forwarded to the provider

Returns:
  - bool: Whether the token is valid
*/
func (service *Service) Verify(ctx context.Context, responseToken, remoteIP string) bool {
	if !service.config.Enabled {
		return true
	}

	if responseToken == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", service.config.Secret)
	form.Set("response", responseToken)
	form.Set("remoteip", remoteIP)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, service.config.VerifyEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := service.client.Do(request)
	if err != nil {
		return false
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return false
	}

	var result verifyResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return false
	}

	// v3 responses carry a score; enforce the threshold on top of success.
	if result.Score != nil {
		return result.Success && *result.Score >= service.config.ScoreThreshold
	}

	return result.Success
}

// String identifies the adapter in logs.
func (service *Service) String() string {
	return fmt.Sprintf("recaptcha(%s, enabled=%t)", service.config.Version, service.config.Enabled)
}
