// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

/*
Package csrf implements the double-submit cookie pattern for form submissions.

The server mints an HMAC-signed value into a cookie; every mutating form must
echo the same value in its csrf_token field. The signature proves the cookie
was minted by this server, which closes the subdomain cookie-planting hole
that plain double-submit leaves open.
*/
package csrf

import (
	"net/http"
	"time"

	"github.com/vendorahq/vendora/internal/platform/constants"
	"github.com/vendorahq/vendora/internal/security/token"
)

const (
	// DefaultTTL is the maximum age of a signed CSRF cookie before the client
	// must fetch a fresh one.
	DefaultTTL = 12 * time.Hour

	// NonceLength is the byte length of the random half of a CSRF token.
	NonceLength = 16
)

// Guard mints and resolves CSRF double-submit tokens.
type Guard struct {
	tokens *token.Service
	ttl    time.Duration
}

// NewGuard constructs a [Guard] around the token signing service.
func NewGuard(tokens *token.Service) *Guard {
	return &Guard{tokens: tokens, ttl: DefaultTTL}
}

/*
Issue mints a signed CSRF token and stores it in the response cookie.

Description: The cookie is deliberately not HttpOnly — the frontend reads it
back to fill the csrf_token form field, which is the whole point of the
double-submit pattern.

Parameters:
  - writer: Response to receive the cookie

Returns:
  - string: The minted token, for echoing in the response body
  - error: Entropy source failures
*/
func (guard *Guard) Issue(writer http.ResponseWriter) (string, error) {
	nonce, err := guard.tokens.Generate(NonceLength)
	if err != nil {
		return "", err
	}

	signed := guard.tokens.GenerateSigned(nonce)

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.CSRFCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(guard.ttl / time.Second),
		Secure:   true,
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})

	return signed, nil
}

/*
Expected resolves the token a submission must match.

Description: Returns the signed cookie value when present, authentic, and
fresh. Without a valid cookie a freshly minted random value is demanded
instead, which no submission can know — absence of the cookie must never
become a bypass.

Parameters:
  - request: Incoming submission

Returns:
  - string: The expected csrf_token form value
*/
func (guard *Guard) Expected(request *http.Request) string {
	cookie, err := request.Cookie(constants.CSRFCookieName)
	if err == nil && cookie.Value != "" {
		if _, ok := guard.tokens.VerifySigned(cookie.Value, guard.ttl); ok {
			return cookie.Value
		}
	}

	nonce, err := guard.tokens.GenerateURLSafe()
	if err != nil {
		return "unsatisfiable"
	}
	return nonce
}
