// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package form

import (
	"fmt"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// # Email Normalization

// NormalizedEmail is the result of IDN-aware email normalization.
type NormalizedEmail struct {
	// Address is the full normalized address: NFC local part plus the
	// lowercased Unicode domain.
	Address string
	// Local is the normalized local part.
	Local string
	// Domain is the lowercased Unicode domain.
	Domain string
	// ASCIIDomain is the punycode (xn--) form of the domain.
	ASCIIDomain string
}

// idnaProfile converts Unicode domains to their registrable ASCII form. The
// Lookup profile enforces label length and character rules along the way.
var idnaProfile = idna.Lookup

/*
NormalizeEmail validates the structure of an email address and normalizes it
for comparison and storage.

Description: Unicode local parts (用户, пользователь) and internationalized
domains (例子.中国, пример.рф) are first-class: the local part is NFC
normalized, the domain is lowercased and converted through IDNA to verify it
is a registrable hostname with at least two labels.

Structural failures — no "@", empty local part, missing domain, a dot
directly before the "@", a domain without a dot — return an error.

Parameters:
  - address: Raw submitted address (already trimmed by the sanitizer)

Returns:
  - NormalizedEmail: Normalized representation
  - error: Structural invalidity
*/
func NormalizeEmail(address string) (NormalizedEmail, error) {
	// The local part may contain "@" only if quoted; Vendora does not accept
	// quoted local parts, so the LAST "@" separates local and domain.
	atIndex := strings.LastIndex(address, "@")
	if atIndex < 0 {
		return NormalizedEmail{}, fmt.Errorf("email: missing @ separator")
	}

	local := address[:atIndex]
	domain := address[atIndex+1:]

	if local == "" {
		return NormalizedEmail{}, fmt.Errorf("email: empty local part")
	}
	if domain == "" {
		return NormalizedEmail{}, fmt.Errorf("email: missing domain")
	}
	if strings.HasSuffix(local, ".") || strings.HasPrefix(local, ".") || strings.Contains(local, "..") {
		return NormalizedEmail{}, fmt.Errorf("email: misplaced dot in local part")
	}
	if strings.ContainsAny(local, " \t") || strings.ContainsAny(domain, " \t") {
		return NormalizedEmail{}, fmt.Errorf("email: whitespace in address")
	}

	local = norm.NFC.String(local)
	domain = strings.ToLower(norm.NFC.String(domain))

	// IDNA conversion doubles as hostname validation (labels, length).
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil {
		return NormalizedEmail{}, fmt.Errorf("email: invalid domain: %w", err)
	}

	// Require a registrable domain: at least two labels, none empty.
	labels := strings.Split(asciiDomain, ".")
	if len(labels) < 2 {
		return NormalizedEmail{}, fmt.Errorf("email: domain must contain a dot")
	}
	for _, label := range labels {
		if label == "" {
			return NormalizedEmail{}, fmt.Errorf("email: empty domain label")
		}
	}

	return NormalizedEmail{
		Address:     local + "@" + domain,
		Local:       local,
		Domain:      domain,
		ASCIIDomain: asciiDomain,
	}, nil
}

// domainMatches reports whether the normalized email's domain matches the
// candidate, comparing both the Unicode and punycode forms case-insensitively.
func (e NormalizedEmail) domainMatches(candidate string) bool {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return false
	}

	if candidate == e.Domain || candidate == e.ASCIIDomain {
		return true
	}

	// Allow-lists may be written in Unicode while the address arrived in
	// punycode, or the other way round.
	if converted, err := idnaProfile.ToASCII(candidate); err == nil && converted == e.ASCIIDomain {
		return true
	}

	return false
}
