// Package canonical normalizes article URLs into stable dedup keys.
package canonical

import (
	"net/url"
	"strings"
)

// Query parameters that carry tracking state and never identity.
var dropParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {},
	"utm_content": {}, "utm_id": {}, "utm_name": {},
	"gclid": {}, "fbclid": {}, "igshid": {}, "spm": {},
	"ref": {}, "ref_src": {}, "cmpid": {},
}

// Link returns the canonical form of a raw URL: lower-cased scheme and
// host, no trailing slash, tracking parameters removed, remaining query
// parameters re-encoded in their original order, fragment dropped.
// Malformed input is returned unchanged. The function
// is idempotent: Link(Link(u)) == Link(u).
func Link(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}

	out := url.URL{
		Scheme:   scheme,
		Host:     strings.ToLower(u.Host),
		Path:     strings.TrimRight(u.Path, "/"),
		RawQuery: filterQuery(u.RawQuery),
	}
	return out.String()
}

// filterQuery drops tracking parameters while keeping the relative order
// of the survivors. url.Values cannot be used here: it loses ordering.
func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		value := ""
		hasValue := false
		if idx := strings.Index(pair, "="); idx >= 0 {
			key, value = pair[:idx], pair[idx+1:]
			hasValue = true
		}

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			decodedKey = key
		}
		if _, drop := dropParams[strings.ToLower(decodedKey)]; drop {
			continue
		}

		encoded := url.QueryEscape(decodedKey)
		if hasValue {
			decodedValue, err := url.QueryUnescape(value)
			if err != nil {
				decodedValue = value
			}
			encoded += "=" + url.QueryEscape(decodedValue)
		}
		kept = append(kept, encoded)
	}
	return strings.Join(kept, "&")
}
