package pipeline

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var errNoURL = errors.New("source URL is required")

// validateSourceURL rejects obviously unusable source URLs before any
// network or subprocess work starts. The resolver does its own deeper
// validation; this only catches requests that could never succeed.
func validateSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errNoURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid source URL %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid source URL %q: absolute URL with host is required", raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return fmt.Errorf("invalid source URL %q: http or https is required", raw)
	}
}
