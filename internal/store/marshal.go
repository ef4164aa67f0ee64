package store

import (
	"fmt"
	"time"

	"github.com/roach88/cjsongen/internal/ir"
)

// timeLayout keeps sub-second precision and sorts lexically in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// MarshalSettings converts generator settings to canonical JSON TEXT for
// storage. Uses RFC 8785 canonical JSON so equal settings compare equal as
// strings.
func MarshalSettings(settings map[string]any) (string, error) {
	data, err := ir.MarshalCanonical(settings)
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	return string(data), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
