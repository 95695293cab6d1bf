package logging

import (
	"log/slog"
	"sort"
	"strings"
)

// RedactedValue is the placeholder written in place of a masked field.
const RedactedValue = "[REDACTED]"

// redactionAllowlist holds the log keys chaind emits on every line that
// carry no chain-address or seed material and so need no masking:
// chain identity, severity, the structural block/tx coordinates, and the
// message itself. Anything else logged through MaskField is treated as
// potentially sensitive (owner addresses, configured seeds) by default.
var redactionAllowlist = map[string]struct{}{
	"chain":     {},
	"message":   {},
	"severity":  {},
	"timestamp": {},
	"error":     {},
	"reason":    {},
	"component": {},
	"height":    {},
	"hash":      {},
	"backend":   {},
	"addr":      {},
}

// IsAllowlisted reports whether key is exempt from masking.
func IsAllowlisted(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	_, ok := redactionAllowlist[normalized]
	return ok
}

// RedactionAllowlist returns a sorted copy of the allowlisted keys, for
// tests asserting that sensitive fields remain masked.
func RedactionAllowlist() []string {
	keys := make([]string, 0, len(redactionAllowlist))
	for key := range redactionAllowlist {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MaskValue returns RedactedValue for a non-empty value, unchanged
// otherwise.
func MaskValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}
	return RedactedValue
}

// MaskField returns a slog.Attr with value masked unless key is
// allowlisted. Owner addresses and the configured seed are the two
// fields chaind routes through this on startup.
func MaskField(key, value string) slog.Attr {
	if strings.TrimSpace(value) == "" || IsAllowlisted(key) {
		return slog.String(key, value)
	}
	return slog.String(key, RedactedValue)
}
