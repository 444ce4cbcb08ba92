package medialist

import (
	"fmt"
	"strings"

	"vjoin/internal/services"
)

// Policy selects how Add places new entries.
type Policy string

const (
	// PolicyPlaceholderFill fills the first empty placeholder, appending when
	// none is left. Duplicate paths are allowed.
	PolicyPlaceholderFill Policy = "placeholder-fill"
	// PolicyAppendDedup appends at the end and ignores paths already listed.
	PolicyAppendDedup Policy = "append-dedup"
)

// ParsePolicy converts a configuration value to a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicyPlaceholderFill, "":
		return PolicyPlaceholderFill, nil
	case PolicyAppendDedup:
		return PolicyAppendDedup, nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "medialist", "policy", fmt.Sprintf("unknown insert policy %q", value), nil)
	}
}
