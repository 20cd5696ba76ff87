package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// WildcardPolicy controls wildcard DNS names in subjectAltName (RFC 6125).
type WildcardPolicy struct {
	Allowed            bool `yaml:"allowed"`
	ForbidPublicSuffix bool `yaml:"forbid_public_suffix"`
}

// NormalizeDNSName lowercases name and strips a trailing dot.
func NormalizeDNSName(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".")
}

// ValidateDNSName checks RFC 1035/1123 syntax. A wildcard is accepted only
// as the leftmost label; ValidateWildcard applies the policy.
func ValidateDNSName(name string) error {
	if name == "" {
		return fmt.Errorf("DNS name cannot be empty")
	}
	name = NormalizeDNSName(name)
	if len(name) > 253 {
		return fmt.Errorf("DNS name too long: %d > 253 characters", len(name))
	}
	for i, label := range strings.Split(name, ".") {
		switch {
		case label == "":
			return fmt.Errorf("empty label in DNS name %q", name)
		case len(label) > 63:
			return fmt.Errorf("label too long: %q (%d > 63 characters)", label, len(label))
		case label == "*":
			if i != 0 {
				return fmt.Errorf("wildcard (*) must be leftmost label: %q", name)
			}
		case !isValidDNSLabel(label):
			return fmt.Errorf("invalid DNS label %q", label)
		}
	}
	return nil
}

func isValidDNSLabel(label string) bool {
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, c := range label {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// ValidateWildcard checks name against policy. A nil policy forbids
// wildcards.
func ValidateWildcard(name string, policy *WildcardPolicy) error {
	name = NormalizeDNSName(name)
	labels := strings.Split(name, ".")
	if labels[0] != "*" {
		if strings.Contains(name, "*") {
			return fmt.Errorf("%w: partial or non-leftmost wildcard in %q", ErrWildcardNotAllowed, name)
		}
		return nil
	}
	if strings.Contains(strings.Join(labels[1:], "."), "*") {
		return fmt.Errorf("%w: multiple wildcards in %q", ErrWildcardNotAllowed, name)
	}
	if policy == nil || !policy.Allowed {
		return fmt.Errorf("%w: %q", ErrWildcardNotAllowed, name)
	}

	// *.com and *.co.uk are too broad even without the public suffix check.
	if len(labels) < 3 {
		return fmt.Errorf("%w: %q needs at least 3 labels (*.domain.tld)", ErrWildcardNotAllowed, name)
	}
	if policy.ForbidPublicSuffix {
		base := strings.Join(labels[1:], ".")
		if suffix, icann := publicsuffix.PublicSuffix(base); icann && suffix == base {
			return fmt.Errorf("%w: %q covers public suffix %q", ErrWildcardNotAllowed, name, suffix)
		}
	}
	return nil
}

// ParseDuration accepts Go durations plus leading y (365 days), w and d
// components, e.g. "365d", "1y", "2w", "30d12h".
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var total time.Duration
	rest := s
	for _, u := range []struct {
		suffix string
		unit   time.Duration
	}{
		{"y", 365 * 24 * time.Hour},
		{"w", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
	} {
		i := strings.Index(rest, u.suffix)
		if i < 0 {
			continue
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += time.Duration(n) * u.unit
		rest = rest[i+1:]
	}
	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += d
	}
	return total, nil
}
