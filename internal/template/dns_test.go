package template

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestU_ValidateDNSName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"example.com", false},
		{"WWW.Example.COM.", false},
		{"*.example.com", false},
		{"a-b.example.com", false},
		{"localhost", false},
		{"", true},
		{"a..com", true},
		{"-a.com", true},
		{"a-.com", true},
		{"a_b.com", true},
		{"www.*.com", true},
		{strings.Repeat("a", 64) + ".com", true},
		{strings.Repeat("abcdefghi.", 26) + "com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDNSName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDNSName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestU_ValidateWildcard(t *testing.T) {
	allowed := &WildcardPolicy{Allowed: true}
	strict := &WildcardPolicy{Allowed: true, ForbidPublicSuffix: true}
	tests := []struct {
		name    string
		dns     string
		policy  *WildcardPolicy
		wantErr bool
	}{
		{"no wildcard", "www.example.com", nil, false},
		{"nil policy", "*.example.com", nil, true},
		{"disallowed", "*.example.com", &WildcardPolicy{}, true},
		{"allowed", "*.example.com", allowed, false},
		{"too broad", "*.com", allowed, true},
		{"multiple", "*.*.example.com", allowed, true},
		{"partial label", "w*.example.com", allowed, true},
		{"public suffix allowed without check", "*.co.uk", allowed, false},
		{"public suffix forbidden", "*.co.uk", strict, true},
		{"registrable domain", "*.example.co.uk", strict, false},
		{"uppercase", "*.EXAMPLE.COM", strict, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWildcard(tt.dns, tt.policy)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateWildcard(%q) error = %v, wantErr %v", tt.dns, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrWildcardNotAllowed) {
				t.Errorf("error %v does not match ErrWildcardNotAllowed", err)
			}
		})
	}
}

func TestU_ParseDuration(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"8760h", 8760 * time.Hour, false},
		{"1h30m", 90 * time.Minute, false},
		{"365d", 365 * day, false},
		{"1y", 365 * day, false},
		{"2w", 14 * day, false},
		{"30d12h", 30*day + 12*time.Hour, false},
		{"1y2w3d", 365*day + 14*day + 3*day, false},
		{"0d", 0, false},
		{"", 0, true},
		{"soon", 0, true},
		{"xd", 0, true},
		{"-1d", 0, true},
		{"1d2x", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDuration(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
