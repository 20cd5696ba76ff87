package oid

import (
	"encoding/asn1"
	"errors"
	"testing"
)

func TestU_Known_NameAndLookup(t *testing.T) {
	tests := []struct {
		lookup   string
		dotted   string
		wantName string
	}{
		{"basicConstraints", "2.5.29.19", "basicConstraints"},
		{"cn", "2.5.4.3", "CN"},
		{"commonName", "2.5.4.3", "CN"},
		{"countryName", "2.5.4.6", "C"},
		{"P-256", "1.2.840.10045.3.1.7", "prime256v1"},
		{"ml-dsa-65", "2.16.840.1.101.3.4.3.18", "ML-DSA-65"},
		{"ECDSA-WITH-SHA384", "1.2.840.10045.4.3.3", "ecdsa-with-SHA384"},
		{"server-auth", "1.3.6.1.5.5.7.3.1", "serverAuth"},
		{"email", "1.2.840.113549.1.9.1", "emailAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.lookup, func(t *testing.T) {
			o, ok := Lookup(tt.lookup)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.lookup)
			}
			if o.String() != tt.dotted {
				t.Errorf("Lookup(%q) = %s, want %s", tt.lookup, o, tt.dotted)
			}
			name, ok := Name(MustParse(tt.dotted))
			if !ok || name != tt.wantName {
				t.Errorf("Name(%s) = %q, %v; want %q", tt.dotted, name, ok, tt.wantName)
			}
		})
	}
}

func TestU_Known_Unknown(t *testing.T) {
	if _, ok := Lookup("no-such-algorithm"); ok {
		t.Error("Lookup() found an unregistered name")
	}
	if _, ok := Name(MustParse("1.2.3.4.5")); ok {
		t.Error("Name() found an unregistered identifier")
	}
	if _, ok := Name(nil); ok {
		t.Error("Name(nil) should report false")
	}
}

func TestU_Known_Resolve(t *testing.T) {
	o, err := Resolve("Ed25519")
	if err != nil || !o.Equal(Ed25519) {
		t.Errorf("Resolve(Ed25519) = %v, %v", o, err)
	}
	o, err = Resolve("1.2.3")
	if err != nil || o.String() != "1.2.3" {
		t.Errorf("Resolve(1.2.3) = %v, %v", o, err)
	}
	if _, err := Resolve("not an oid"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Resolve(garbage) error = %v, want ErrMalformed", err)
	}
}

func TestU_Known_RegistryMatchesEncodingASN1(t *testing.T) {
	for _, e := range registry {
		id, ok := e.oid.ASN1()
		if !ok {
			t.Fatalf("%s: ASN1() failed", e.name)
		}
		ref, err := asn1.Marshal(id)
		if err != nil {
			t.Fatalf("%s: asn1.Marshal error = %v", e.name, err)
		}
		got, err := e.oid.MarshalDER()
		if err != nil {
			t.Fatalf("%s: MarshalDER error = %v", e.name, err)
		}
		if string(got) != string(ref) {
			t.Errorf("%s: MarshalDER = %X, encoding/asn1 = %X", e.name, got, ref)
		}
	}
}

func TestU_Known_NamesSortedAndUnique(t *testing.T) {
	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("Names() returned %d, want %d", len(names), len(registry))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not strictly sorted at %q, %q", names[i-1], names[i])
		}
	}
	seen := make(map[string]string)
	for _, e := range registry {
		if prev, dup := seen[e.oid.Key()]; dup {
			t.Errorf("%s registered twice (%s, %s)", e.oid, prev, e.name)
		}
		seen[e.oid.Key()] = e.name
	}
}
