package template

import (
	"crypto/x509"
	"errors"
	"testing"
	"time"

	"github.com/remiblancher/qder/internal/keys"
	"github.com/remiblancher/qder/pkg/x509der"
)

func TestU_CRLTemplate_ParsesWithCryptoX509(t *testing.T) {
	tmpl, err := LoadCRLFromBytes([]byte(`
signature_algorithm: Ed25519
issuer: { CN: Test CA, O: Acme }
this_update: now
next_update: 7d
crl_number: "0x2A"
authority_key_id: "0102030405"
revoked:
  - { serial: "0x1F", date: "2025-05-01T00:00:00Z", reason: keyCompromise }
  - { serial: "1000", reason: "4" }
  - { serial: "77" }
`))
	if err != nil {
		t.Fatalf("LoadCRLFromBytes() error = %v", err)
	}
	list, err := tmpl.Build(fixedNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	tbs, err := list.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	kp, err := keys.Generate(keys.AlgEd25519)
	if err != nil {
		t.Fatal(err)
	}
	sig, err := kp.Sign(tbs)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509der.AssembleCertificate(tbs, *list.Signature, sig)
	if err != nil {
		t.Fatalf("AssembleCertificate() error = %v", err)
	}
	crl, err := x509.ParseRevocationList(der)
	if err != nil {
		t.Fatalf("ParseRevocationList() error = %v", err)
	}

	if crl.Number.Int64() != 42 {
		t.Errorf("Number = %s, want 42", crl.Number)
	}
	if !crl.ThisUpdate.Equal(fixedNow) || !crl.NextUpdate.Equal(fixedNow.Add(7*24*time.Hour)) {
		t.Errorf("ThisUpdate=%s NextUpdate=%s", crl.ThisUpdate, crl.NextUpdate)
	}
	if string(crl.AuthorityKeyId) != "\x01\x02\x03\x04\x05" {
		t.Errorf("AuthorityKeyId = %x", crl.AuthorityKeyId)
	}
	entries := crl.RevokedCertificateEntries
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].SerialNumber.Int64() != 31 || entries[0].ReasonCode != 1 {
		t.Errorf("entry 0 = serial %s reason %d", entries[0].SerialNumber, entries[0].ReasonCode)
	}
	if !entries[0].RevocationTime.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("entry 0 RevocationTime = %s", entries[0].RevocationTime)
	}
	if entries[1].ReasonCode != 4 {
		t.Errorf("entry 1 ReasonCode = %d, want 4", entries[1].ReasonCode)
	}
	if !entries[2].RevocationTime.Equal(fixedNow) || len(entries[2].Extensions) != 0 {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestU_CRLTemplate_ValidationErrors(t *testing.T) {
	const base = "signature_algorithm: Ed25519\nissuer: {CN: CA}\n"
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"missing signature algorithm", "issuer: {CN: CA}\n", "signature_algorithm"},
		{"unknown signature algorithm", "signature_algorithm: md2\nissuer: {CN: CA}\n", "signature_algorithm"},
		{"missing issuer", "signature_algorithm: Ed25519\n", "issuer"},
		{"bad this_update", base + "this_update: tomorrow\n", "this_update"},
		{"bad next_update", base + "next_update: later\n", "next_update"},
		{"next_update before this_update", base + "this_update: \"2030-01-01T00:00:00Z\"\nnext_update: \"2029-01-01T00:00:00Z\"\n", "next_update"},
		{"bad crl number", base + "crl_number: forty\n", "crl_number"},
		{"negative crl number", base + "crl_number: \"-1\"\n", "crl_number"},
		{"bad aki", base + "authority_key_id: zz\n", "authority_key_id"},
		{"bad serial", base + "revoked: [{serial: abc}]\n", "revoked[0].serial"},
		{"duplicate serial", base + "revoked: [{serial: \"0x10\"}, {serial: \"16\"}]\n", "revoked[1].serial"},
		{"bad date", base + "revoked: [{serial: \"1\", date: soon}]\n", "revoked[0].date"},
		{"unknown reason", base + "revoked: [{serial: \"1\", reason: boredom}]\n", "revoked[0].reason"},
		{"reason seven", base + "revoked: [{serial: \"1\", reason: \"7\"}]\n", "revoked[0].reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCRLFromBytes([]byte(tt.yaml))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q (%v)", ve.Field, tt.field, err)
			}
		})
	}
}

func TestU_ParseReason(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"unspecified", 0},
		{"keyCompromise", 1},
		{"key-compromise", 1},
		{"CA_COMPROMISE", 2},
		{"removeFromCRL", 8},
		{"10", 10},
	}
	for _, tt := range tests {
		got, err := ParseReason(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseReason(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"7", "11", "-1", "nope"} {
		if _, err := ParseReason(bad); err == nil {
			t.Errorf("ParseReason(%q) accepted", bad)
		}
	}
}
