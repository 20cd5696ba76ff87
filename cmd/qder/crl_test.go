package main

import (
	"crypto/x509"
	"encoding/pem"
	"math/big"
	"os"
	"testing"
)

const crlYAML = `
signature_algorithm: Ed25519
issuer: { CN: Root CA }
next_update: 7d
crl_number: 12
revoked:
  - { serial: "0x1F", reason: keyCompromise }
  - { serial: "1000" }
`

func TestF_CRL_Encode_PEMFile(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("crl.yaml", crlYAML)
	outPath := tc.path("crl.pem")

	out, err := executeCommand(rootCmd, "crl", "encode", "-t", path, "--format", "pem", "-o", outPath)
	assertNoError(t, err)
	assertContains(t, out, "Issuer:       CN=Root CA")
	assertContains(t, out, "Revoked:      2")
	assertContains(t, out, "Next update:")

	data, err := os.ReadFile(outPath)
	assertNoError(t, err)
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "TBS CERTLIST" {
		t.Fatalf("no TBS CERTLIST block in %s", outPath)
	}
	if block.Bytes[0] != 0x30 {
		t.Errorf("TBSCertList does not start with SEQUENCE")
	}
}

func TestF_CRL_Encode_HexStdout(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("crl.yaml", crlYAML)

	out, err := executeCommand(rootCmd, "crl", "encode", "-t", path)
	assertNoError(t, err)
	if len(out) < 2 || out[:2] != "30" {
		t.Errorf("output = %q, want hex SEQUENCE", out)
	}
}

func TestF_CRL_Encode_RawRoundTrip(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("crl.yaml", crlYAML)
	outPath := tc.path("crl.tbs")

	_, err := executeCommand(rootCmd, "crl", "encode", "-t", path, "-o", outPath)
	assertNoError(t, err)

	tbs, err := os.ReadFile(outPath)
	assertNoError(t, err)
	// Wrap the body with an empty signature so crypto/x509 can parse it.
	list, err := x509.ParseRevocationList(wrapUnsigned(tbs))
	if err != nil {
		t.Fatalf("ParseRevocationList() error = %v", err)
	}
	if list.Number.Cmp(big.NewInt(12)) != 0 {
		t.Errorf("Number = %v, want 12", list.Number)
	}
	if len(list.RevokedCertificateEntries) != 2 {
		t.Errorf("revoked entries = %d, want 2", len(list.RevokedCertificateEntries))
	}
}

func TestF_CRL_Encode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"malformed yaml", "issuer: ["},
		{"missing issuer", "signature_algorithm: Ed25519\n"},
		{"bad reason", "signature_algorithm: Ed25519\nissuer: {CN: CA}\nrevoked:\n  - { serial: 1, reason: 7 }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestContext(t)
			path := tc.writeFile("crl.yaml", tt.template)
			_, err := executeCommand(rootCmd, "crl", "encode", "-t", path)
			assertError(t, err)
		})
	}
}

// wrapUnsigned builds CertificateList { tbs, Ed25519 AlgorithmIdentifier,
// empty BIT STRING }.
func wrapUnsigned(tbs []byte) []byte {
	alg := []byte{0x30, 0x05, 0x06, 0x03, 0x2B, 0x65, 0x70}
	sig := []byte{0x03, 0x01, 0x00}
	body := append(append(append([]byte{}, tbs...), alg...), sig...)
	return append(derHeader(0x30, len(body)), body...)
}

func derHeader(tag byte, n int) []byte {
	switch {
	case n < 0x80:
		return []byte{tag, byte(n)}
	case n < 0x100:
		return []byte{tag, 0x81, byte(n)}
	default:
		return []byte{tag, 0x82, byte(n >> 8), byte(n)}
	}
}
