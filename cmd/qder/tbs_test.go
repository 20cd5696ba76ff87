package main

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"os"
	"strings"
	"testing"
)

const serverTemplate = `
serial: "0x1234"
subject: { CN: cli test, O: Acme }
validity: { not_before: now, duration: 30d }
key: { algorithm: ed25519 }
extensions:
  basic_constraints: { ca: true }
  subject_key_id: true
`

// =============================================================================
// TBS Encode Tests
// =============================================================================

func TestF_TBS_Encode_HexStdout(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("server.yaml", serverTemplate)

	out, err := executeCommand(rootCmd, "tbs", "encode", "--template", path)
	assertNoError(t, err)

	der, err := hex.DecodeString(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("output is not hex: %v", err)
	}
	if len(der) == 0 || der[0] != 0x30 {
		t.Errorf("TBS does not start with SEQUENCE: %x", der)
	}
}

func TestF_TBS_Encode_SignedPEM(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("ca.yaml", serverTemplate)
	certPath := tc.path("ca.crt")
	pubPath := tc.path("ca.pub")

	out, err := executeCommand(rootCmd, "tbs", "encode", "-t", path,
		"--sign", "--format", "pem", "--out", certPath, "--pubkey-out", pubPath)
	assertNoError(t, err)
	assertContains(t, out, "Encoded CERTIFICATE")
	assertContains(t, out, "Serial:    0x1234")
	assertContains(t, out, "Subject:   CN=cli test, O=Acme")
	assertFileExists(t, pubPath)

	data, err := os.ReadFile(certPath)
	assertNoError(t, err)
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("no CERTIFICATE block in %s", certPath)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	assertNoError(t, err)
	if err := cert.CheckSignatureFrom(cert); err != nil {
		t.Errorf("CheckSignatureFrom() error = %v", err)
	}
	if cert.Subject.CommonName != "cli test" {
		t.Errorf("CommonName = %q", cert.Subject.CommonName)
	}

	pubData, err := os.ReadFile(pubPath)
	assertNoError(t, err)
	pubBlock, _ := pem.Decode(pubData)
	if pubBlock == nil {
		t.Fatal("public key file is not PEM")
	}
	pub, err := x509.ParsePKIXPublicKey(pubBlock.Bytes)
	assertNoError(t, err)
	if pub == nil {
		t.Error("ParsePKIXPublicKey() returned nil")
	}
}

func TestF_TBS_Encode_DERFile(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("server.yaml", serverTemplate)
	outPath := tc.path("server.tbs")

	out, err := executeCommand(rootCmd, "tbs", "encode", "-t", path, "-o", outPath)
	assertNoError(t, err)
	assertContains(t, out, "Encoded TBS CERTIFICATE")

	data, err := os.ReadFile(outPath)
	assertNoError(t, err)
	if len(data) == 0 || data[0] != 0x30 {
		t.Errorf("file is not raw DER: %x", data)
	}
}

func TestF_TBS_Encode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []string
	}{
		{"malformed yaml", "subject: [", nil},
		{"missing subject", "validity: { duration: 1d }\nkey: { algorithm: ed25519 }\n", nil},
		{"unknown format", serverTemplate, []string{"--format", "xml"}},
		{"invalid public key", "subject: { CN: x }\nsignature_algorithm: Ed25519\nkey: { public_key_pem: not-a-pem }\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestContext(t)
			path := tc.writeFile("t.yaml", tt.template)
			_, err := executeCommand(rootCmd, append([]string{"tbs", "encode", "-t", path}, tt.args...)...)
			assertError(t, err)
		})
	}
}

func TestF_TBS_Encode_MissingTemplateFlag(t *testing.T) {
	newTestContext(t)
	_, err := executeCommand(rootCmd, "tbs", "encode")
	assertError(t, err)
}

func TestF_TBS_Encode_TemplateNotFound(t *testing.T) {
	tc := newTestContext(t)
	_, err := executeCommand(rootCmd, "tbs", "encode", "-t", tc.path("missing.yaml"))
	assertError(t, err)
}
