package main

import (
	"strings"
	"testing"

	"github.com/remiblancher/qder/templates"
)

func TestF_Template_List(t *testing.T) {
	newTestContext(t)
	out, err := executeCommand(rootCmd, "template", "list")
	assertNoError(t, err)
	for _, name := range templates.Names() {
		assertContains(t, out, name)
	}
	assertContains(t, out, "crl/basic")
}

func TestF_Template_Show(t *testing.T) {
	newTestContext(t)
	out, err := executeCommand(rootCmd, "template", "show", "ecdsa/server")
	assertNoError(t, err)
	assertContains(t, out, "algorithm: ecdsa-p256")
}

func TestF_Template_Show_Unknown(t *testing.T) {
	newTestContext(t)
	_, err := executeCommand(rootCmd, "template", "show", "nope")
	assertError(t, err)
}

func TestF_TBS_Encode_Builtin(t *testing.T) {
	newTestContext(t)
	out, err := executeCommand(rootCmd, "tbs", "encode", "-t", "builtin:ed25519/client", "--sign", "--format", "pem")
	assertNoError(t, err)
	if !strings.HasPrefix(out, "-----BEGIN CERTIFICATE-----") {
		t.Errorf("output = %q, want a PEM certificate", out)
	}
}

func TestF_Builtin_KindMismatch(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"crl as certificate", []string{"tbs", "encode", "-t", "builtin:crl/basic"}},
		{"certificate as crl", []string{"crl", "encode", "-t", "builtin:ecdsa/server"}},
		{"unknown builtin", []string{"tbs", "encode", "-t", "builtin:ecdsa/none"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestContext(t)
			_, err := executeCommand(rootCmd, tt.args...)
			assertError(t, err)
		})
	}
}

func TestF_CRL_Encode_Builtin(t *testing.T) {
	newTestContext(t)
	out, err := executeCommand(rootCmd, "crl", "encode", "-t", "builtin:crl/basic")
	assertNoError(t, err)
	if !strings.HasPrefix(out, "30") {
		t.Errorf("output = %q, want hex SEQUENCE", out)
	}
}
