package keys

import (
	"bytes"
	"crypto/x509"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/remiblancher/qder/pkg/der"
	"github.com/remiblancher/qder/pkg/oid"
)

func TestU_Keys_ParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"ecdsa-p256", AlgECDSAP256, false},
		{"ECDSA-P384", AlgECDSAP384, false},
		{" ed25519 ", AlgEd25519, false},
		{"ML-DSA-65", AlgMLDSA65, false},
		{"rsa-2048", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedAlgorithm) {
					t.Fatalf("ParseAlgorithm(%q) error = %v, want ErrUnsupportedAlgorithm", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAlgorithm(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAlgorithm(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestU_Keys_ClassicalSPKIMatchesStdlib(t *testing.T) {
	for _, alg := range []Algorithm{AlgECDSAP256, AlgECDSAP384, AlgEd25519} {
		t.Run(string(alg), func(t *testing.T) {
			kp, err := Generate(alg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			got, err := kp.SPKI.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			want, err := x509.MarshalPKIXPublicKey(kp.PublicKey)
			if err != nil {
				t.Fatalf("MarshalPKIXPublicKey() error = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("SPKI = %x\nwant  %x", got, want)
			}
		})
	}
}

func TestU_Keys_MLDSASPKI(t *testing.T) {
	tests := []struct {
		alg    Algorithm
		oid    *oid.ObjectIdentifier
		keyLen int
	}{
		{AlgMLDSA44, oid.MLDSA44, 1312},
		{AlgMLDSA65, oid.MLDSA65, 1952},
		{AlgMLDSA87, oid.MLDSA87, 2592},
	}
	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			kp, err := Generate(tt.alg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if !kp.Algorithm.IsPQC() {
				t.Error("IsPQC() = false")
			}
			raw, err := kp.SPKI.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			content, rest, err := der.ReadExpected(raw, der.TagSequence)
			if err != nil || len(rest) != 0 {
				t.Fatalf("SPKI is not a single SEQUENCE: %v", err)
			}
			algSeq, rest, err := der.ReadExpected(content, der.TagSequence)
			if err != nil {
				t.Fatalf("AlgorithmIdentifier: %v", err)
			}
			got, _, err := oid.ParseElement(algSeq)
			if err != nil {
				t.Fatalf("ParseElement() error = %v", err)
			}
			if !got.Equal(tt.oid) {
				t.Errorf("algorithm = %s, want %s", got, tt.oid)
			}
			if len(algSeq) != len(tt.oid.Bytes())+2 {
				t.Errorf("AlgorithmIdentifier carries parameters: %x", algSeq)
			}

			key, err := kp.SPKI.KeyBytes()
			if err != nil {
				t.Fatalf("KeyBytes() error = %v", err)
			}
			if len(key) != tt.keyLen {
				t.Errorf("public key length = %d, want %d", len(key), tt.keyLen)
			}
			if _, _, err := der.ReadExpected(rest, der.TagBitString); err != nil {
				t.Errorf("subjectPublicKey: %v", err)
			}
		})
	}
}

func TestU_Keys_SignVerify(t *testing.T) {
	message := []byte("tbs certificate bytes")
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			kp, err := Generate(alg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			sig, err := kp.Sign(message)
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			if !kp.Verify(message, sig) {
				t.Error("Verify() = false for a valid signature")
			}
			if kp.Verify([]byte("other message"), sig) {
				t.Error("Verify() = true for a different message")
			}
		})
	}
}

func TestU_Keys_SignatureAlgorithm(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want *oid.ObjectIdentifier
	}{
		{AlgECDSAP256, oid.ECDSAWithSHA256},
		{AlgECDSAP384, oid.ECDSAWithSHA384},
		{AlgEd25519, oid.Ed25519},
		{AlgMLDSA87, oid.MLDSA87},
	}
	for _, tt := range tests {
		got, err := tt.alg.SignatureAlgorithm()
		if err != nil {
			t.Fatalf("SignatureAlgorithm(%s) error = %v", tt.alg, err)
		}
		if !got.Algorithm.Equal(tt.want) || got.NullParams {
			t.Errorf("SignatureAlgorithm(%s) = %s, want %s without parameters", tt.alg, got.Algorithm, tt.want)
		}
	}
	if _, err := Algorithm("rsa").SignatureAlgorithm(); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("SignatureAlgorithm(rsa) error = %v", err)
	}
}

func TestU_Keys_GenerateUnsupported(t *testing.T) {
	if _, err := Generate("x25519"); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("Generate(x25519) error = %v", err)
	}
	if _, err := GenerateSPKI("dsa"); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("GenerateSPKI(dsa) error = %v", err)
	}
	if _, err := PublicKeyInfo("not a key"); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("PublicKeyInfo(string) error = %v", err)
	}
}

func TestU_Keys_PEMRoundTrip(t *testing.T) {
	spki, err := GenerateSPKI("ml-dsa-44")
	if err != nil {
		t.Fatalf("GenerateSPKI() error = %v", err)
	}
	pemBytes, err := EncodeSPKIPEM(spki)
	if err != nil {
		t.Fatalf("EncodeSPKIPEM() error = %v", err)
	}

	// A leading block of another type is skipped.
	data := append([]byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"), pemBytes...)
	path := filepath.Join(t.TempDir(), "key.pub")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSPKIFromPEM(path)
	if err != nil {
		t.Fatalf("LoadSPKIFromPEM() error = %v", err)
	}
	want, _ := spki.Encode()
	got, _ := loaded.Encode()
	if !bytes.Equal(got, want) {
		t.Error("loaded SPKI differs from the encoded one")
	}
}

func TestU_Keys_LoadSPKIFromPEMErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSPKIFromPEM(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("missing file accepted")
	}

	empty := filepath.Join(dir, "empty.pem")
	if err := os.WriteFile(empty, []byte("no pem here"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSPKIFromPEM(empty); err == nil {
		t.Error("file without PEM accepted")
	}

	if _, err := ParseSPKIPEM([]byte("-----BEGIN PUBLIC KEY-----\nAgEB\n-----END PUBLIC KEY-----\n")); err == nil {
		t.Error("PUBLIC KEY holding an INTEGER accepted")
	}
}
