// Package keys generates and loads the public keys placed in encoded
// certificates.
package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

// Algorithm names a key algorithm.
type Algorithm string

// Supported key algorithms.
const (
	AlgECDSAP256 Algorithm = "ecdsa-p256"
	AlgECDSAP384 Algorithm = "ecdsa-p384"
	AlgEd25519   Algorithm = "ed25519"
	AlgMLDSA44   Algorithm = "ml-dsa-44"
	AlgMLDSA65   Algorithm = "ml-dsa-65"
	AlgMLDSA87   Algorithm = "ml-dsa-87"
)

// ErrUnsupportedAlgorithm is returned for unknown algorithm names or key types.
var ErrUnsupportedAlgorithm = errors.New("unsupported key algorithm")

// Algorithms returns all supported algorithm names.
func Algorithms() []Algorithm {
	return []Algorithm{AlgECDSAP256, AlgECDSAP384, AlgEd25519, AlgMLDSA44, AlgMLDSA65, AlgMLDSA87}
}

// ParseAlgorithm accepts an algorithm name in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
	return a, nil
}

// IsValid reports whether a is supported.
func (a Algorithm) IsValid() bool {
	for _, s := range Algorithms() {
		if a == s {
			return true
		}
	}
	return false
}

// IsPQC reports whether a is a post-quantum algorithm.
func (a Algorithm) IsPQC() bool {
	return strings.HasPrefix(string(a), "ml-dsa-")
}

// SignatureAlgorithm returns the AlgorithmIdentifier used for signatures
// made with a key of this algorithm.
func (a Algorithm) SignatureAlgorithm() (x509der.AlgorithmIdentifier, error) {
	var o *oid.ObjectIdentifier
	switch a {
	case AlgECDSAP256:
		o = oid.ECDSAWithSHA256
	case AlgECDSAP384:
		o = oid.ECDSAWithSHA384
	case AlgEd25519:
		o = oid.Ed25519
	case AlgMLDSA44:
		o = oid.MLDSA44
	case AlgMLDSA65:
		o = oid.MLDSA65
	case AlgMLDSA87:
		o = oid.MLDSA87
	default:
		return x509der.AlgorithmIdentifier{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, a)
	}
	return x509der.Algorithm(o), nil
}

// KeyPair holds a generated key pair and its encoded public key.
type KeyPair struct {
	Algorithm  Algorithm
	PrivateKey crypto.PrivateKey
	PublicKey  crypto.PublicKey
	SPKI       *x509der.SubjectPublicKeyInfo
}

// Generate creates a key pair for alg.
func Generate(alg Algorithm) (*KeyPair, error) {
	return GenerateWithRand(rand.Reader, alg)
}

// GenerateWithRand creates a key pair using the provided random source.
func GenerateWithRand(random io.Reader, alg Algorithm) (*KeyPair, error) {
	var priv crypto.PrivateKey
	var pub crypto.PublicKey
	var err error

	switch alg {
	case AlgECDSAP256:
		priv, pub, err = generateECDSA(random, elliptic.P256())
	case AlgECDSAP384:
		priv, pub, err = generateECDSA(random, elliptic.P384())
	case AlgEd25519:
		pub, priv, err = ed25519.GenerateKey(random)

	// ML-DSA (FIPS 204)
	case AlgMLDSA44:
		pub, priv, err = mldsa44.GenerateKey(random)
	case AlgMLDSA65:
		pub, priv, err = mldsa65.GenerateKey(random)
	case AlgMLDSA87:
		pub, priv, err = mldsa87.GenerateKey(random)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key: %w", alg, err)
	}

	spki, err := PublicKeyInfo(pub)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Algorithm: alg, PrivateKey: priv, PublicKey: pub, SPKI: spki}, nil
}

// GenerateSPKI creates a fresh key for alg and returns only its public part.
func GenerateSPKI(alg string) (*x509der.SubjectPublicKeyInfo, error) {
	a, err := ParseAlgorithm(alg)
	if err != nil {
		return nil, err
	}
	kp, err := Generate(a)
	if err != nil {
		return nil, err
	}
	return kp.SPKI, nil
}

func generateECDSA(random io.Reader, curve elliptic.Curve) (crypto.PrivateKey, crypto.PublicKey, error) {
	priv, err := ecdsa.GenerateKey(curve, random)
	if err != nil {
		return nil, nil, err
	}
	return priv, &priv.PublicKey, nil
}

// PublicKeyInfo builds the SubjectPublicKeyInfo for a public key.
func PublicKeyInfo(pub crypto.PublicKey) (*x509der.SubjectPublicKeyInfo, error) {
	switch k := pub.(type) {
	case *ecdsa.PublicKey:
		var curve *oid.ObjectIdentifier
		switch k.Curve {
		case elliptic.P256():
			curve = oid.NamedCurveP256
		case elliptic.P384():
			curve = oid.NamedCurveP384
		case elliptic.P521():
			curve = oid.NamedCurveP521
		default:
			return nil, fmt.Errorf("%w: curve %s", ErrUnsupportedAlgorithm, k.Curve.Params().Name)
		}
		point, err := k.ECDH()
		if err != nil {
			return nil, fmt.Errorf("invalid ECDSA public key: %w", err)
		}
		alg, err := x509der.ECPublicKeyAlgorithm(curve)
		if err != nil {
			return nil, err
		}
		return &x509der.SubjectPublicKeyInfo{Algorithm: alg, PublicKey: point.Bytes()}, nil

	case ed25519.PublicKey:
		return &x509der.SubjectPublicKeyInfo{Algorithm: x509der.Algorithm(oid.Ed25519), PublicKey: []byte(k)}, nil

	case *mldsa44.PublicKey:
		return mldsaInfo(oid.MLDSA44, k.MarshalBinary)
	case *mldsa65.PublicKey:
		return mldsaInfo(oid.MLDSA65, k.MarshalBinary)
	case *mldsa87.PublicKey:
		return mldsaInfo(oid.MLDSA87, k.MarshalBinary)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedAlgorithm, pub)
}

func mldsaInfo(alg *oid.ObjectIdentifier, marshal func() ([]byte, error)) (*x509der.SubjectPublicKeyInfo, error) {
	b, err := marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ML-DSA public key: %w", err)
	}
	return &x509der.SubjectPublicKeyInfo{Algorithm: x509der.Algorithm(alg), PublicKey: b}, nil
}

// Sign signs message with the private key. ECDSA signatures hash the
// message with the digest matching the curve; Ed25519 and ML-DSA sign the
// message directly.
func (kp *KeyPair) Sign(message []byte) ([]byte, error) {
	switch priv := kp.PrivateKey.(type) {
	case *ecdsa.PrivateKey:
		var digest []byte
		if priv.Curve == elliptic.P384() {
			d := sha512.Sum384(message)
			digest = d[:]
		} else {
			d := sha256.Sum256(message)
			digest = d[:]
		}
		return ecdsa.SignASN1(rand.Reader, priv, digest)
	case ed25519.PrivateKey:
		return ed25519.Sign(priv, message), nil
	case *mldsa44.PrivateKey:
		return priv.Sign(rand.Reader, message, crypto.Hash(0))
	case *mldsa65.PrivateKey:
		return priv.Sign(rand.Reader, message, crypto.Hash(0))
	case *mldsa87.PrivateKey:
		return priv.Sign(rand.Reader, message, crypto.Hash(0))
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedAlgorithm, kp.PrivateKey)
}

// Verify checks a signature made by Sign.
func (kp *KeyPair) Verify(message, signature []byte) bool {
	switch pub := kp.PublicKey.(type) {
	case *ecdsa.PublicKey:
		if pub.Curve == elliptic.P384() {
			d := sha512.Sum384(message)
			return ecdsa.VerifyASN1(pub, d[:], signature)
		}
		d := sha256.Sum256(message)
		return ecdsa.VerifyASN1(pub, d[:], signature)
	case ed25519.PublicKey:
		return ed25519.Verify(pub, message, signature)
	case *mldsa44.PublicKey:
		return mldsa44.Verify(pub, message, nil, signature)
	case *mldsa65.PublicKey:
		return mldsa65.Verify(pub, message, nil, signature)
	case *mldsa87.PublicKey:
		return mldsa87.Verify(pub, message, nil, signature)
	}
	return false
}

// ParseSPKIPEM decodes the first PUBLIC KEY block of data.
func ParseSPKIPEM(data []byte) (*x509der.SubjectPublicKeyInfo, error) {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil, errors.New("no PUBLIC KEY block found")
		}
		if block.Type != "PUBLIC KEY" {
			continue
		}
		spki := &x509der.SubjectPublicKeyInfo{Raw: block.Bytes}
		if _, err := spki.Encode(); err != nil {
			return nil, fmt.Errorf("invalid public key: %w", err)
		}
		return spki, nil
	}
}

// LoadSPKIFromPEM reads a PEM encoded SubjectPublicKeyInfo from path.
func LoadSPKIFromPEM(path string) (*x509der.SubjectPublicKeyInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	spki, err := ParseSPKIPEM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spki, nil
}

// EncodeSPKIPEM returns spki as a PUBLIC KEY PEM block.
func EncodeSPKIPEM(spki *x509der.SubjectPublicKeyInfo) ([]byte, error) {
	b, err := spki.Encode()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: b}), nil
}
