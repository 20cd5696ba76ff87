package template

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/qder/internal/keys"
	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

// Template is the YAML description of a certificate.
//
//	version: 3
//	serial: random
//	subject:
//	  CN: www.example.com
//	  C: { value: FR, encoding: printable }
//	validity:
//	  not_before: now
//	  duration: 365d
//	key:
//	  algorithm: ml-dsa-65
//	extensions:
//	  subject_alt_name:
//	    dns: [www.example.com]
//	  ext_key_usage: [serverAuth]
type Template struct {
	Version            int               `yaml:"version,omitempty"`
	Serial             string            `yaml:"serial,omitempty"`
	SignatureAlgorithm string            `yaml:"signature_algorithm,omitempty"`
	Issuer             *NameTemplate     `yaml:"issuer,omitempty"`
	Subject            *NameTemplate     `yaml:"subject"`
	Validity           ValidityTemplate  `yaml:"validity"`
	Key                KeyTemplate       `yaml:"key"`
	IssuerUniqueID     string            `yaml:"issuer_unique_id,omitempty"`
	SubjectUniqueID    string            `yaml:"subject_unique_id,omitempty"`
	Extensions         *ExtensionsConfig `yaml:"extensions,omitempty"`
	Wildcard           *WildcardPolicy   `yaml:"wildcard,omitempty"`

	// source is the file the template was read from.
	source string
}

// ValidityTemplate describes the validity period. not_after and duration
// are mutually exclusive.
type ValidityTemplate struct {
	NotBefore string `yaml:"not_before,omitempty"` // "now" or RFC 3339
	NotAfter  string `yaml:"not_after,omitempty"`  // RFC 3339
	Duration  string `yaml:"duration,omitempty"`   // e.g. "8760h", "365d", "1y"
}

// KeyTemplate selects the subject public key: either a freshly generated
// key or a PEM file.
type KeyTemplate struct {
	Algorithm    string `yaml:"algorithm,omitempty"`
	PublicKeyPEM string `yaml:"public_key_pem,omitempty"`
}

// ExtensionsConfig lists the extensions to add, in this order.
type ExtensionsConfig struct {
	BasicConstraints *BasicConstraintsConfig `yaml:"basic_constraints,omitempty"`
	SubjectKeyID     bool                    `yaml:"subject_key_id,omitempty"`
	AuthorityKeyID   string                  `yaml:"authority_key_id,omitempty"` // hex
	SubjectAltName   *SubjectAltNameConfig   `yaml:"subject_alt_name,omitempty"`
	ExtKeyUsage      []string                `yaml:"ext_key_usage,omitempty"`
	Custom           []CustomExtension       `yaml:"custom,omitempty"`
}

// BasicConstraintsConfig configures basicConstraints. A nil PathLen leaves
// the path length unconstrained.
type BasicConstraintsConfig struct {
	CA      bool `yaml:"ca"`
	PathLen *int `yaml:"path_len,omitempty"`
}

// SubjectAltNameConfig configures subjectAltName.
type SubjectAltNameConfig struct {
	DNS   []string `yaml:"dns,omitempty"`
	Email []string `yaml:"email,omitempty"`
	URI   []string `yaml:"uri,omitempty"`
	IP    []string `yaml:"ip,omitempty"`
}

// CustomExtension is an extension given as a pre-encoded DER value.
type CustomExtension struct {
	ID       *oid.ObjectIdentifier `yaml:"id"`
	Critical bool                  `yaml:"critical,omitempty"`
	Value    string                `yaml:"value"` // hex DER
}

// LoadFromFile reads a template from a YAML file. A relative
// public_key_pem path is resolved against the template directory.
func LoadFromFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewTemplateError(path, fmt.Errorf("failed to read template file: %w", err))
	}
	t, err := parse(data)
	if err != nil {
		return nil, NewTemplateError(path, err)
	}
	t.source = path
	return t, nil
}

// LoadFromBytes parses and validates a template.
func LoadFromBytes(data []byte) (*Template, error) {
	t, err := parse(data)
	if err != nil {
		return nil, NewTemplateError("", err)
	}
	return t, nil
}

func parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrMalformedTemplate, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Source returns the file the template was loaded from, if any.
func (t *Template) Source() string { return t.source }

// Validate checks every field that can be checked without generating or
// reading a key.
func (t *Template) Validate() error {
	if t.Version == 0 {
		t.Version = 3
	}
	if t.Version < 1 || t.Version > 3 {
		return NewValidationError("version", fmt.Sprint(t.Version), "must be 1, 2 or 3")
	}
	if t.Subject == nil {
		return NewValidationError("subject", "", "is required")
	}
	if _, err := t.Subject.Name("subject"); err != nil {
		return err
	}
	if t.Issuer != nil {
		if _, err := t.Issuer.Name("issuer"); err != nil {
			return err
		}
	}
	if _, err := t.serial(rand.Reader); err != nil {
		return err
	}
	if _, _, err := t.validity(time.Now()); err != nil {
		return err
	}

	switch {
	case t.Key.Algorithm != "" && t.Key.PublicKeyPEM != "":
		return NewValidationError("key", "", "algorithm and public_key_pem are mutually exclusive")
	case t.Key.Algorithm != "":
		if _, err := keys.ParseAlgorithm(t.Key.Algorithm); err != nil {
			return NewValidationError("key.algorithm", t.Key.Algorithm, "unsupported algorithm")
		}
	case t.Key.PublicKeyPEM == "":
		return NewValidationError("key", "", "algorithm or public_key_pem is required")
	}

	if t.SignatureAlgorithm != "" {
		if _, err := oid.Resolve(t.SignatureAlgorithm); err != nil {
			return NewValidationError("signature_algorithm", t.SignatureAlgorithm, "unknown algorithm name or invalid OID")
		}
	} else if t.Key.Algorithm == "" {
		return NewValidationError("signature_algorithm", "", "is required when the key is read from a file")
	}

	for _, f := range []struct {
		name, value string
	}{
		{"issuer_unique_id", t.IssuerUniqueID},
		{"subject_unique_id", t.SubjectUniqueID},
	} {
		if f.value == "" {
			continue
		}
		if t.Version == 1 {
			return NewValidationError(f.name, f.value, "unique identifiers need version 2 or 3")
		}
		if _, err := hex.DecodeString(f.value); err != nil {
			return NewValidationError(f.name, f.value, "must be hex")
		}
	}

	if t.Extensions != nil {
		if t.Version != 3 {
			return NewValidationError("extensions", "", "extensions need version 3")
		}
		// Key identifiers depend on the key, so only the static extensions
		// are checked here.
		if _, err := t.Extensions.static(t.Wildcard, len(t.Subject.Attributes) == 0); err != nil {
			return err
		}
	}
	return nil
}

// Result is a built certificate body. Key is set when the template
// generated the subject key.
type Result struct {
	TBS *x509der.TBSCertificate
	Key *keys.KeyPair
}

// BuildOptions controls Build.
type BuildOptions struct {
	// Now is the reference time for "now" and durations. Zero means time.Now.
	Now time.Time

	// Random is used for key generation and random serials. Nil means
	// crypto/rand.
	Random io.Reader
}

// Build turns the template into a TBSCertificate.
func (t *Template) Build(opts BuildOptions) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, NewTemplateError(t.source, err)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Random == nil {
		opts.Random = rand.Reader
	}

	res := &Result{TBS: &x509der.TBSCertificate{Version: t.Version - 1}}
	tbs := res.TBS
	fail := func(err error) (*Result, error) { return nil, NewTemplateError(t.source, err) }

	var err error
	if tbs.SerialNumber, err = t.serial(opts.Random); err != nil {
		return fail(err)
	}
	if tbs.Subject, err = t.Subject.Name("subject"); err != nil {
		return fail(err)
	}
	tbs.Issuer = tbs.Subject
	if t.Issuer != nil {
		if tbs.Issuer, err = t.Issuer.Name("issuer"); err != nil {
			return fail(err)
		}
	}
	notBefore, notAfter, err := t.validity(opts.Now)
	if err != nil {
		return fail(err)
	}
	tbs.Validity = &x509der.Validity{NotBefore: notBefore, NotAfter: notAfter}

	if t.Key.Algorithm != "" {
		alg, _ := keys.ParseAlgorithm(t.Key.Algorithm)
		kp, err := keys.GenerateWithRand(opts.Random, alg)
		if err != nil {
			return fail(err)
		}
		res.Key = kp
		tbs.SubjectPublicKeyInfo = kp.SPKI
	} else {
		path := t.Key.PublicKeyPEM
		if t.source != "" && !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(t.source), path)
		}
		if tbs.SubjectPublicKeyInfo, err = keys.LoadSPKIFromPEM(path); err != nil {
			return fail(err)
		}
	}

	if t.SignatureAlgorithm != "" {
		o, _ := oid.Resolve(t.SignatureAlgorithm)
		alg := x509der.Algorithm(o)
		tbs.Signature = &alg
	} else {
		alg, err := res.Key.Algorithm.SignatureAlgorithm()
		if err != nil {
			return fail(err)
		}
		tbs.Signature = &alg
	}

	if t.IssuerUniqueID != "" {
		tbs.IssuerUniqueID, _ = hex.DecodeString(t.IssuerUniqueID)
	}
	if t.SubjectUniqueID != "" {
		tbs.SubjectUniqueID, _ = hex.DecodeString(t.SubjectUniqueID)
	}

	if t.Extensions != nil {
		if tbs.Extensions, err = t.Extensions.build(tbs.SubjectPublicKeyInfo, t.Wildcard, len(tbs.Subject) == 0); err != nil {
			return fail(err)
		}
	}
	return res, nil
}

// serial parses the serial field: empty or "random" draws 128 random bits.
func (t *Template) serial(random io.Reader) (*big.Int, error) {
	s := strings.TrimSpace(t.Serial)
	if s == "" || strings.EqualFold(s, "random") {
		for {
			n, err := rand.Int(random, new(big.Int).Lsh(big.NewInt(1), 128))
			if err != nil {
				return nil, fmt.Errorf("failed to generate serial number: %w", err)
			}
			if n.Sign() > 0 {
				return n, nil
			}
		}
	}
	return parseSerial("serial", s)
}

// parseSerial accepts decimal or 0x-prefixed hex.
func parseSerial(field, s string) (*big.Int, error) {
	n, ok := new(big.Int), false
	if h, found := strings.CutPrefix(strings.ToLower(strings.TrimSpace(s)), "0x"); found {
		_, ok = n.SetString(h, 16)
	} else {
		_, ok = n.SetString(strings.TrimSpace(s), 10)
	}
	if !ok {
		return nil, NewValidationError(field, s, "must be decimal, 0x-prefixed hex or \"random\"")
	}
	if n.Sign() <= 0 {
		return nil, NewValidationError(field, s, "must be positive")
	}
	return n, nil
}

// parseTime accepts "now" or RFC 3339.
func parseTime(field, s string, now time.Time) (time.Time, error) {
	if s == "" || strings.EqualFold(s, "now") {
		return now.UTC().Truncate(time.Second), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, NewValidationError(field, s, "must be \"now\" or RFC 3339")
	}
	return ts.UTC(), nil
}

func (t *Template) validity(now time.Time) (time.Time, time.Time, error) {
	v := t.Validity
	notBefore, err := parseTime("validity.not_before", v.NotBefore, now)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	var notAfter time.Time
	switch {
	case v.NotAfter != "" && v.Duration != "":
		return time.Time{}, time.Time{}, NewValidationError("validity", "", "not_after and duration are mutually exclusive")
	case v.NotAfter != "":
		na, err := time.Parse(time.RFC3339, v.NotAfter)
		if err != nil {
			return time.Time{}, time.Time{}, NewValidationError("validity.not_after", v.NotAfter, "must be RFC 3339")
		}
		notAfter = na.UTC()
	case v.Duration != "":
		d, err := ParseDuration(v.Duration)
		if err != nil {
			return time.Time{}, time.Time{}, NewValidationError("validity.duration", v.Duration, err.Error())
		}
		notAfter = notBefore.Add(d)
	default:
		return time.Time{}, time.Time{}, NewValidationError("validity", "", "not_after or duration is required")
	}
	if !notAfter.After(notBefore) {
		return time.Time{}, time.Time{}, NewValidationError("validity", "", "not_after must be after not_before")
	}
	return notBefore, notAfter, nil
}

// static builds the extensions that do not depend on the key.
func (x *ExtensionsConfig) static(wildcard *WildcardPolicy, subjectEmpty bool) ([]x509der.Extension, error) {
	var exts []x509der.Extension
	if bc := x.BasicConstraints; bc != nil {
		pathLen := -1
		if bc.PathLen != nil {
			if !bc.CA {
				return nil, NewValidationError("extensions.basic_constraints.path_len", fmt.Sprint(*bc.PathLen), "only allowed for CA certificates")
			}
			pathLen = *bc.PathLen
		}
		ext, err := x509der.BasicConstraints(bc.CA, pathLen)
		if err != nil {
			return nil, NewValidationError("extensions.basic_constraints", "", err.Error())
		}
		exts = append(exts, ext)
	}

	if x.AuthorityKeyID != "" {
		id, err := hex.DecodeString(x.AuthorityKeyID)
		if err != nil || len(id) == 0 {
			return nil, NewValidationError("extensions.authority_key_id", x.AuthorityKeyID, "must be non-empty hex")
		}
		ext, err := x509der.AuthorityKeyIdentifier(id)
		if err != nil {
			return nil, NewValidationError("extensions.authority_key_id", x.AuthorityKeyID, err.Error())
		}
		exts = append(exts, ext)
	}

	if san := x.SubjectAltName; san != nil {
		names := x509der.AltNames{DNSNames: san.DNS, EmailAddresses: san.Email, URIs: san.URI}
		for _, d := range san.DNS {
			if err := ValidateDNSName(d); err != nil {
				return nil, NewValidationError("extensions.subject_alt_name.dns", d, err.Error())
			}
			if err := ValidateWildcard(d, wildcard); err != nil {
				return nil, NewValidationError("extensions.subject_alt_name.dns", d, err.Error())
			}
		}
		for _, s := range san.IP {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, NewValidationError("extensions.subject_alt_name.ip", s, "invalid IP address")
			}
			names.IPAddresses = append(names.IPAddresses, ip)
		}
		if names.Empty() {
			return nil, NewValidationError("extensions.subject_alt_name", "", "at least one name is required")
		}
		ext, err := x509der.SubjectAltName(names, subjectEmpty)
		if err != nil {
			return nil, NewValidationError("extensions.subject_alt_name", "", err.Error())
		}
		exts = append(exts, ext)
	}

	if len(x.ExtKeyUsage) > 0 {
		purposes := make([]*oid.ObjectIdentifier, 0, len(x.ExtKeyUsage))
		for _, name := range x.ExtKeyUsage {
			o, err := oid.Resolve(name)
			if err != nil {
				return nil, NewValidationError("extensions.ext_key_usage", name, "unknown purpose name or invalid OID")
			}
			purposes = append(purposes, o)
		}
		ext, err := x509der.ExtendedKeyUsage(purposes...)
		if err != nil {
			return nil, NewValidationError("extensions.ext_key_usage", "", err.Error())
		}
		exts = append(exts, ext)
	}

	for i, c := range x.Custom {
		field := fmt.Sprintf("extensions.custom[%d]", i)
		if c.ID == nil || c.ID.String() == "" {
			return nil, NewValidationError(field+".id", "", "is required")
		}
		value, err := hex.DecodeString(c.Value)
		if err != nil || len(value) == 0 {
			return nil, NewValidationError(field+".value", c.Value, "must be non-empty hex DER")
		}
		exts = append(exts, x509der.Extension{ID: c.ID, Critical: c.Critical, Value: value})
	}
	return exts, nil
}

// build returns all extensions: basicConstraints and the key identifiers
// first, then the static ones in declaration order.
func (x *ExtensionsConfig) build(spki *x509der.SubjectPublicKeyInfo, wildcard *WildcardPolicy, subjectEmpty bool) ([]x509der.Extension, error) {
	static, err := x.static(wildcard, subjectEmpty)
	if err != nil {
		return nil, err
	}
	if !x.SubjectKeyID {
		return static, nil
	}
	skid, err := x509der.SubjectKeyIdentifier(spki)
	if err != nil {
		return nil, fmt.Errorf("subject key identifier: %w", err)
	}
	n := 0
	if x.BasicConstraints != nil {
		n = 1
	}
	exts := make([]x509der.Extension, 0, len(static)+1)
	exts = append(exts, static[:n]...)
	exts = append(exts, skid)
	return append(exts, static[n:]...), nil
}
