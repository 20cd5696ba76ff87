package template

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/qder/pkg/oid"
	"github.com/remiblancher/qder/pkg/x509der"
)

// CRLTemplate is the YAML description of a version 2 CRL.
//
//	signature_algorithm: ecdsa-with-SHA256
//	issuer: { CN: Root CA }
//	this_update: now
//	next_update: 7d
//	crl_number: 42
//	revoked:
//	  - { serial: "0x1F", date: "2025-01-02T00:00:00Z", reason: keyCompromise }
type CRLTemplate struct {
	SignatureAlgorithm string         `yaml:"signature_algorithm"`
	Issuer             *NameTemplate  `yaml:"issuer"`
	ThisUpdate         string         `yaml:"this_update,omitempty"`      // "now" or RFC 3339
	NextUpdate         string         `yaml:"next_update,omitempty"`      // RFC 3339 or a duration after this_update
	CRLNumber          string         `yaml:"crl_number,omitempty"`       // decimal or 0x hex
	AuthorityKeyID     string         `yaml:"authority_key_id,omitempty"` // hex
	Revoked            []RevokedEntry `yaml:"revoked,omitempty"`
}

// RevokedEntry is one revoked certificate.
type RevokedEntry struct {
	Serial string `yaml:"serial"`
	Date   string `yaml:"date,omitempty"`   // defaults to this_update
	Reason string `yaml:"reason,omitempty"` // RFC 5280 name or number
}

// reasonCodes are the CRLReason values of RFC 5280 §5.3.1.
var reasonCodes = map[string]int{
	"unspecified":          0,
	"keycompromise":        1,
	"cacompromise":         2,
	"affiliationchanged":   3,
	"superseded":           4,
	"cessationofoperation": 5,
	"certificatehold":      6,
	"removefromcrl":        8,
	"privilegewithdrawn":   9,
	"aacompromise":         10,
}

// ParseReason accepts a CRLReason name in any case, or its number.
func ParseReason(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if _, err := x509der.ReasonCode(n); err != nil {
			return 0, err
		}
		return n, nil
	}
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
	if n, ok := reasonCodes[key]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("unknown revocation reason %q", s)
}

// LoadCRLFromFile reads a CRL template from a YAML file.
func LoadCRLFromFile(path string) (*CRLTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewTemplateError(path, fmt.Errorf("failed to read template file: %w", err))
	}
	t, err := LoadCRLFromBytes(data)
	if err != nil {
		return nil, NewTemplateError(path, err)
	}
	return t, nil
}

// LoadCRLFromBytes parses and validates a CRL template.
func LoadCRLFromBytes(data []byte) (*CRLTemplate, error) {
	var t CRLTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrMalformedTemplate, err)
	}
	if _, err := t.Build(time.Now()); err != nil {
		return nil, err
	}
	return &t, nil
}

// Build turns the template into a TBSCertList. now anchors "now" and
// relative next_update values.
func (t *CRLTemplate) Build(now time.Time) (*x509der.TBSCertList, error) {
	if t.SignatureAlgorithm == "" {
		return nil, NewValidationError("signature_algorithm", "", "is required")
	}
	sigOID, err := oid.Resolve(t.SignatureAlgorithm)
	if err != nil {
		return nil, NewValidationError("signature_algorithm", t.SignatureAlgorithm, "unknown algorithm name or invalid OID")
	}
	sig := x509der.Algorithm(sigOID)

	if t.Issuer == nil {
		return nil, NewValidationError("issuer", "", "is required")
	}
	issuer, err := t.Issuer.Name("issuer")
	if err != nil {
		return nil, err
	}

	thisUpdate, err := parseTime("this_update", t.ThisUpdate, now)
	if err != nil {
		return nil, err
	}
	var nextUpdate time.Time
	if t.NextUpdate != "" {
		if ts, err := time.Parse(time.RFC3339, t.NextUpdate); err == nil {
			nextUpdate = ts.UTC()
		} else if d, err := ParseDuration(t.NextUpdate); err == nil {
			nextUpdate = thisUpdate.Add(d)
		} else {
			return nil, NewValidationError("next_update", t.NextUpdate, "must be RFC 3339 or a duration")
		}
		if !nextUpdate.After(thisUpdate) {
			return nil, NewValidationError("next_update", t.NextUpdate, "must be after this_update")
		}
	}

	list := &x509der.TBSCertList{
		Signature:  &sig,
		Issuer:     issuer,
		ThisUpdate: thisUpdate,
		NextUpdate: nextUpdate,
	}

	if t.AuthorityKeyID != "" {
		id, err := hex.DecodeString(t.AuthorityKeyID)
		if err != nil || len(id) == 0 {
			return nil, NewValidationError("authority_key_id", t.AuthorityKeyID, "must be non-empty hex")
		}
		ext, err := x509der.AuthorityKeyIdentifier(id)
		if err != nil {
			return nil, NewValidationError("authority_key_id", t.AuthorityKeyID, err.Error())
		}
		list.Extensions = append(list.Extensions, ext)
	}
	if t.CRLNumber != "" {
		n, ok := new(big.Int), false
		if h, found := strings.CutPrefix(strings.ToLower(t.CRLNumber), "0x"); found {
			_, ok = n.SetString(h, 16)
		} else {
			_, ok = n.SetString(t.CRLNumber, 10)
		}
		if !ok {
			return nil, NewValidationError("crl_number", t.CRLNumber, "must be decimal or 0x-prefixed hex")
		}
		ext, err := x509der.CRLNumber(n)
		if err != nil {
			return nil, NewValidationError("crl_number", t.CRLNumber, err.Error())
		}
		list.Extensions = append(list.Extensions, ext)
	}

	seen := make(map[string]bool, len(t.Revoked))
	for i, r := range t.Revoked {
		field := fmt.Sprintf("revoked[%d]", i)
		serial, err := parseSerial(field+".serial", r.Serial)
		if err != nil {
			return nil, err
		}
		if seen[serial.String()] {
			return nil, NewValidationError(field+".serial", r.Serial, "duplicate serial number")
		}
		seen[serial.String()] = true

		date := thisUpdate
		if r.Date != "" {
			if date, err = parseTime(field+".date", r.Date, now); err != nil {
				return nil, err
			}
		}
		entry := x509der.RevokedCertificate{SerialNumber: serial, RevocationDate: date}
		if r.Reason != "" {
			code, err := ParseReason(r.Reason)
			if err != nil {
				return nil, NewValidationError(field+".reason", r.Reason, err.Error())
			}
			ext, _ := x509der.ReasonCode(code)
			entry.Extensions = []x509der.Extension{ext}
		}
		list.RevokedCertificates = append(list.RevokedCertificates, entry)
	}
	return list, nil
}
