package x509der

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"net"

	"github.com/remiblancher/qder/pkg/der"
	"github.com/remiblancher/qder/pkg/oid"
)

// Extension is an X.509 extension. Value holds the DER encoding carried in
// the extnValue OCTET STRING.
type Extension struct {
	ID       *oid.ObjectIdentifier
	Critical bool
	Value    []byte
}

// Encode returns the Extension SEQUENCE. critical is omitted when false
// (DEFAULT FALSE).
func (x Extension) Encode() ([]byte, error) {
	if x.ID == nil {
		return nil, fmt.Errorf("%w: extension without OID", ErrMissingField)
	}
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := c.PutObjectIdentifier(x.ID.Bytes()); err != nil {
			return err
		}
		if x.Critical {
			c.PutBoolean(true)
		}
		c.PutOctetString(x.Value)
		return c.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("encoding extension %s: %w", attrLabel(x.ID), err)
	}
	return e.Bytes()
}

// encodeExtensions returns the Extensions SEQUENCE OF.
func encodeExtensions(exts []Extension) ([]byte, error) {
	seen := make(map[string]bool, len(exts))
	items := make([][]byte, 0, len(exts))
	for _, x := range exts {
		if x.ID != nil {
			if seen[x.ID.Key()] {
				return nil, fmt.Errorf("%w: duplicate extension %s", ErrInvalidField, attrLabel(x.ID))
			}
			seen[x.ID.Key()] = true
		}
		b, err := x.Encode()
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	e := der.New()
	if err := e.PutSequence(items...); err != nil {
		return nil, err
	}
	return e.Bytes()
}

// BasicConstraints returns a critical basicConstraints extension. A negative
// maxPathLen omits the path length constraint.
func BasicConstraints(isCA bool, maxPathLen int) (Extension, error) {
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if isCA {
			c.PutBoolean(true)
			if maxPathLen >= 0 {
				c.PutInteger(int64(maxPathLen))
			}
		}
		return c.Err()
	})
	if err != nil {
		return Extension{}, err
	}
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtBasicConstraints, Critical: true, Value: v}, nil
}

// AltNames lists subject alternative names.
type AltNames struct {
	DNSNames       []string
	EmailAddresses []string
	URIs           []string
	IPAddresses    []net.IP
}

// Empty reports whether no name is set.
func (a AltNames) Empty() bool {
	return len(a.DNSNames)+len(a.EmailAddresses)+len(a.URIs)+len(a.IPAddresses) == 0
}

// GeneralName context tags (RFC 5280 §4.2.1.6).
const (
	gnRFC822Name = 1
	gnDNSName    = 2
	gnURI        = 6
	gnIPAddress  = 7
)

// SubjectAltName returns a subjectAltName extension. The extension is marked
// critical when critical is true, as RFC 5280 requires for an empty subject.
func SubjectAltName(names AltNames, critical bool) (Extension, error) {
	if names.Empty() {
		return Extension{}, fmt.Errorf("%w: subjectAltName without names", ErrInvalidField)
	}
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		for _, email := range names.EmailAddresses {
			if err := putIA5Implicit(c, gnRFC822Name, email); err != nil {
				return err
			}
		}
		for _, dns := range names.DNSNames {
			if err := putIA5Implicit(c, gnDNSName, dns); err != nil {
				return err
			}
		}
		for _, uri := range names.URIs {
			if err := putIA5Implicit(c, gnURI, uri); err != nil {
				return err
			}
		}
		for _, ip := range names.IPAddresses {
			b := ip.To4()
			if b == nil {
				b = ip.To16()
			}
			if b == nil {
				return fmt.Errorf("%w: invalid IP address %v", ErrInvalidField, ip)
			}
			if err := c.WriteTagged(der.ContextTag(gnIPAddress, false), b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Extension{}, err
	}
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtSubjectAltName, Critical: critical, Value: v}, nil
}

// putIA5Implicit writes s as an IA5String re-tagged [n] IMPLICIT.
func putIA5Implicit(c *der.Encoder, n int, s string) error {
	tmp := der.New()
	if err := tmp.PutIA5String(s); err != nil {
		return err
	}
	b, err := tmp.Bytes()
	if err != nil {
		return err
	}
	return c.WriteImplicit(der.ContextTag(n, false), b)
}

// ExtendedKeyUsage returns an extKeyUsage extension.
func ExtendedKeyUsage(purposes ...*oid.ObjectIdentifier) (Extension, error) {
	if len(purposes) == 0 {
		return Extension{}, fmt.Errorf("%w: extKeyUsage without purposes", ErrInvalidField)
	}
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		for _, p := range purposes {
			if p == nil {
				return fmt.Errorf("%w: nil key purpose", ErrInvalidField)
			}
			if err := c.PutObjectIdentifier(p.Bytes()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Extension{}, err
	}
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtExtKeyUsage, Value: v}, nil
}

// KeyIdentifier derives a key identifier from a public key: the first 160
// bits of its SHA-256 digest.
func KeyIdentifier(spki *SubjectPublicKeyInfo) ([]byte, error) {
	key, err := spki.KeyBytes()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(key)
	return sum[:20], nil
}

// SubjectKeyIdentifier returns a subjectKeyIdentifier extension for spki.
func SubjectKeyIdentifier(spki *SubjectPublicKeyInfo) (Extension, error) {
	id, err := KeyIdentifier(spki)
	if err != nil {
		return Extension{}, err
	}
	e := der.New()
	e.PutOctetString(id)
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtSubjectKeyID, Value: v}, nil
}

// AuthorityKeyIdentifier returns an authorityKeyIdentifier extension holding
// only the keyIdentifier field.
func AuthorityKeyIdentifier(keyID []byte) (Extension, error) {
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		tmp := der.New()
		tmp.PutOctetString(keyID)
		b, err := tmp.Bytes()
		if err != nil {
			return err
		}
		return c.WriteImplicit(der.ContextTag(0, false), b)
	})
	if err != nil {
		return Extension{}, err
	}
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtAuthorityKeyID, Value: v}, nil
}

// CRLNumber returns a cRLNumber extension.
func CRLNumber(n *big.Int) (Extension, error) {
	if n == nil || n.Sign() < 0 {
		return Extension{}, fmt.Errorf("%w: CRL number must be non-negative", ErrInvalidField)
	}
	e := der.New()
	if err := e.PutBigInt(n); err != nil {
		return Extension{}, err
	}
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtCRLNumber, Value: v}, nil
}

// ReasonCode returns a CRL entry reasonCode extension.
func ReasonCode(code int) (Extension, error) {
	if code < 0 || code > 10 || code == 7 {
		return Extension{}, fmt.Errorf("%w: reason code %d", ErrInvalidField, code)
	}
	e := der.New()
	e.PutEnumerated(int64(code))
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtReasonCode, Value: v}, nil
}

// KeyUsage would return a keyUsage extension. Its named bit list needs a BIT
// STRING with unused trailing bits, which the encoder does not produce.
func KeyUsage(bits []byte, unused int) (Extension, error) {
	e := der.New()
	if err := e.PutBitStringUnaligned(bits, unused); err != nil {
		return Extension{}, err
	}
	v, err := e.Bytes()
	if err != nil {
		return Extension{}, err
	}
	return Extension{ID: oid.ExtKeyUsage, Critical: true, Value: v}, nil
}
