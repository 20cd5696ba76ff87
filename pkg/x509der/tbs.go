package x509der

import (
	"fmt"
	"math/big"
	"time"

	"github.com/remiblancher/qder/pkg/der"
)

// Certificate versions as encoded in the version field.
const (
	V1 = 0
	V2 = 1
	V3 = 2
)

// Validity is a certificate validity period.
type Validity struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// Encode returns the Validity SEQUENCE.
func (v *Validity) Encode() ([]byte, error) {
	if v.NotAfter.Before(v.NotBefore) {
		return nil, fmt.Errorf("%w: notAfter %s is before notBefore %s",
			ErrInvalidField, v.NotAfter.UTC().Format(time.RFC3339), v.NotBefore.UTC().Format(time.RFC3339))
	}
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := putTime(c, v.NotBefore); err != nil {
			return err
		}
		return putTime(c, v.NotAfter)
	})
	if err != nil {
		return nil, err
	}
	return e.Bytes()
}

// putTime writes UTCTime for years 1950 through 2049 and GeneralizedTime
// otherwise (RFC 5280 §4.1.2.5).
func putTime(e *der.Encoder, t time.Time) error {
	if y := t.UTC().Year(); y >= 1950 && y < 2050 {
		return e.PutUTCTime(t)
	}
	return e.PutGeneralizedTime(t)
}

// TBSCertificate is the to-be-signed part of an X.509 certificate.
type TBSCertificate struct {
	Version              int // V1, V2 or V3
	SerialNumber         *big.Int
	Signature            *AlgorithmIdentifier
	Issuer               Name
	Validity             *Validity
	Subject              Name
	SubjectPublicKeyInfo *SubjectPublicKeyInfo
	IssuerUniqueID       []byte
	SubjectUniqueID      []byte
	Extensions           []Extension
}

// Has reports whether f is set. The version field counts as set only when
// it is encoded, that is for v2 and v3.
func (t *TBSCertificate) Has(f Field) bool {
	switch f {
	case FieldVersion:
		return t.Version != V1
	case FieldSerialNumber:
		return t.SerialNumber != nil
	case FieldSignature:
		return t.Signature != nil
	case FieldIssuer:
		return t.Issuer != nil
	case FieldValidity:
		return t.Validity != nil
	case FieldSubject:
		return t.Subject != nil
	case FieldSubjectPublicKeyInfo:
		return t.SubjectPublicKeyInfo != nil
	case FieldIssuerUniqueID:
		return t.IssuerUniqueID != nil
	case FieldSubjectUniqueID:
		return t.SubjectUniqueID != nil
	case FieldExtensions:
		return len(t.Extensions) > 0
	}
	return false
}

// Validate checks required fields and version constraints.
func (t *TBSCertificate) Validate() error {
	for _, f := range requiredFields {
		if !t.Has(f) {
			return NewFieldError("tbs", f, ErrMissingField)
		}
	}
	if t.Version < V1 || t.Version > V3 {
		return NewFieldError("tbs", FieldVersion, fmt.Errorf("%w: version %d", ErrInvalidField, t.Version))
	}
	if t.SerialNumber.Sign() <= 0 {
		return NewFieldError("tbs", FieldSerialNumber, fmt.Errorf("%w: serial number must be positive", ErrInvalidField))
	}
	if (t.Has(FieldIssuerUniqueID) || t.Has(FieldSubjectUniqueID)) && t.Version == V1 {
		return NewFieldError("tbs", FieldIssuerUniqueID, fmt.Errorf("%w: unique identifiers need v2 or v3", ErrInvalidField))
	}
	if t.Has(FieldExtensions) && t.Version != V3 {
		return NewFieldError("tbs", FieldExtensions, fmt.Errorf("%w: extensions need v3", ErrInvalidField))
	}
	return nil
}

// Encode returns the DER TBSCertificate SEQUENCE. Each field is written in
// a temporary encoder and then wrapped, in ASN.1 order.
func (t *TBSCertificate) Encode() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	e := der.NewWithCapacity(1024)
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		for _, f := range AllFields() {
			if !t.Has(f) {
				continue
			}
			if err := t.encodeField(c, f); err != nil {
				return NewFieldError("tbs", f, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.Bytes()
}

func (t *TBSCertificate) encodeField(c *der.Encoder, f Field) error {
	switch f {
	case FieldVersion:
		return c.PutConstructed(der.ContextTag(0, true), func(v *der.Encoder) error {
			v.PutInteger(int64(t.Version))
			return v.Err()
		})
	case FieldSerialNumber:
		return c.PutBigInt(t.SerialNumber)
	case FieldSignature:
		return putEncoded(c, t.Signature.Encode)
	case FieldIssuer:
		return putEncoded(c, t.Issuer.Encode)
	case FieldValidity:
		return putEncoded(c, t.Validity.Encode)
	case FieldSubject:
		return putEncoded(c, t.Subject.Encode)
	case FieldSubjectPublicKeyInfo:
		return putEncoded(c, t.SubjectPublicKeyInfo.Encode)
	case FieldIssuerUniqueID:
		return putUniqueID(c, 1, t.IssuerUniqueID)
	case FieldSubjectUniqueID:
		return putUniqueID(c, 2, t.SubjectUniqueID)
	case FieldExtensions:
		return c.PutConstructed(der.ContextTag(3, true), func(x *der.Encoder) error {
			return putEncoded(x, func() ([]byte, error) { return encodeExtensions(t.Extensions) })
		})
	}
	return fmt.Errorf("%w: unknown field %d", ErrInvalidField, f)
}

// putEncoded appends the element produced by encode.
func putEncoded(c *der.Encoder, encode func() ([]byte, error)) error {
	b, err := encode()
	if err != nil {
		return err
	}
	return c.PutRaw(b)
}

// putUniqueID writes a byte-aligned BIT STRING re-tagged [n] IMPLICIT.
func putUniqueID(c *der.Encoder, n int, id []byte) error {
	tmp := der.New()
	tmp.PutBitString(id)
	b, err := tmp.Bytes()
	if err != nil {
		return err
	}
	return c.WriteImplicit(der.ContextTag(n, false), b)
}
