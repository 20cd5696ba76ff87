package x509der

import (
	"fmt"
	"math/big"
	"time"

	"github.com/remiblancher/qder/pkg/der"
)

// RevokedCertificate is one entry of revokedCertificates.
type RevokedCertificate struct {
	SerialNumber   *big.Int
	RevocationDate time.Time
	Extensions     []Extension
}

func (r RevokedCertificate) encode() ([]byte, error) {
	if r.SerialNumber == nil {
		return nil, fmt.Errorf("%w: revoked certificate without serial number", ErrMissingField)
	}
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := c.PutBigInt(r.SerialNumber); err != nil {
			return err
		}
		if err := putTime(c, r.RevocationDate); err != nil {
			return err
		}
		if len(r.Extensions) > 0 {
			return putEncoded(c, func() ([]byte, error) { return encodeExtensions(r.Extensions) })
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e.Bytes()
}

// TBSCertList is the to-be-signed part of a version 2 CRL.
type TBSCertList struct {
	Signature           *AlgorithmIdentifier
	Issuer              Name
	ThisUpdate          time.Time
	NextUpdate          time.Time // zero time omits nextUpdate
	RevokedCertificates []RevokedCertificate
	Extensions          []Extension
}

// Encode returns the DER TBSCertList SEQUENCE.
func (l *TBSCertList) Encode() ([]byte, error) {
	if l.Signature == nil {
		return nil, NewFieldError("crl", FieldSignature, ErrMissingField)
	}
	if l.Issuer == nil {
		return nil, NewFieldError("crl", FieldIssuer, ErrMissingField)
	}
	if l.ThisUpdate.IsZero() {
		return nil, &Error{Op: "crl", Field: "thisUpdate", Err: ErrMissingField}
	}
	if !l.NextUpdate.IsZero() && l.NextUpdate.Before(l.ThisUpdate) {
		return nil, &Error{Op: "crl", Field: "nextUpdate", Err: fmt.Errorf("%w: nextUpdate before thisUpdate", ErrInvalidField)}
	}

	e := der.NewWithCapacity(256 + 48*len(l.RevokedCertificates))
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		c.PutInteger(V2)
		if err := putEncoded(c, l.Signature.Encode); err != nil {
			return err
		}
		if err := putEncoded(c, l.Issuer.Encode); err != nil {
			return err
		}
		if err := putTime(c, l.ThisUpdate); err != nil {
			return err
		}
		if !l.NextUpdate.IsZero() {
			if err := putTime(c, l.NextUpdate); err != nil {
				return err
			}
		}
		if len(l.RevokedCertificates) > 0 {
			err := c.PutConstructed(der.TagSequence, func(r *der.Encoder) error {
				for i, rc := range l.RevokedCertificates {
					b, err := rc.encode()
					if err != nil {
						return fmt.Errorf("revoked certificate %d: %w", i, err)
					}
					if err := r.PutRaw(b); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		if len(l.Extensions) > 0 {
			return c.PutConstructed(der.ContextTag(0, true), func(x *der.Encoder) error {
				return putEncoded(x, func() ([]byte, error) { return encodeExtensions(l.Extensions) })
			})
		}
		return nil
	})
	if err != nil {
		return nil, NewError("crl", err)
	}
	return e.Bytes()
}
