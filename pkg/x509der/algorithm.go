package x509der

import (
	"fmt"

	"github.com/remiblancher/qder/pkg/der"
	"github.com/remiblancher/qder/pkg/oid"
)

// AlgorithmIdentifier is the RFC 5280 AlgorithmIdentifier.
type AlgorithmIdentifier struct {
	Algorithm *oid.ObjectIdentifier

	// Parameters is one complete DER element, or nil when absent.
	Parameters []byte

	// NullParams writes an explicit NULL when Parameters is nil.
	NullParams bool
}

// Algorithm returns the identifier conventionally used for o: RSA
// algorithms carry NULL parameters, all others carry none.
func Algorithm(o *oid.ObjectIdentifier) AlgorithmIdentifier {
	return AlgorithmIdentifier{Algorithm: o, NullParams: needsNullParams(o)}
}

// ECPublicKeyAlgorithm returns id-ecPublicKey with a named curve parameter.
func ECPublicKeyAlgorithm(curve *oid.ObjectIdentifier) (AlgorithmIdentifier, error) {
	params, err := curve.MarshalDER()
	if err != nil {
		return AlgorithmIdentifier{}, err
	}
	return AlgorithmIdentifier{Algorithm: oid.ECPublicKey, Parameters: params}, nil
}

func needsNullParams(o *oid.ObjectIdentifier) bool {
	switch {
	case o.Equal(oid.RSAEncryption), o.Equal(oid.SHA256WithRSA), o.Equal(oid.SHA384WithRSA), o.Equal(oid.SHA512WithRSA):
		return true
	}
	return false
}

// Encode returns the DER SEQUENCE.
func (a AlgorithmIdentifier) Encode() ([]byte, error) {
	if a.Algorithm == nil {
		return nil, fmt.Errorf("%w: algorithm identifier without OID", ErrMissingField)
	}
	e := der.New()
	err := e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := c.PutObjectIdentifier(a.Algorithm.Bytes()); err != nil {
			return err
		}
		switch {
		case a.Parameters != nil:
			return c.PutRaw(a.Parameters)
		case a.NullParams:
			c.PutNull()
		}
		return c.Err()
	})
	if err != nil {
		return nil, err
	}
	return e.Bytes()
}

// SubjectPublicKeyInfo is the RFC 5280 SubjectPublicKeyInfo. When Raw is set
// it is used verbatim and the other fields are ignored.
type SubjectPublicKeyInfo struct {
	Algorithm AlgorithmIdentifier
	PublicKey []byte
	Raw       []byte
}

// Encode returns the DER SEQUENCE.
func (s *SubjectPublicKeyInfo) Encode() ([]byte, error) {
	if s.Raw != nil {
		tag, _, rest, err := der.ReadElement(s.Raw)
		if err != nil {
			return nil, err
		}
		if tag != der.TagSequence || len(rest) != 0 {
			return nil, fmt.Errorf("%w: raw subjectPublicKeyInfo is not a single SEQUENCE", ErrInvalidField)
		}
		return s.Raw, nil
	}
	if len(s.PublicKey) == 0 {
		return nil, fmt.Errorf("%w: empty public key", ErrMissingField)
	}
	alg, err := s.Algorithm.Encode()
	if err != nil {
		return nil, err
	}
	e := der.New()
	err = e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := c.PutRaw(alg); err != nil {
			return err
		}
		c.PutBitString(s.PublicKey)
		return c.Err()
	})
	if err != nil {
		return nil, err
	}
	return e.Bytes()
}

// KeyBytes returns the subjectPublicKey bits. For a Raw value the BIT STRING
// is extracted from the encoding.
func (s *SubjectPublicKeyInfo) KeyBytes() ([]byte, error) {
	if s.Raw == nil {
		return s.PublicKey, nil
	}
	content, _, err := der.ReadExpected(s.Raw, der.TagSequence)
	if err != nil {
		return nil, err
	}
	_, _, rest, err := der.ReadElement(content)
	if err != nil {
		return nil, err
	}
	bits, _, err := der.ReadExpected(rest, der.TagBitString)
	if err != nil {
		return nil, err
	}
	if len(bits) == 0 || bits[0] != 0 {
		return nil, fmt.Errorf("%w: public key BIT STRING is not byte aligned", der.ErrUnsupported)
	}
	return bits[1:], nil
}
