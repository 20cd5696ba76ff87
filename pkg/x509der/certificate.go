package x509der

import (
	"github.com/remiblancher/qder/pkg/der"
)

// AssembleCertificate wraps signed bytes into the outer SEQUENCE shared by
// Certificate and CertificateList: the to-be-signed structure, the signature
// algorithm and the signature as a byte-aligned BIT STRING.
func AssembleCertificate(tbs []byte, alg AlgorithmIdentifier, signature []byte) ([]byte, error) {
	algDER, err := alg.Encode()
	if err != nil {
		return nil, NewError("assemble", err)
	}
	e := der.NewWithCapacity(len(tbs) + len(algDER) + len(signature) + 16)
	err = e.PutConstructed(der.TagSequence, func(c *der.Encoder) error {
		if err := c.PutRaw(tbs); err != nil {
			return err
		}
		if err := c.PutRaw(algDER); err != nil {
			return err
		}
		c.PutBitString(signature)
		return c.Err()
	})
	if err != nil {
		return nil, NewError("assemble", err)
	}
	return e.Bytes()
}
