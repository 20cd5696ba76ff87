package x509der

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net"
	"time"

	"github.com/remiblancher/qder/pkg/oid"
)

// CertificateBuilder assembles a TBSCertificate.
type CertificateBuilder struct {
	tbs        TBSCertificate
	altNames   AltNames
	purposes   []*oid.ObjectIdentifier
	isCA       bool
	maxPathLen int
	basic      bool
	skid       bool
	extra      []Extension
	err        error
}

// NewCertificateBuilder creates a builder for a v3 end-entity certificate
// valid for one year from now.
func NewCertificateBuilder() *CertificateBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &CertificateBuilder{
		tbs: TBSCertificate{
			Version:  V3,
			Validity: &Validity{NotBefore: now, NotAfter: now.AddDate(1, 0, 0)},
		},
		maxPathLen: -1,
		basic:      true,
	}
}

// SerialNumber sets a specific serial number.
func (b *CertificateBuilder) SerialNumber(sn *big.Int) *CertificateBuilder {
	b.tbs.SerialNumber = sn
	return b
}

// SignatureAlgorithm sets the signature algorithm.
func (b *CertificateBuilder) SignatureAlgorithm(alg AlgorithmIdentifier) *CertificateBuilder {
	b.tbs.Signature = &alg
	return b
}

// Issuer sets the issuer name. When unset the certificate is self-issued.
func (b *CertificateBuilder) Issuer(name Name) *CertificateBuilder {
	b.tbs.Issuer = name
	return b
}

// Subject sets the subject name.
func (b *CertificateBuilder) Subject(name Name) *CertificateBuilder {
	b.tbs.Subject = name
	return b
}

// CommonName appends a CN attribute to the subject.
func (b *CertificateBuilder) CommonName(cn string) *CertificateBuilder {
	b.tbs.Subject = b.tbs.Subject.Add(oid.AttrCommonName, cn)
	return b
}

// Organization appends an O attribute to the subject.
func (b *CertificateBuilder) Organization(org string) *CertificateBuilder {
	b.tbs.Subject = b.tbs.Subject.Add(oid.AttrOrganization, org)
	return b
}

// Country appends a C attribute to the subject.
func (b *CertificateBuilder) Country(country string) *CertificateBuilder {
	b.tbs.Subject = b.tbs.Subject.Add(oid.AttrCountry, country)
	return b
}

// PublicKey sets the subject public key.
func (b *CertificateBuilder) PublicKey(spki *SubjectPublicKeyInfo) *CertificateBuilder {
	b.tbs.SubjectPublicKeyInfo = spki
	return b
}

// Validity sets the validity period.
func (b *CertificateBuilder) Validity(notBefore, notAfter time.Time) *CertificateBuilder {
	b.tbs.Validity = &Validity{NotBefore: notBefore, NotAfter: notAfter}
	return b
}

// ValidFor sets the validity duration from now.
func (b *CertificateBuilder) ValidFor(d time.Duration) *CertificateBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return b.Validity(now, now.Add(d))
}

// DNSNames sets the DNS SANs.
func (b *CertificateBuilder) DNSNames(names ...string) *CertificateBuilder {
	b.altNames.DNSNames = names
	return b
}

// EmailAddresses sets the email SANs.
func (b *CertificateBuilder) EmailAddresses(emails ...string) *CertificateBuilder {
	b.altNames.EmailAddresses = emails
	return b
}

// URIs sets the URI SANs.
func (b *CertificateBuilder) URIs(uris ...string) *CertificateBuilder {
	b.altNames.URIs = uris
	return b
}

// IPAddresses sets the IP SANs.
func (b *CertificateBuilder) IPAddresses(ips ...net.IP) *CertificateBuilder {
	b.altNames.IPAddresses = ips
	return b
}

// ExtKeyUsage sets the extended key usage purposes.
func (b *CertificateBuilder) ExtKeyUsage(purposes ...*oid.ObjectIdentifier) *CertificateBuilder {
	b.purposes = purposes
	return b
}

// CA marks this as a CA certificate. A negative maxPathLen leaves the path
// length unconstrained.
func (b *CertificateBuilder) CA(maxPathLen int) *CertificateBuilder {
	b.isCA = true
	b.maxPathLen = maxPathLen
	b.basic = true
	return b
}

// EndEntity marks this as an end-entity (non-CA) certificate.
func (b *CertificateBuilder) EndEntity() *CertificateBuilder {
	b.isCA = false
	b.maxPathLen = -1
	b.basic = true
	return b
}

// TLSServer configures the certificate for TLS server authentication.
func (b *CertificateBuilder) TLSServer() *CertificateBuilder {
	b.purposes = []*oid.ObjectIdentifier{oid.EKUServerAuth}
	return b.EndEntity()
}

// TLSClient configures the certificate for TLS client authentication.
func (b *CertificateBuilder) TLSClient() *CertificateBuilder {
	b.purposes = []*oid.ObjectIdentifier{oid.EKUClientAuth}
	return b.EndEntity()
}

// NoBasicConstraints omits the basicConstraints extension.
func (b *CertificateBuilder) NoBasicConstraints() *CertificateBuilder {
	b.basic = false
	return b
}

// SubjectKeyID adds a subjectKeyIdentifier derived from the public key.
func (b *CertificateBuilder) SubjectKeyID() *CertificateBuilder {
	b.skid = true
	return b
}

// AddExtension adds a custom extension.
func (b *CertificateBuilder) AddExtension(ext Extension) *CertificateBuilder {
	b.extra = append(b.extra, ext)
	return b
}

// Build returns the TBSCertificate. A random 128-bit serial number is used
// when none was set.
func (b *CertificateBuilder) Build() (*TBSCertificate, error) {
	if b.err != nil {
		return nil, b.err
	}
	tbs := b.tbs
	if tbs.SerialNumber == nil {
		serial, err := generateSerialNumber()
		if err != nil {
			return nil, NewError("build", fmt.Errorf("failed to generate serial number: %w", err))
		}
		tbs.SerialNumber = serial
	}
	if tbs.Issuer == nil {
		tbs.Issuer = tbs.Subject
	}
	if tbs.Subject == nil {
		tbs.Subject = Name{}
	}

	var exts []Extension
	add := func(x Extension, err error) {
		if err == nil {
			exts = append(exts, x)
		} else if b.err == nil {
			b.err = NewFieldError("build", FieldExtensions, err)
		}
	}
	if b.basic {
		add(BasicConstraints(b.isCA, b.maxPathLen))
	}
	if b.skid {
		if tbs.SubjectPublicKeyInfo == nil {
			return nil, NewFieldError("build", FieldSubjectPublicKeyInfo, ErrMissingField)
		}
		add(SubjectKeyIdentifier(tbs.SubjectPublicKeyInfo))
	}
	if !b.altNames.Empty() {
		add(SubjectAltName(b.altNames, len(tbs.Subject) == 0))
	}
	if len(b.purposes) > 0 {
		add(ExtendedKeyUsage(b.purposes...))
	}
	exts = append(exts, b.extra...)
	if b.err != nil {
		return nil, b.err
	}
	tbs.Extensions = exts
	return &tbs, nil
}

// generateSerialNumber generates a random positive 128-bit serial number.
func generateSerialNumber() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	for {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return nil, err
		}
		if n.Sign() > 0 {
			return n, nil
		}
	}
}
