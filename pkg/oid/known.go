package oid

import (
	"sort"
	"strings"
)

// X.509 certificate extensions (RFC 5280).
var (
	ExtSubjectKeyID          = MustParse("2.5.29.14")
	ExtKeyUsage              = MustParse("2.5.29.15")
	ExtSubjectAltName        = MustParse("2.5.29.17")
	ExtBasicConstraints      = MustParse("2.5.29.19")
	ExtCRLNumber             = MustParse("2.5.29.20")
	ExtReasonCode            = MustParse("2.5.29.21")
	ExtCRLDistributionPoints = MustParse("2.5.29.31")
	ExtCertificatePolicies   = MustParse("2.5.29.32")
	ExtAuthorityKeyID        = MustParse("2.5.29.35")
	ExtExtKeyUsage           = MustParse("2.5.29.37")
	ExtAuthorityInfoAccess   = MustParse("1.3.6.1.5.5.7.1.1")
)

// Extended key usage purposes.
var (
	EKUServerAuth      = MustParse("1.3.6.1.5.5.7.3.1")
	EKUClientAuth      = MustParse("1.3.6.1.5.5.7.3.2")
	EKUCodeSigning     = MustParse("1.3.6.1.5.5.7.3.3")
	EKUEmailProtection = MustParse("1.3.6.1.5.5.7.3.4")
	EKUTimeStamping    = MustParse("1.3.6.1.5.5.7.3.8")
	EKUOCSPSigning     = MustParse("1.3.6.1.5.5.7.3.9")
)

// Distinguished name attribute types.
var (
	AttrCommonName         = MustParse("2.5.4.3")
	AttrSurname            = MustParse("2.5.4.4")
	AttrSerialNumber       = MustParse("2.5.4.5")
	AttrCountry            = MustParse("2.5.4.6")
	AttrLocality           = MustParse("2.5.4.7")
	AttrState              = MustParse("2.5.4.8")
	AttrStreet             = MustParse("2.5.4.9")
	AttrOrganization       = MustParse("2.5.4.10")
	AttrOrganizationalUnit = MustParse("2.5.4.11")
	AttrTitle              = MustParse("2.5.4.12")
	AttrPostalCode         = MustParse("2.5.4.17")
	AttrGivenName          = MustParse("2.5.4.42")
	AttrEmailAddress       = MustParse("1.2.840.113549.1.9.1")
	AttrDomainComponent    = MustParse("0.9.2342.19200300.100.1.25")
)

// Public key and signature algorithms.
var (
	RSAEncryption   = MustParse("1.2.840.113549.1.1.1")
	SHA256WithRSA   = MustParse("1.2.840.113549.1.1.11")
	SHA384WithRSA   = MustParse("1.2.840.113549.1.1.12")
	SHA512WithRSA   = MustParse("1.2.840.113549.1.1.13")
	ECPublicKey     = MustParse("1.2.840.10045.2.1")
	ECDSAWithSHA256 = MustParse("1.2.840.10045.4.3.2")
	ECDSAWithSHA384 = MustParse("1.2.840.10045.4.3.3")
	ECDSAWithSHA512 = MustParse("1.2.840.10045.4.3.4")
	Ed25519         = MustParse("1.3.101.112")
	Ed448           = MustParse("1.3.101.113")
	NamedCurveP256  = MustParse("1.2.840.10045.3.1.7")
	NamedCurveP384  = MustParse("1.3.132.0.34")
	NamedCurveP521  = MustParse("1.3.132.0.35")
	MLDSA44         = MustParse("2.16.840.1.101.3.4.3.17")
	MLDSA65         = MustParse("2.16.840.1.101.3.4.3.18")
	MLDSA87         = MustParse("2.16.840.1.101.3.4.3.19")
	MLKEM512        = MustParse("2.16.840.1.101.3.4.4.1")
	MLKEM768        = MustParse("2.16.840.1.101.3.4.4.2")
	MLKEM1024       = MustParse("2.16.840.1.101.3.4.4.3")
)

type entry struct {
	name string
	oid  *ObjectIdentifier
}

// registry lists the canonical name of each well-known identifier.
var registry = []entry{
	{"subjectKeyIdentifier", ExtSubjectKeyID},
	{"keyUsage", ExtKeyUsage},
	{"subjectAltName", ExtSubjectAltName},
	{"basicConstraints", ExtBasicConstraints},
	{"cRLNumber", ExtCRLNumber},
	{"reasonCode", ExtReasonCode},
	{"cRLDistributionPoints", ExtCRLDistributionPoints},
	{"certificatePolicies", ExtCertificatePolicies},
	{"authorityKeyIdentifier", ExtAuthorityKeyID},
	{"extKeyUsage", ExtExtKeyUsage},
	{"authorityInfoAccess", ExtAuthorityInfoAccess},

	{"serverAuth", EKUServerAuth},
	{"clientAuth", EKUClientAuth},
	{"codeSigning", EKUCodeSigning},
	{"emailProtection", EKUEmailProtection},
	{"timeStamping", EKUTimeStamping},
	{"OCSPSigning", EKUOCSPSigning},

	{"CN", AttrCommonName},
	{"SN", AttrSurname},
	{"serialNumber", AttrSerialNumber},
	{"C", AttrCountry},
	{"L", AttrLocality},
	{"ST", AttrState},
	{"street", AttrStreet},
	{"O", AttrOrganization},
	{"OU", AttrOrganizationalUnit},
	{"title", AttrTitle},
	{"postalCode", AttrPostalCode},
	{"GN", AttrGivenName},
	{"emailAddress", AttrEmailAddress},
	{"DC", AttrDomainComponent},

	{"rsaEncryption", RSAEncryption},
	{"sha256WithRSAEncryption", SHA256WithRSA},
	{"sha384WithRSAEncryption", SHA384WithRSA},
	{"sha512WithRSAEncryption", SHA512WithRSA},
	{"id-ecPublicKey", ECPublicKey},
	{"ecdsa-with-SHA256", ECDSAWithSHA256},
	{"ecdsa-with-SHA384", ECDSAWithSHA384},
	{"ecdsa-with-SHA512", ECDSAWithSHA512},
	{"Ed25519", Ed25519},
	{"Ed448", Ed448},
	{"prime256v1", NamedCurveP256},
	{"secp384r1", NamedCurveP384},
	{"secp521r1", NamedCurveP521},
	{"ML-DSA-44", MLDSA44},
	{"ML-DSA-65", MLDSA65},
	{"ML-DSA-87", MLDSA87},
	{"ML-KEM-512", MLKEM512},
	{"ML-KEM-768", MLKEM768},
	{"ML-KEM-1024", MLKEM1024},
}

// aliases are extra lookup names. Lookup is case-insensitive.
var aliases = map[string]string{
	"commonName":             "CN",
	"surname":                "SN",
	"country":                "C",
	"countryName":            "C",
	"locality":               "L",
	"localityName":           "L",
	"state":                  "ST",
	"stateOrProvinceName":    "ST",
	"organization":           "O",
	"organizationName":       "O",
	"organizationalUnit":     "OU",
	"organizationalUnitName": "OU",
	"givenName":              "GN",
	"email":                  "emailAddress",
	"domainComponent":        "DC",
	"P-256":                  "prime256v1",
	"P-384":                  "secp384r1",
	"P-521":                  "secp521r1",
	"ecdsa-sha256":           "ecdsa-with-SHA256",
	"ecdsa-sha384":           "ecdsa-with-SHA384",
	"ecdsa-sha512":           "ecdsa-with-SHA512",
	"rsa-sha256":             "sha256WithRSAEncryption",
	"rsa-sha384":             "sha384WithRSAEncryption",
	"rsa-sha512":             "sha512WithRSAEncryption",
	"ml-dsa-44":              "ML-DSA-44",
	"ml-dsa-65":              "ML-DSA-65",
	"ml-dsa-87":              "ML-DSA-87",
	"server-auth":            "serverAuth",
	"client-auth":            "clientAuth",
	"code-signing":           "codeSigning",
	"email-protection":       "emailProtection",
	"time-stamping":          "timeStamping",
	"ocsp-signing":           "OCSPSigning",
}

var (
	byKey  = make(map[string]string, len(registry))
	byName = make(map[string]*ObjectIdentifier, len(registry)+len(aliases))
)

func init() {
	for _, e := range registry {
		byKey[e.oid.Key()] = e.name
		byName[strings.ToLower(e.name)] = e.oid
	}
	for alias, name := range aliases {
		byName[strings.ToLower(alias)] = byName[strings.ToLower(name)]
	}
}

// Name returns the registered name of o.
func Name(o *ObjectIdentifier) (string, bool) {
	if o == nil {
		return "", false
	}
	name, ok := byKey[o.Key()]
	return name, ok
}

// Lookup resolves a registered name or alias, case-insensitively.
func Lookup(name string) (*ObjectIdentifier, bool) {
	o, ok := byName[strings.ToLower(name)]
	return o, ok
}

// Resolve accepts either a registered name or dotted-decimal text.
func Resolve(s string) (*ObjectIdentifier, error) {
	if o, ok := Lookup(s); ok {
		return o, nil
	}
	return Parse(s)
}

// Names returns all registered canonical names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}
