// Package x509der encodes X.509 certificate and CRL structures (RFC 5280)
// with the pkg/der encoder.
//
// Fields are typed struct members enumerated by Field, and are written in
// their ASN.1 order. Signing is left to the caller: Encode returns the
// to-be-signed bytes and AssembleCertificate wraps them with a signature.
package x509der

// Field identifies a TBSCertificate field.
type Field int

// TBSCertificate fields, in encoding order.
const (
	FieldVersion Field = iota
	FieldSerialNumber
	FieldSignature
	FieldIssuer
	FieldValidity
	FieldSubject
	FieldSubjectPublicKeyInfo
	FieldIssuerUniqueID
	FieldSubjectUniqueID
	FieldExtensions
)

var fieldNames = [...]string{
	FieldVersion:              "version",
	FieldSerialNumber:         "serialNumber",
	FieldSignature:            "signature",
	FieldIssuer:               "issuer",
	FieldValidity:             "validity",
	FieldSubject:              "subject",
	FieldSubjectPublicKeyInfo: "subjectPublicKeyInfo",
	FieldIssuerUniqueID:       "issuerUniqueID",
	FieldSubjectUniqueID:      "subjectUniqueID",
	FieldExtensions:           "extensions",
}

// String returns the ASN.1 field name.
func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// AllFields returns every field in encoding order.
func AllFields() []Field {
	fields := make([]Field, len(fieldNames))
	for i := range fields {
		fields[i] = Field(i)
	}
	return fields
}

// requiredFields must be present for Encode to succeed.
var requiredFields = []Field{
	FieldSerialNumber,
	FieldSignature,
	FieldIssuer,
	FieldValidity,
	FieldSubject,
	FieldSubjectPublicKeyInfo,
}
