package dto

// TBSEncodeResponse is returned by POST /api/v1/tbs/encode. The request
// body is a YAML certificate template.
type TBSEncodeResponse struct {
	Serial             string       `json:"serial"` // 0x-prefixed hex
	Subject            string       `json:"subject"`
	Issuer             string       `json:"issuer"`
	SignatureAlgorithm string       `json:"signature_algorithm"`
	Validity           ValidityInfo `json:"validity"`
	TBS                *BinaryData  `json:"tbs"`
	Certificate        *BinaryData  `json:"certificate,omitempty"`
	PublicKey          *BinaryData  `json:"public_key"` // DER SubjectPublicKeyInfo
	Size               int          `json:"size"`
	Extensions         []string     `json:"extensions,omitempty"`
}

// ValidityInfo represents certificate validity period.
type ValidityInfo struct {
	NotBefore string `json:"not_before"` // RFC3339 format
	NotAfter  string `json:"not_after"`  // RFC3339 format
}

// CRLEncodeResponse is returned by POST /api/v1/crl/encode. The request
// body is a YAML CRL template.
type CRLEncodeResponse struct {
	Issuer     string      `json:"issuer"`
	ThisUpdate string      `json:"this_update"`
	NextUpdate string      `json:"next_update,omitempty"`
	Revoked    int         `json:"revoked"`
	TBS        *BinaryData `json:"tbs"`
	Size       int         `json:"size"`
}
