package dto

// OIDEncodeRequest is the body of POST /api/v1/oid/encode.
type OIDEncodeRequest struct {
	// OID is dotted-decimal text or a registered name.
	OID string `json:"oid"`

	// Mode is "content" (default), "element" or "cbor".
	Mode string `json:"mode,omitempty"`

	// Encoding of the returned bytes: "base64" (default) or "hex".
	Encoding string `json:"encoding,omitempty"`
}

// OIDDecodeRequest is the body of POST /api/v1/oid/decode.
type OIDDecodeRequest struct {
	Data BinaryData `json:"data"`
	Mode string     `json:"mode,omitempty"`
}

// OIDResponse describes one object identifier.
type OIDResponse struct {
	OID  string      `json:"oid"`
	Name string      `json:"name,omitempty"`
	Arcs []string    `json:"arcs"` // decimal, arcs may exceed 64 bits
	Mode string      `json:"mode"`
	Data *BinaryData `json:"data"`
}

// OIDNamesResponse lists the registered names.
type OIDNamesResponse struct {
	Names []string `json:"names"`
}
