package dto

// RepackRequest is the body of POST /api/v1/repack.
type RepackRequest struct {
	Data BinaryData `json:"data"`
	From int        `json:"from"`
	To   int        `json:"to"`
}

// RepackResponse holds the repacked values, one per byte.
type RepackResponse struct {
	Data   *BinaryData `json:"data"`
	Length int         `json:"length"`
}
