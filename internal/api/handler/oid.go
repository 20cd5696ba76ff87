package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/qder/internal/api/dto"
	apierrors "github.com/remiblancher/qder/internal/api/errors"
	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/pkg/oid"
)

// OIDHandler handles object identifier requests.
type OIDHandler struct{}

// NewOIDHandler creates a new OIDHandler.
func NewOIDHandler() *OIDHandler {
	return &OIDHandler{}
}

// Encode handles POST /api/v1/oid/encode
func (h *OIDHandler) Encode(w http.ResponseWriter, r *http.Request) {
	var req dto.OIDEncodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.OID == "" {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("oid is required"))
		return
	}
	mode, err := codec.ParseMode(req.Mode)
	if err != nil {
		respondMapped(w, err)
		return
	}
	res, err := codec.EncodeOID(req.OID, mode)
	if err != nil {
		respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, oidResponse(res, req.Encoding))
}

// Decode handles POST /api/v1/oid/decode
func (h *OIDHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req dto.OIDDecodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	data, err := req.Data.Decode()
	if err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest(err.Error()))
		return
	}
	mode, err := codec.ParseMode(req.Mode)
	if err != nil {
		respondMapped(w, err)
		return
	}
	res, err := codec.DecodeOID(data, mode)
	if err != nil {
		respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, oidResponse(res, req.Data.Encoding))
}

// Lookup handles GET /api/v1/oid/{name}. name is a registered name or
// dotted text; anything else is not found.
func (h *OIDHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	res, err := codec.LookupOID(name)
	if err != nil {
		respondError(w, http.StatusNotFound, apierrors.NewNotFound("OID", name))
		return
	}
	respondJSON(w, http.StatusOK, oidResponse(res, r.URL.Query().Get("encoding")))
}

// Names handles GET /api/v1/oid
func (h *OIDHandler) Names(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, dto.OIDNamesResponse{Names: oid.Names()})
}

func oidResponse(res *codec.OIDResult, encoding string) dto.OIDResponse {
	arcs := res.OID.Arcs()
	text := make([]string, len(arcs))
	for i, a := range arcs {
		text[i] = a.String()
	}
	return dto.OIDResponse{
		OID:  res.OID.String(),
		Name: res.Name,
		Arcs: text,
		Mode: string(res.Mode),
		Data: dto.NewBinaryData(res.Bytes, encoding),
	}
}
