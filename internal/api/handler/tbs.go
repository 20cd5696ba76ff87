package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/remiblancher/qder/internal/api/dto"
	apierrors "github.com/remiblancher/qder/internal/api/errors"
	"github.com/remiblancher/qder/internal/codec"
	"github.com/remiblancher/qder/pkg/oid"
)

// TBSHandler encodes certificate and CRL templates.
type TBSHandler struct {
	// now is overridden in tests.
	now func() time.Time
}

// NewTBSHandler creates a new TBSHandler.
func NewTBSHandler() *TBSHandler {
	return &TBSHandler{now: time.Now}
}

// Encode handles POST /api/v1/tbs/encode. The body is a YAML certificate
// template; ?sign=true self-signs with the generated key and ?encoding=hex
// switches the output encoding.
func (h *TBSHandler) Encode(w http.ResponseWriter, r *http.Request) {
	sign, err := boolQuery(r, "sign")
	if err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest(err.Error()))
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	tmpl, err := codec.ParseTemplate(body)
	if err != nil {
		respondMapped(w, err)
		return
	}
	res, err := codec.EncodeTBS(tmpl, codec.TBSOptions{Now: h.now(), Sign: sign})
	if err != nil {
		respondMapped(w, err)
		return
	}
	spki, err := res.TBS.SubjectPublicKeyInfo.Encode()
	if err != nil {
		respondMapped(w, err)
		return
	}

	enc := r.URL.Query().Get("encoding")
	tbs := res.TBS
	resp := dto.TBSEncodeResponse{
		Serial:             fmt.Sprintf("0x%X", tbs.SerialNumber),
		Subject:            tbs.Subject.String(),
		Issuer:             tbs.Issuer.String(),
		SignatureAlgorithm: oidLabel(tbs.Signature.Algorithm),
		Validity: dto.ValidityInfo{
			NotBefore: tbs.Validity.NotBefore.UTC().Format(time.RFC3339),
			NotAfter:  tbs.Validity.NotAfter.UTC().Format(time.RFC3339),
		},
		TBS:       dto.NewBinaryData(res.DER, enc),
		PublicKey: dto.NewBinaryData(spki, enc),
		Size:      len(res.DER),
	}
	if res.Certificate != nil {
		resp.Certificate = dto.NewBinaryData(res.Certificate, enc)
	}
	for _, ext := range tbs.Extensions {
		resp.Extensions = append(resp.Extensions, oidLabel(ext.ID))
	}
	respondJSON(w, http.StatusOK, resp)
}

// EncodeCRL handles POST /api/v1/crl/encode. The body is a YAML CRL
// template.
func (h *TBSHandler) EncodeCRL(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	tmpl, err := codec.ParseCRLTemplate(body)
	if err != nil {
		respondMapped(w, err)
		return
	}
	res, err := codec.EncodeCRL(tmpl, h.now())
	if err != nil {
		respondMapped(w, err)
		return
	}

	list := res.List
	resp := dto.CRLEncodeResponse{
		Issuer:     list.Issuer.String(),
		ThisUpdate: list.ThisUpdate.UTC().Format(time.RFC3339),
		Revoked:    len(list.RevokedCertificates),
		TBS:        dto.NewBinaryData(res.DER, r.URL.Query().Get("encoding")),
		Size:       len(res.DER),
	}
	if !list.NextUpdate.IsZero() {
		resp.NextUpdate = list.NextUpdate.UTC().Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, resp)
}

func boolQuery(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("query parameter %s: %q is not a boolean", key, v)
	}
	return b, nil
}

func oidLabel(o *oid.ObjectIdentifier) string {
	if name, ok := oid.Name(o); ok {
		return name
	}
	return o.String()
}
