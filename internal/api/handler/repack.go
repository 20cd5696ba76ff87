package handler

import (
	"net/http"

	"github.com/remiblancher/qder/internal/api/dto"
	apierrors "github.com/remiblancher/qder/internal/api/errors"
	"github.com/remiblancher/qder/pkg/bitpack"
)

// RepackHandler handles POST /api/v1/repack.
func RepackHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.RepackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	data, err := req.Data.Decode()
	if err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest(err.Error()))
		return
	}
	out, err := bitpack.Repack(data, req.From, req.To)
	if err != nil {
		respondMapped(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.RepackResponse{
		Data:   dto.NewBinaryData(out, req.Data.Encoding),
		Length: len(out),
	})
}
