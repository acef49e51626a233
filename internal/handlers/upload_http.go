package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/apperr"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/utils"
)

const maxSignatureBytes = 5 << 20 // 5 MiB

// UploadHTTP stores signature images. The returned key is what record
// payloads reference; the pipeline later swaps it for a signed URL.
type UploadHTTP struct {
	store storage.ObjectStore
	log   zerolog.Logger
}

func NewUploadHTTP(store storage.ObjectStore, log zerolog.Logger) *UploadHTTP {
	return &UploadHTTP{store: store, log: log}
}

// POST /api/uploads/signature (multipart, field "file")
func (h *UploadHTTP) Signature() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSignatureBytes)
		if err := r.ParseMultipartForm(maxSignatureBytes); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				utils.Fail(w, apperr.Validation("validation failed",
					apperr.Detail{Key: "file", Message: "file exceeds the 5 MiB limit"}))
				return
			}
			utils.Fail(w, apperr.Validation("invalid multipart form"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			utils.Fail(w, apperr.Validation("validation failed",
				apperr.Detail{Key: "file", Message: "file is required"}))
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		contentType := ""
		switch ext {
		case ".png":
			contentType = "image/png"
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		default:
			utils.Fail(w, apperr.Validation("validation failed",
				apperr.Detail{Key: "file", Message: "file must be a png or jpeg image"}))
			return
		}

		key := storage.SignatureKey(ext)
		if err := h.store.Put(r.Context(), key, file, contentType); err != nil {
			h.log.Error().Err(err).Msg("signature upload failed")
			utils.Fail(w, err)
			return
		}
		utils.OK(w, http.StatusCreated, "signature uploaded", map[string]string{"key": key})
	}
}
