package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softmindsol/PDF-Ticket-Converter-BE-sub000/internal/storage"
)

func signatureRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/signature", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSignatureUploadStoresImage(t *testing.T) {
	store := storage.NewMemory()
	h := NewUploadHTTP(store, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Signature().ServeHTTP(w, signatureRequest(t, "sig.png", []byte("png-bytes")))

	require.Equal(t, http.StatusCreated, w.Code)
	e := decode(t, w)
	key := e.Data["key"].(string)
	assert.True(t, strings.HasPrefix(key, storage.SignaturePrefix))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, []string{key}, store.Keys())
}

func TestSignatureUploadRejectsOversizedFile(t *testing.T) {
	store := storage.NewMemory()
	h := NewUploadHTTP(store, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Signature().ServeHTTP(w, signatureRequest(t, "big.png", make([]byte, 8<<20)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decode(t, w)
	require.Len(t, e.Errors, 1)
	assert.Equal(t, "file", e.Errors[0].Key)
	assert.Empty(t, store.Keys(), "oversized upload must not reach storage")
}

func TestSignatureUploadRejectsUnsupportedType(t *testing.T) {
	store := storage.NewMemory()
	h := NewUploadHTTP(store, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Signature().ServeHTTP(w, signatureRequest(t, "sig.gif", []byte("gif-bytes")))

	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decode(t, w)
	require.Len(t, e.Errors, 1)
	assert.Equal(t, "file", e.Errors[0].Key)
	assert.Empty(t, store.Keys())
}
