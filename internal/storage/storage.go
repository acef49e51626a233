// Package storage is the object-storage layer for generated PDF artifacts and
// uploaded signature images. Keys are folder-prefixed; private objects are
// read through short-lived signed URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const (
	TicketPrefix    = "tickets/"
	SignaturePrefix = "signatures/"
)

// ObjectStore is the minimal surface the rendering pipeline and dispatcher
// need.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// PresignGet returns a time-limited URL granting read access to a
	// private object.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PublicURL returns the stable URL a stored artifact is referenced by.
	PublicURL(key string) string
}

// TicketKey builds the deterministic artifact key for a record: entity id
// plus generation timestamp, so regenerated documents never overwrite the
// previous artifact.
func TicketKey(recordID string, now time.Time) string {
	return fmt.Sprintf("%s%s-%d.pdf", TicketPrefix, recordID, now.Unix())
}

// SignatureKey builds a fresh key for an uploaded signature image.
func SignatureKey(ext string) string {
	return SignaturePrefix + uuid.NewString() + ext
}
