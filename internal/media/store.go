// Package media stores uploaded images in an S3-compatible object store
// and hands back public URLs.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// Store uploads an object and returns the URL it is reachable at.
type Store interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ObjectKey builds a date-prefixed storage key so buckets stay browsable:
// <prefix>/2026/8/31/<uuid><ext>.
func ObjectKey(prefix, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%s%s", prefix, d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}
