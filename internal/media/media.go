// Package media ingests uploaded recipe images and returns durable,
// publicly fetchable URLs. Exactly one Store implementation is selected
// at startup; callers never see which backend is behind the interface.
package media

import (
	"context"
	"io"
)

// Store persists one uploaded file and returns its public URL.
// Implementations own naming and must guarantee key uniqueness.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}
