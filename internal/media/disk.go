package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"
)

// ==========================
// DiskStore
// ==========================

// DiskStore writes images to a local directory served under /uploads/.
// Returned URLs are relative ("/uploads/<name>") unless PublicBase is set.
type DiskStore struct {
	Dir        string
	PublicBase string

	seq atomic.Uint64
}

func NewDiskStore(dir, publicBase string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, PublicBase: publicBase}, nil
}

// Save writes the file under a millisecond-timestamp name, keeping the
// original extension. A per-process sequence number disambiguates
// same-millisecond uploads.
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + strconv.FormatUint(s.seq.Add(1), 10) + filepath.Ext(filename)
	dst := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close image file: %w", err)
	}

	return s.PublicBase + path.Join("/uploads", name), nil
}
