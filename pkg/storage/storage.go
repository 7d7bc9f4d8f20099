// Package storage provides a filesystem abstraction for product media.
//
// Two drivers are available:
//   - "local" — local filesystem (default)
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once in internal/server/server.go:
//
//	storage.Connect()
//
// Then:
//
//	storage.Put(ctx, "products/red-shoes/main.jpg", bytes.NewReader(data))
//	url := storage.URL("products/red-shoes/main.jpg")
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/priyamehta/aarohi/config"
	"github.com/priyamehta/aarohi/pkg/logger"
)

// Disk is the driver interface for a single storage backend.
type Disk interface {
	// Put writes the content of r to path, creating parents as needed.
	Put(ctx context.Context, path string, r io.Reader) error

	// Get returns a ReadCloser for the file at path. Caller must close it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// Size returns the byte size of the file at path.
	Size(ctx context.Context, path string) (int64, error)

	// Delete removes the file at path. Nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// Files lists the files directly inside directory.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. Call once at application startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()
	disks["local"] = newLocalDisk()

	// Boot the S3 disk only when a bucket is configured.
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("storage: default disk not configured, falling back to local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// RegisterDisk plugs in a custom Disk implementation at boot time.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

func defaultD() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// Put writes r to path on the default disk.
func Put(ctx context.Context, path string, r io.Reader) error { return defaultD().Put(ctx, path, r) }

// Get returns a ReadCloser for path on the default disk.
func Get(ctx context.Context, path string) (io.ReadCloser, error) { return defaultD().Get(ctx, path) }

// Exists reports whether path exists on the default disk.
func Exists(ctx context.Context, path string) bool { return defaultD().Exists(ctx, path) }

// Size returns the byte size of path on the default disk.
func Size(ctx context.Context, path string) (int64, error) { return defaultD().Size(ctx, path) }

// Delete removes path from the default disk.
func Delete(ctx context.Context, path string) error { return defaultD().Delete(ctx, path) }

// Files lists files in directory on the default disk.
func Files(ctx context.Context, directory string) ([]string, error) {
	return defaultD().Files(ctx, directory)
}

// URL returns the public URL for path on the default disk.
func URL(path string) string { return defaultD().URL(path) }
