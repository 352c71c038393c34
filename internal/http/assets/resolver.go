// Package assets resolves logical static asset names to cache-busted URLs.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// VersionParam is the query parameter carrying an asset's content hash.
const VersionParam = "v"

const hashLength = 8

// AssetResolver maps logical asset names (e.g. "css/app.css") to
// "/static/css/app.css?v=<hash>". Hashes are computed from file contents the
// first time each asset is requested.
type AssetResolver struct {
	fsys   fs.FS
	dev    bool
	logger *slog.Logger

	mu     sync.RWMutex
	hashes map[string]string
}

// Options configures an AssetResolver.
type Options struct {
	// FS holds the static files, rooted at the static directory.
	FS fs.FS
	// DevMode disables hashing so edited files are picked up on reload.
	DevMode bool
	Logger  *slog.Logger
}

// NewAssetResolver builds a resolver over opts.FS.
func NewAssetResolver(opts Options) (*AssetResolver, error) {
	if opts.FS == nil {
		return nil, errors.New("assets: FS is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetResolver{
		fsys:   opts.FS,
		dev:    opts.DevMode,
		logger: logger,
		hashes: make(map[string]string),
	}, nil
}

// Resolve returns the public URL for a logical asset name. Missing files fall
// back to the unversioned path.
func (ar *AssetResolver) Resolve(logicalName string) string {
	name := strings.TrimPrefix(path.Clean("/"+logicalName), "/")
	plain := "/static/" + name
	if ar == nil || ar.dev {
		return plain
	}

	ar.mu.RLock()
	hash, ok := ar.hashes[name]
	ar.mu.RUnlock()
	if !ok {
		hash = ar.hash(name)
		ar.mu.Lock()
		ar.hashes[name] = hash
		ar.mu.Unlock()
	}

	if hash == "" {
		return plain
	}
	return plain + "?" + VersionParam + "=" + hash
}

func (ar *AssetResolver) hash(name string) string {
	data, err := fs.ReadFile(ar.fsys, name)
	if err != nil {
		ar.logger.Warn("asset not found; serving unversioned path",
			slog.String("asset", name),
			slog.Any("error", err),
		)
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:hashLength]
}
