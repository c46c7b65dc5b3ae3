package ruleset

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// BundleGlob is the discovery pattern for rule bundle files under a
// provider directory.
const BundleGlob = "**/*.rules.{yaml,yml,json,hcl}"

// FileProvider serves profiles from bundle files on a filesystem. Bundles
// are discovered on every Fetch; the resolver's cache keeps that cheap, and
// the watcher invalidates the cache when files change.
type FileProvider struct {
	fs  afero.Fs
	dir string
}

func NewFileProvider(fs afero.Fs, dir string) *FileProvider {
	return &FileProvider{fs: fs, dir: dir}
}

// Dir is the directory bundles are discovered under, for watcher wiring.
func (p *FileProvider) Dir() string {
	return p.dir
}

func (p *FileProvider) Fetch(ctx context.Context, name, version string) (*Definition, error) {
	sub := afero.NewBasePathFs(p.fs, p.dir)

	paths, err := doublestar.Glob(afero.NewIOFS(sub), BundleGlob)
	if err != nil {
		return nil, errors.Errorf("discovering bundles: %w", err)
	}

	for _, path := range paths {
		bundle, err := LoadBundle(sub, path)
		if err != nil {
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("path", filepath.Join(p.dir, path)).
				Msg("skipping malformed rule bundle")
			continue
		}
		if def := bundle.Find(name, version); def != nil {
			zerolog.Ctx(ctx).Debug().
				Str("profile", name).
				Str("path", filepath.Join(p.dir, path)).
				Msg("resolved profile from bundle file")
			return def, nil
		}
	}

	return nil, ErrNotFound
}
