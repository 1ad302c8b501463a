package collection

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"

	"github.com/llehouerou/jukebox/internal/device"
)

const numWorkers = 8

// audioExtensions lists the extensions the player can decode.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".wav":  true,
	".m4a":  true,
}

// IsAudioFile returns true if path has a playable extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanOptions configures Scan.
type ScanOptions struct {
	Logger  zerolog.Logger
	Options []Option
}

type discovered struct {
	path string
	size int64
	dev  *device.Device
}

// Scan walks roots and builds a collection. Roots not covered by a
// registered device are registered as fixed devices. Unreadable tags fall
// back to file names.
func Scan(ctx context.Context, reg *device.Registry, roots []string, opts ScanOptions) (*Collection, error) {
	var found []discovered
	for _, root := range roots {
		root = filepath.Clean(root)
		dev := reg.ForPath(root)
		if dev == nil {
			dev = reg.Add(device.New("", root))
			if _, err := os.Stat(root); err == nil {
				dev.SetMounted(true)
			}
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				opts.Logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() || !IsAudioFile(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // unreadable files are skipped
			}
			owner := reg.ForPath(path)
			if owner == nil {
				owner = dev
			}
			found = append(found, discovered{path: path, size: info.Size(), dev: owner})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}

	dirs := make(map[string]*Directory)
	for _, d := range found {
		dirPath := filepath.Dir(d.path)
		if _, ok := dirs[dirPath]; !ok {
			dirs[dirPath] = &Directory{
				ID:     stableID(d.dev, dirPath),
				Path:   dirPath,
				Device: d.dev,
			}
		}
	}

	mapper := iter.Mapper[discovered, *File]{MaxGoroutines: numWorkers}
	files := mapper.Map(found, func(d *discovered) *File {
		return buildFile(d, dirs[filepath.Dir(d.path)])
	})

	opts.Logger.Info().Int("files", len(files)).Int("directories", len(dirs)).Msg("collection scanned")
	return New(files, opts.Options...), nil
}

func stableID(dev *device.Device, path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(dev.ID+":"+dev.RelPath(path))).String()
}

func buildFile(d *discovered, dir *Directory) *File {
	f := &File{
		ID:   stableID(d.dev, d.path),
		Path: d.path,
		Name: filepath.Base(d.path),
		Dir:  dir,
		Size: d.size,
	}
	readTags(f)
	return f
}

func readTags(f *File) {
	r, err := os.Open(f.Path)
	if err != nil {
		return
	}
	defer r.Close()

	m, err := tag.ReadFrom(r)
	if err != nil {
		return
	}
	f.Title = m.Title()
	f.Artist = m.Artist()
	f.Album = m.Album()
	f.TrackNumber, _ = m.Track()
}
