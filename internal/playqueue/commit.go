package playqueue

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/llehouerou/jukebox/internal/collection"
)

// Resolver finds a file by its stable ID.
type Resolver func(id string) (*collection.File, bool)

// Commit writes the IDs of the queued files, one per line, to path. The
// now-playing item is left out so a restart does not play it twice. The file
// is replaced atomically.
func (q *Queue) Commit(path string) error {
	q.mu.Lock()
	var b strings.Builder
	for i, it := range q.items {
		if i == 0 {
			continue
		}
		b.WriteString(it.File.ID)
		b.WriteByte('\n')
	}
	q.mu.Unlock()

	if err := writeFileAtomic(path, []byte(b.String())); err != nil {
		err = fmt.Errorf("%w: %w", ErrPersistence, err)
		q.logger.Error().Err(err).Str("path", path).Msg("failed to commit queue")
		return err
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".queue-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadCommitted reads a committed queue back. Unknown IDs are skipped. A
// missing file yields no items.
func ReadCommitted(path string, resolve Resolver, logger zerolog.Logger) ([]*Item, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	defer f.Close()

	var items []*Item
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		file, ok := resolve(id)
		if !ok {
			logger.Debug().Str("id", id).Msg("committed file no longer in collection")
			continue
		}
		items = append(items, NewItem(file))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return items, nil
}
