package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/clock"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// FileStore keeps done flags in a TOML document:
//
//	[wizards.settingsKeyRename]
//	done = true
//	done_at = 2026-10-18T09:12:00Z
//
// Writers serialize on a sibling .lock file and replace the document
// atomically, so readers never see a partial write.
type FileStore struct {
	Path  string
	Clock clock.Clock
}

type fileDocument struct {
	Wizards map[string]fileEntry `toml:"wizards"`
}

type fileEntry struct {
	Done   bool      `toml:"done"`
	DoneAt time.Time `toml:"done_at"`
}

// NewFileStore returns a store at path. A nil clk uses the wall clock.
func NewFileStore(path string, clk clock.Clock) *FileStore {
	if clk == nil {
		clk = clock.WallClock
	}
	return &FileStore{Path: path, Clock: clk}
}

// IsDone implements Store.
func (s *FileStore) IsDone(_ context.Context, id string) (bool, error) {
	doc, err := s.read()
	if err != nil {
		return false, err
	}
	return doc.Wizards[id].Done, nil
}

// DoneAt returns when id was marked done, or the zero time.
func (s *FileStore) DoneAt(id string) (time.Time, error) {
	doc, err := s.read()
	if err != nil {
		return time.Time{}, err
	}
	return doc.Wizards[id].DoneAt, nil
}

// MarkDone implements Store.
func (s *FileStore) MarkDone(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf(messages.StateCreateDirFmt, filepath.Dir(s.Path), err)
	}
	return withFileLock(s.Path+".lock", func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		doc.Wizards[id] = fileEntry{Done: true, DoneAt: s.Clock.Now().UTC().Truncate(time.Second)}
		return s.write(doc)
	})
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (fileDocument, error) {
	doc := fileDocument{Wizards: map[string]fileEntry{}}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf(messages.StateReadFmt, s.Path, err)
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf(messages.StateDecodeFmt, s.Path, err)
	}
	if doc.Wizards == nil {
		doc.Wizards = map[string]fileEntry{}
	}
	return doc, nil
}

func (s *FileStore) write(doc fileDocument) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf(messages.StateEncodeFmt, s.Path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf(messages.StateWriteFmt, s.Path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf(messages.StateWriteFmt, s.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf(messages.StateWriteFmt, s.Path, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf(messages.StateWriteFmt, s.Path, err)
	}
	return nil
}
