// Package storage keeps uploaded ECU binaries on a local blob store.
package storage

import (
	"crypto/rand"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cemcalis/chiptunnig/internal/config"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(New),
)

// ResultPrefix marks files produced by the tuning staff.
const ResultPrefix = "MODDED_"

// Store writes and reads upload blobs under a base directory.
type Store struct {
	fs  afero.Fs
	dir string
	log *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) (*Store, error) {
	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		fs:  fs,
		dir: cfg.UploadDir,
		log: log.Named("storage"),
	}, nil
}

// NewMem returns an in-memory store for tests.
func NewMem() *Store {
	return &Store{fs: afero.NewMemMapFs(), dir: "uploads", log: zap.NewNop()}
}

// Save stores an upload under a collision-resistant generated name and
// returns that name.
func (s *Store) Save(originalName string, userID snowflake.ID, r io.Reader) (string, error) {
	name := storedName(originalName, userID)
	if err := s.write(name, r); err != nil {
		return "", err
	}
	return name, nil
}

// SaveResult stores a processed file for a request, marked with the
// result prefix.
func (s *Store) SaveResult(originalName string, userID snowflake.ID, r io.Reader) (string, error) {
	name := ResultPrefix + storedName(originalName, userID)
	if err := s.write(name, r); err != nil {
		return "", err
	}
	return name, nil
}

// Open returns the stored blob for streaming to a client.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	return s.fs.Open(path.Join(s.dir, path.Base(name)))
}

func (s *Store) write(name string, r io.Reader) error {
	full := path.Join(s.dir, name)
	file, err := s.fs.Create(full)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, r)
	if err != nil {
		return fmt.Errorf("write blob: %w", err)
	}

	s.log.Debug("blob stored", zap.String("name", name), zap.Int64("size", size))
	return nil
}

func storedName(originalName string, userID snowflake.ID) string {
	entropy := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return fmt.Sprintf("%d_%s_%s_%s",
		time.Now().UnixMilli(),
		userID,
		entropy.String(),
		sanitize(originalName),
	)
}

func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload.bin"
	}
	return name
}
