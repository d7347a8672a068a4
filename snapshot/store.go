package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// Store keeps encoded snapshots by name.
type Store interface {
	Save(name string, data []byte) error
	Load(name string) ([]byte, error)
	Close() error
}

// Save encodes s and stores it under name. It returns the encoded size.
func Save(store Store, name string, s Snapshot) (int, error) {
	data, err := Marshal(s)
	if err != nil {
		return 0, err
	}
	if err := store.Save(name, data); err != nil {
		return 0, err
	}
	slog.Info("snapshot saved",
		"name", name,
		"build_id", s.BuildID.String(),
		"bytes", len(data),
		"stops", s.Catalogue.StopCount(),
		"routes", s.Catalogue.RouteCount())
	return len(data), nil
}

// Load reads the snapshot stored under name and decodes it.
func Load(store Store, name string) (*Snapshot, error) {
	data, err := store.Load(name)
	if err != nil {
		return nil, err
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %q: %w", name, err)
	}
	slog.Info("snapshot loaded",
		"name", name,
		"build_id", s.BuildID.String(),
		"bytes", s.Size,
		"stops", s.Catalogue.StopCount(),
		"routes", s.Catalogue.RouteCount())
	return s, nil
}

// FileStore keeps each snapshot in its own file. Relative names resolve
// against Dir; absolute names are used as they are.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir. An empty dir means the working
// directory.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Save writes data to a temporary file next to the target and renames it
// into place, so readers never observe a partial snapshot.
func (s *FileStore) Save(name string, data []byte) (err error) {
	target := s.path(name)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", target, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot %s: %w", target, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", target, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename snapshot into %s: %w", target, err)
	}
	return nil
}

// Load reads the whole snapshot file.
func (s *FileStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return data, nil
}

// Close is a no-op; files are closed after every operation.
func (s *FileStore) Close() error { return nil }

const badgerKeyPrefix = "snapshot/"

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Dir is the database directory. Required unless InMemory is set.
	Dir string

	// InMemory keeps the database in memory only.
	InMemory bool

	SyncWrites bool

	// Logger receives badger's internal logs. Nil silences them.
	Logger *slog.Logger
}

// BadgerStore keeps snapshots in a badger database keyed by name.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates the database described by opts. The
// caller must Close the store.
func OpenBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badger store: directory is required for a persistent database")
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", opts.Dir, err)
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}
	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Save stores data under name, replacing any earlier snapshot.
func (s *BadgerStore) Save(name string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+name), data)
	})
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", name, err)
	}
	return nil
}

// Load returns a copy of the snapshot stored under name.
func (s *BadgerStore) Load(name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	return data, nil
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
