package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps session files on the local disk, one directory per
// session under the base directory.
type LocalStore struct {
	base string
}

func NewLocalStore(base string) (*LocalStore, error) {
	if err := os.MkdirAll(base, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &LocalStore{base: base}, nil
}

func (s *LocalStore) Put(ctx context.Context, session, name string, r io.Reader) error {
	dir, err := s.sessionDir(session)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	name, err = cleanName(name)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, session, name string) ([]byte, error) {
	dir, err := s.sessionDir(session)
	if err != nil {
		return nil, err
	}
	name, err = cleanName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return data, nil
}

func (s *LocalStore) List(ctx context.Context, session string) ([]FileInfo, error) {
	dir, err := s.sessionDir(session)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list session: %w", err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stat, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, FileInfo{
			Name:     entry.Name(),
			Size:     stat.Size(),
			Modified: stat.ModTime(),
		})
	}
	return infos, nil
}

func (s *LocalStore) Delete(ctx context.Context, session string) error {
	dir, err := s.sessionDir(session)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return os.RemoveAll(dir)
}

func (s *LocalStore) sessionDir(session string) (string, error) {
	session, err := cleanName(session)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.base, session), nil
}

// cleanName rejects path components that could escape the session
// namespace.
func cleanName(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid name %q", name)
	}
	return name, nil
}
