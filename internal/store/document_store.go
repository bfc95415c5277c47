package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/internal/utils"
	"github.com/MKhiriev/go-vault-sync/models"
)

const documentFileMode = 0o644

// ReservedDirs are top-level vault directories owned by the sync machinery.
// Documents may not live inside them.
var ReservedDirs = []string{".vaultsync", "sync"}

// fileDocumentStore keeps documents as plain files under the vault root.
type fileDocumentStore struct {
	root     string
	reserved []string
	logger   *logger.Logger
}

// NewFileDocumentStore returns a DocumentStore rooted at root. Extra reserved
// top-level directories, such as a non-default state dir name, can be passed.
func NewFileDocumentStore(root string, log *logger.Logger, reserved ...string) DocumentStore {
	return &fileDocumentStore{
		root:     root,
		reserved: append(append([]string(nil), ReservedDirs...), reserved...),
		logger:   log,
	}
}

// resolve maps a vault-relative path onto the filesystem, refusing paths
// that escape the root or touch a reserved directory.
func (s *fileDocumentStore) resolve(op, path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if path == "" || !filepath.IsLocal(clean) {
		return "", &models.StorageError{Op: op, Path: path, Err: ErrPathOutsideVault}
	}
	top := strings.SplitN(filepath.ToSlash(clean), "/", 2)[0]
	for _, r := range s.reserved {
		if top == r {
			return "", &models.StorageError{Op: op, Path: path, Err: ErrReservedPath}
		}
	}
	return filepath.Join(s.root, clean), nil
}

func (s *fileDocumentStore) Read(ctx context.Context, path string) (string, error) {
	full, err := s.resolve("read", path)
	if err != nil {
		return "", err
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &models.StorageError{Op: "read", Path: path, Err: ErrDocumentNotFound}
	}
	if err != nil {
		s.logger.Err(err).Str("func", "fileDocumentStore.Read").Str("path", path).Msg("error reading document")
		return "", &models.StorageError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

func (s *fileDocumentStore) Write(ctx context.Context, path, content string) error {
	full, err := s.resolve("write", path)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	if err = utils.WriteFileAtomic(full, []byte(content), documentFileMode); err != nil {
		s.logger.Err(err).Str("func", "fileDocumentStore.Write").Str("path", path).Msg("error writing document")
		return &models.StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func (s *fileDocumentStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve("delete", path)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	if err = os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Err(err).Str("func", "fileDocumentStore.Delete").Str("path", path).Msg("error deleting document")
		return &models.StorageError{Op: "delete", Path: path, Err: err}
	}
	return nil
}

func (s *fileDocumentStore) Exists(ctx context.Context, path string) (bool, error) {
	full, err := s.resolve("stat", path)
	if err != nil {
		return false, err
	}
	if err = ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &models.StorageError{Op: "stat", Path: path, Err: err}
	}
	return !info.IsDir(), nil
}

func (s *fileDocumentStore) Rename(ctx context.Context, oldPath, newPath string) error {
	from, err := s.resolve("rename", oldPath)
	if err != nil {
		return err
	}
	to, err := s.resolve("rename", newPath)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}

	if _, err = os.Stat(from); errors.Is(err, fs.ErrNotExist) {
		return &models.StorageError{Op: "rename", Path: oldPath, Err: ErrDocumentNotFound}
	}
	if from != to {
		if _, err = os.Stat(to); err == nil {
			return &models.StorageError{Op: "rename", Path: newPath, Err: ErrTargetExists}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return &models.StorageError{Op: "rename", Path: newPath, Err: err}
		}
	}
	if err = os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return &models.StorageError{Op: "rename", Path: newPath, Err: err}
	}
	if err = os.Rename(from, to); err != nil {
		s.logger.Err(err).Str("func", "fileDocumentStore.Rename").Str("from", oldPath).Str("to", newPath).Msg("error renaming document")
		return &models.StorageError{Op: "rename", Path: oldPath, Err: err}
	}
	return nil
}
