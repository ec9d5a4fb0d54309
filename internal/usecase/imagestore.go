package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore persists an uploaded chart image and returns a stable
// reference. Real deployments point this at object storage; the seam keeps
// that collaborator out of the authoring engine.
type ImageStore interface {
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// LocalImageStore keeps uploads on the local filesystem under a configured
// directory. Good enough for single-node deployments and development.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return "/" + filepath.ToSlash(path), nil
}
