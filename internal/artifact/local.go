package artifact

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// LocalStore keeps artifacts on a filesystem rooted at the storage directory.
type LocalStore struct {
	fs      afero.Fs
	baseURL string
}

func NewLocal(fs afero.Fs, baseURL string) *LocalStore {
	return &LocalStore{fs: fs, baseURL: baseURL}
}

// NewLocalDir roots a LocalStore at dir on the OS filesystem.
func NewLocalDir(dir, baseURL string) (*LocalStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewLocal(afero.NewBasePathFs(osFs, dir), baseURL), nil
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	key, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", err
	}
	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		return "", err
	}
	return publicURL(s.baseURL, key), nil
}

func (s *LocalStore) Get(ctx context.Context, key string) (Object, error) {
	key, err := CleanKey(key)
	if err != nil {
		return Object{}, err
	}
	data, err := afero.ReadFile(s.fs, key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Object{}, ErrNotFound
		}
		return Object{}, err
	}
	return Object{Key: key, ContentType: mimetype.Detect(data).String(), Data: data}, nil
}
