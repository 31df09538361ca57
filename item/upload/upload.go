package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prasastio/marketplace/internal/config"
	"github.com/prasastio/marketplace/internal/log"
)

// Store saves uploaded item images under a local directory and hands back the
// public URL that gets persisted verbatim on the item.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(cfg config.Upload) (*Store, error) {
	err := os.MkdirAll(cfg.Dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed creating upload dir with error=%w", err)
	}
	return &Store{dir: cfg.Dir, baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the image part to disk under a fresh name and returns its URL.
// Only image content types are accepted.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("only images are allowed, got content type %q", contentType)
	}

	filename := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed creating upload file with error=%w", err)
	}
	defer dst.Close()

	_, err = io.Copy(dst, file)
	if err != nil {
		return "", fmt.Errorf("failed writing upload file with error=%w", err)
	}

	return s.baseURL + "/" + filename, nil
}

// Remove deletes the stored file behind a previously returned URL. Failures
// are logged, not propagated, since the replacing write already succeeded.
func (s *Store) Remove(logger zerolog.Logger, url string) {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return
	}
	filename := filepath.Base(strings.TrimPrefix(url, s.baseURL+"/"))
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		logger.Error().
			Err(err).
			Str(log.KeyProcess, "removing stored image").
			Msgf("failed removing stored image with error=%s", err.Error())
	}
}
