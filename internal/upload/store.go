// Package upload stores image files on local disk, grouped by category
// directories under the configured upload root.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var categoryPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

var (
	ErrNotImage       = errors.New("only image files are allowed")
	ErrFileTooLarge   = errors.New("file exceeds the size limit")
	ErrBadCategory    = errors.New("invalid upload category")
	ErrFileNotFound   = errors.New("file not found")
	ErrInvalidName    = errors.New("invalid file name")
	ErrNothingToStore = errors.New("no file uploaded")
)

// File describes one stored upload as returned to clients.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimetype,omitempty"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Store writes uploads beneath root and serves them under publicPath.
type Store struct {
	root       string
	publicPath string
	maxSize    int64
}

func NewStore(root, publicPath string, maxSizeMB int64) *Store {
	return &Store{
		root:       root,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		maxSize:    maxSizeMB * 1024 * 1024,
	}
}

func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save streams one upload to disk under a fresh uuid filename and
// returns its descriptor. originalName only contributes the extension.
func (s *Store) Save(r io.Reader, originalName, category string, size int64) (*File, error) {
	category, err := normalizeCategory(category)
	if err != nil {
		return nil, err
	}
	if size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	mime, ok := allowedExtensions[ext]
	if !ok {
		return nil, ErrNotImage
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	filename := id + ext
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dst.Name())
		return nil, ErrFileTooLarge
	}

	return &File{
		ID:         id,
		Name:       filepath.Base(originalName),
		Filename:   filename,
		URL:        path.Join(s.publicPath, category, filename),
		Size:       written,
		MimeType:   mime,
		Category:   category,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// List returns the stored files of one category; an absent category
// directory reads as empty.
func (s *Store) List(category string) ([]File, error) {
	category, err := normalizeCategory(category)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, category))
	if err != nil {
		if os.IsNotExist(err) {
			return []File{}, nil
		}
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			ID:         e.Name(),
			Name:       e.Name(),
			Filename:   e.Name(),
			URL:        path.Join(s.publicPath, category, e.Name()),
			Size:       info.Size(),
			Category:   category,
			UploadedAt: info.ModTime().UTC(),
		})
	}
	return files, nil
}

func (s *Store) Delete(category, filename string) error {
	category, err := normalizeCategory(category)
	if err != nil {
		return err
	}
	if filename == "" || filename != filepath.Base(filename) {
		return ErrInvalidName
	}

	err = os.Remove(filepath.Join(s.root, category, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

func normalizeCategory(category string) (string, error) {
	if category == "" {
		return "general", nil
	}
	category = strings.ToLower(category)
	if !categoryPattern.MatchString(category) {
		return "", ErrBadCategory
	}
	return category, nil
}
