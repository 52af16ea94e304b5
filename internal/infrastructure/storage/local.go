package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fieldsales/visitform/internal/application/port"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// ErrPathEscape is returned when a key resolves outside the base directory
var ErrPathEscape = errors.New("path escapes base directory")

// LocalStore implements port.FileStore on the local filesystem
type LocalStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalStore creates a store rooted at baseDir
func NewLocalStore(baseDir string, logger *zap.Logger) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Put writes content to baseDir/key, creating parent directories
func (s *LocalStore) Put(ctx context.Context, key string, content []byte) (string, error) {
	fullPath := filepath.Join(s.baseDir, key)
	if err := s.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// Exists checks if a file exists under key
func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	fullPath := filepath.Join(s.baseDir, key)
	if err := s.validatePath(fullPath); err != nil {
		return false, err
	}

	_, err := os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", fullPath, err)
}

// validatePath checks that the path is within baseDir
func (s *LocalStore) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathEscape, fullPath)
	}

	return nil
}

// SanitizeKey makes a single path segment safe for any filesystem or bucket
func SanitizeKey(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeKeyChars.ReplaceAllString(name, "")
}

var _ port.FileStore = (*LocalStore)(nil)
