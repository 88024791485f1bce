package common

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// FileReadOptions controls how a file is read
type FileReadOptions struct {
	// MaxSize rejects files larger than this many bytes. Zero means no limit.
	MaxSize int64
}

// FileReader handles file reading operations
type FileReader struct {
	logger zerolog.Logger
}

// NewFileReader creates a new FileReader instance
func NewFileReader(logger zerolog.Logger) *FileReader {
	return &FileReader{
		logger: logger.With().Str("component", "FileReader").Logger(),
	}
}

// ReadFile reads a regular file whole. A missing file yields ErrNotFound;
// a directory or an oversized file yields a ValidationError.
func (fr *FileReader) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapError(ErrNotFound, fmt.Sprintf("file %s", path))
		}
		return nil, WrapError(err, fmt.Sprintf("failed to stat file: %s", path))
	}
	if info.IsDir() {
		return nil, NewValidationError("path", path, "path is a directory")
	}
	if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
		return nil, NewValidationError("path", path, fmt.Sprintf("file size %d exceeds limit %d", info.Size(), opts.MaxSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if err := file.Close(); err != nil {
			fr.logger.Error().Err(err).Str("path", path).Msg("Failed to close file.")
		}
	}()

	var reader io.Reader = file
	if opts.MaxSize > 0 {
		// the file may grow between Stat and Read
		reader = io.LimitReader(file, opts.MaxSize)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to read file content: %s", path))
	}

	fr.logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("File read")
	return content, nil
}
