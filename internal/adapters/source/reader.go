package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/zatekoja/medmatch/internal/domain/entities"
	apperrors "github.com/zatekoja/medmatch/pkg/errors"
)

// Reader loads a raw tabular source file into a Table
type Reader interface {
	// Read loads the file at path. A missing file yields a NOT_FOUND error,
	// an unreadable or corrupt file a PARSE error.
	Read(ctx context.Context, path string) (*entities.Table, error)
}

// FileReader reads local columnar files, dispatching on file extension.
// Parquet is the primary format; CSV is supported for legacy data drops.
type FileReader struct{}

// NewFileReader creates a new file reader
func NewFileReader() *FileReader {
	return &FileReader{}
}

// Read implements Reader
func (r *FileReader) Read(ctx context.Context, path string) (*entities.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("source file not found: " + path)
		}
		return nil, apperrors.NewInternalError("failed to stat source file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return readParquet(ctx, path)
	case ".csv":
		return readCSV(ctx, path)
	default:
		return nil, apperrors.NewParseError("unsupported source file format: "+filepath.Ext(path), nil)
	}
}
