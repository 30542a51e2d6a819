package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/zatekoja/medmatch/internal/domain/entities"
	apperrors "github.com/zatekoja/medmatch/pkg/errors"
)

// readCSV loads a legacy CSV drop. Every cell stays a string (empty cells
// become nil); type coercion happens during schema normalization.
func readCSV(ctx context.Context, path string) (*entities.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParseError("failed to open csv file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, apperrors.NewParseError("failed to read csv header", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := entities.NewTable(header)
	for {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewInternalError("csv read cancelled", err)
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParseError("failed to read csv record", err)
		}
		values := make(map[string]any, len(header))
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			if cell == "" {
				continue
			}
			values[header[i]] = cell
		}
		table.AppendRow(values)
	}

	return table, nil
}
