package source

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/zatekoja/medmatch/internal/domain/entities"
	apperrors "github.com/zatekoja/medmatch/pkg/errors"
)

// readParquet loads a flat parquet file into a Table without assuming a
// fixed schema: the column set is taken from the file footer, so datasets
// exported with extra or missing columns still load.
func readParquet(ctx context.Context, path string) (*entities.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParseError("failed to open parquet file", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to stat parquet file", err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, apperrors.NewParseError("failed to read parquet footer", err)
	}

	fields := pf.Schema().Fields()
	cols := make([]string, len(fields))
	converters := make([]func(parquet.Value) any, len(fields))
	for i, fld := range fields {
		if !fld.Leaf() {
			return nil, apperrors.NewParseError("nested parquet schemas are not supported", nil)
		}
		cols[i] = fld.Name()
		converters[i] = valueConverter(fld.Type().LogicalType())
	}

	table := entities.NewTable(cols)
	buf := make([]parquet.Row, 256)

	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewInternalError("parquet read cancelled", err)
		}
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				appendParquetRow(table, cols, converters, buf[i])
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, apperrors.NewParseError("failed to read parquet rows", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, apperrors.NewParseError("failed to close parquet row reader", err)
		}
	}

	return table, nil
}

func appendParquetRow(table *entities.Table, cols []string, converters []func(parquet.Value) any, row parquet.Row) {
	values := make(map[string]any, len(cols))
	for _, v := range row {
		ci := v.Column()
		if ci < 0 || ci >= len(cols) {
			continue
		}
		if v.IsNull() {
			continue
		}
		values[cols[ci]] = converters[ci](v)
	}
	table.AppendRow(values)
}

// valueConverter picks a cell conversion for a leaf column. Timestamps and
// dates surface as time.Time, everything else as string/bool/int64/float64.
func valueConverter(lt *format.LogicalType) func(parquet.Value) any {
	if lt != nil && lt.Timestamp != nil {
		unit := lt.Timestamp.Unit
		return func(v parquet.Value) any {
			x := v.Int64()
			switch {
			case unit.Nanos != nil:
				return time.Unix(0, x).UTC()
			case unit.Micros != nil:
				return time.UnixMicro(x).UTC()
			default:
				return time.UnixMilli(x).UTC()
			}
		}
	}
	if lt != nil && lt.Date != nil {
		return func(v parquet.Value) any {
			return time.Unix(int64(v.Int32())*86400, 0).UTC()
		}
	}

	return func(v parquet.Value) any {
		switch v.Kind() {
		case parquet.Boolean:
			return v.Boolean()
		case parquet.Int32:
			return int64(v.Int32())
		case parquet.Int64:
			return v.Int64()
		case parquet.Float:
			return float64(v.Float())
		case parquet.Double:
			return v.Double()
		case parquet.ByteArray, parquet.FixedLenByteArray:
			return v.String()
		default:
			return v.String()
		}
	}
}
