package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/medmatch/pkg/errors"
)

func TestFileReaderMissingFile(t *testing.T) {
	reader := NewFileReader()
	_, err := reader.Read(context.Background(), filepath.Join(t.TempDir(), "nope.parquet"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestFileReaderUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	reader := NewFileReader()
	_, err := reader.Read(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParse))
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	content := "Full Name,patient_count,pri_spec\n" +
		"Dr. Lee,12,Cardiology\n" +
		"Dr. Kim,,Dermatology\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := NewFileReader().Read(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Full Name", "patient_count", "pri_spec"}, table.Columns())
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, "Dr. Lee", table.Value(0, "Full Name"))
	assert.Equal(t, "12", table.Value(0, "patient_count"))
	// Empty cells stay nil
	assert.Nil(t, table.Value(1, "patient_count"))
}

func TestReadCSVRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	content := "A,B\nonly-a\n1,2,3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := NewFileReader().Read(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, "only-a", table.Value(0, "A"))
	assert.Nil(t, table.Value(0, "B"))
	assert.Equal(t, "2", table.Value(1, "B"))
}

type contactRow struct {
	FullName     string    `parquet:"Full Name"`
	PatientCount int64     `parquet:"patient_count"`
	Latitude     float64   `parquet:"latitude"`
	CreateDate   time.Time `parquet:"Create Date,timestamp"`
}

func TestReadParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.parquet")

	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[contactRow](f)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err = w.Write([]contactRow{
		{FullName: "Dr. Lee", PatientCount: 12, Latitude: 39.29, CreateDate: created},
		{FullName: "Dr. Kim", PatientCount: 3, Latitude: 40.71, CreateDate: created.AddDate(0, 1, 0)},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	table, err := NewFileReader().Read(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, "Dr. Lee", table.Value(0, "Full Name"))
	assert.Equal(t, int64(12), table.Value(0, "patient_count"))
	assert.Equal(t, 39.29, table.Value(0, "latitude"))

	ts, ok := table.Value(0, "Create Date").(time.Time)
	require.True(t, ok)
	assert.True(t, created.Equal(ts))
}

func TestReadParquetCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.parquet")
	require.NoError(t, os.WriteFile(path, []byte("not a parquet file"), 0o644))

	_, err := NewFileReader().Read(context.Background(), path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParse))
}
