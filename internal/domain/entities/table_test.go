package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAppendAndValue(t *testing.T) {
	tbl := NewTable([]string{"Name", "Count"})
	tbl.AppendRow(map[string]any{"Name": "Dr. Lee", "Count": int64(3)})
	tbl.AppendRow(map[string]any{"Name": "Dr. Kim"})

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "Dr. Lee", tbl.Value(0, "Name"))
	assert.Equal(t, int64(3), tbl.Value(0, "Count"))
	assert.Nil(t, tbl.Value(1, "Count"))
	assert.Nil(t, tbl.Value(0, "Missing"))
}

func TestTableAppendRowDropsUnknownKeys(t *testing.T) {
	tbl := NewTable([]string{"Name"})
	tbl.AppendRow(map[string]any{"Name": "Dr. Lee", "Extra": "ignored"})

	assert.False(t, tbl.HasColumn("Extra"))
	assert.Equal(t, "Dr. Lee", tbl.Value(0, "Name"))
}

func TestTableAddColumnBackfillsExistingRows(t *testing.T) {
	tbl := NewTable([]string{"Name"})
	tbl.AppendRow(map[string]any{"Name": "Dr. Lee"})
	tbl.AddColumn("Phone")

	assert.True(t, tbl.HasColumn("Phone"))
	assert.Nil(t, tbl.Value(0, "Phone"))

	tbl.SetValue(0, "Phone", "4105551234")
	assert.Equal(t, "4105551234", tbl.Value(0, "Phone"))
}

func TestTableSetValueCreatesColumn(t *testing.T) {
	tbl := NewTable([]string{"Name"})
	tbl.AppendRow(map[string]any{"Name": "Dr. Lee"})
	tbl.SetValue(0, "Specialty", "Cardiology")

	assert.True(t, tbl.HasColumn("Specialty"))
	assert.Equal(t, "Cardiology", tbl.Value(0, "Specialty"))
}

func TestTableCopyColumn(t *testing.T) {
	tbl := NewTable([]string{"Telephone Number"})
	tbl.AppendRow(map[string]any{"Telephone Number": "4105551234"})
	tbl.CopyColumn("Telephone Number", "Work Phone")

	assert.Equal(t, "4105551234", tbl.Value(0, "Work Phone"))

	// Copying a missing source is a no-op
	tbl.CopyColumn("Nope", "Other")
	assert.False(t, tbl.HasColumn("Other"))
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := NewTable([]string{"Name"})
	tbl.AppendRow(map[string]any{"Name": "Dr. Lee"})

	clone := tbl.Clone()
	clone.SetValue(0, "Name", "Dr. Kim")
	clone.AddColumn("Phone")

	assert.Equal(t, "Dr. Lee", tbl.Value(0, "Name"))
	assert.False(t, tbl.HasColumn("Phone"))
}

func TestTableFilter(t *testing.T) {
	tbl := NewTable([]string{"Count"})
	for i := 0; i < 5; i++ {
		tbl.AppendRow(map[string]any{"Count": int64(i)})
	}

	even := tbl.Filter(func(r int) bool { return tbl.Value(r, "Count").(int64)%2 == 0 })
	assert.Equal(t, 3, even.NumRows())
	assert.Equal(t, int64(4), even.Value(2, "Count"))
}
