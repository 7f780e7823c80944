package sales

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsdemand/models"
)

func sampleRows() []models.SalesRow {
	return []models.SalesRow{
		{ID: 1, PartsID: "P1", Date: "2023-01-01", Volume: "3"},
		{ID: 2, PartsID: "P2", Date: "2023-01-01", Volume: "0"},
		{ID: 3, PartsID: "P1", Date: "2023-02-01", Volume: "0"},
		{ID: 4, PartsID: "P3", Date: "2023-02-01", Volume: "12"},
		{ID: 5, PartsID: "P2", Date: "2023-02-01", Volume: " 7 "},
		{ID: 6, PartsID: "P1", Date: "2023-03-01", Volume: "5"},
	}
}

func mustTable(t *testing.T) *Table {
	t.Helper()
	table, err := FromRows(sampleRows())
	require.NoError(t, err)
	return table
}

func TestFromRowsCoercesVolume(t *testing.T) {
	table := mustTable(t)
	require.Equal(t, 6, table.Len())

	records := table.Records()
	assert.Equal(t, 3, records[0].Volume)
	assert.Equal(t, 7, records[4].Volume)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), records[2].Date)
}

func TestFromRowsRejectsNonNumericVolume(t *testing.T) {
	rows := sampleRows()
	rows[3].Volume = "twelve"

	_, err := FromRows(rows)
	require.Error(t, err)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, int64(4), convErr.RowID)
	assert.Equal(t, "volume", convErr.Field)

	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
}

func TestSelectKeepsExactlyMatchingRows(t *testing.T) {
	table := mustTable(t)

	cases := []struct {
		ids  []string
		want []int64
	}{
		{nil, []int64{}},
		{[]string{"P1"}, []int64{1, 3, 6}},
		{[]string{"P2", "P3"}, []int64{2, 4, 5}},
		{[]string{"P9"}, []int64{}},
		{[]string{"P1", "P1"}, []int64{1, 3, 6}},
	}

	for _, c := range cases {
		got := make([]int64, 0)
		for _, r := range table.Select(c.ids) {
			got = append(got, r.ID)
		}
		assert.Equal(t, c.want, got, "Select(%v)", c.ids)
	}
}

func TestProductIDsAndVolumesFirstSeenOrder(t *testing.T) {
	table := mustTable(t)
	assert.Equal(t, []string{"P1", "P2", "P3"}, table.ProductIDs())
	assert.Equal(t, []int{3, 0, 12, 7, 5}, table.Volumes())
}

func TestSeries(t *testing.T) {
	table := mustTable(t)
	x, y := table.Series("P1")
	assert.Len(t, x, 3)
	assert.Equal(t, []int{3, 0, 5}, y)
}

func TestNilTable(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Select([]string{"P1"}))
	assert.Empty(t, table.ProductIDs())
}
