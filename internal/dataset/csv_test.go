package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `"fixed acidity";"volatile acidity";"citric acid";"quality"
7.4;0.7;0;5
7.8;0.88;0;7
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"fixed_acidity", "volatile_acidity", "citric_acid", "quality"}, table.Columns)
	require.Equal(t, 2, table.NumRows())
	assert.Equal(t, []float64{7.4, 0.7, 0, 5}, table.Rows[0])
	assert.Equal(t, []float64{7.8, 0.88, 0, 7}, table.Rows[1])
}

func TestParseCSVDeterministic(t *testing.T) {
	first, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	second, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseCSVHeaderOnly(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(`"a";"b"` + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.NumRows())
}

func TestParseCSVEmptyInput(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestParseCSVRaggedRow(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a;b\n1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestParseCSVNonNumeric(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("a;b\n1;oops\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestTableRequire(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.NoError(t, table.Require("fixed_acidity", "quality"))

	err = table.Require("alcohol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestTableColumn(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	quality, err := table.Column("quality")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7}, quality)

	_, err = table.Column("missing")
	assert.True(t, errors.Is(err, ErrSchema))
}
