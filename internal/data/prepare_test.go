package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHeader() []string {
	return append([]string{LabelColumn}, FeatureColumns...)
}

func validRow(label string) []string {
	return []string{label, "94.1", "-1.8", "5.8", "-0.5", "1.3", "0.1", "2.5", "2250", "6.5", "210"}
}

func TestPrepareSchemaError(t *testing.T) {
	header := validHeader()
	header = header[:len(header)-1] // drop spin_axis

	_, _, err := Prepare(header, [][]string{validRow("Slider")})
	require.Error(t, err)
	var se SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "spin_axis", se.Column)
}

func TestPrepareMissingLabelColumn(t *testing.T) {
	_, _, err := Prepare(FeatureColumns, nil)
	var se SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, LabelColumn, se.Column)
}

func TestPrepareDropsIncompleteRows(t *testing.T) {
	rows := [][]string{
		validRow("Slider"),
		validRow("Curveball"),
	}
	missing := validRow("Slider")
	missing[8] = "" // release_spin_rate
	na := validRow("Slider")
	na[3] = "NA"
	bad := validRow("Slider")
	bad[1] = "fast"
	noLabel := validRow("")
	rows = append(rows, missing, na, bad, noLabel)

	ds, dropped, err := Prepare(validHeader(), rows)
	require.NoError(t, err)
	assert.Equal(t, 4, dropped)
	assert.Equal(t, 2, ds.Len())
}

func TestPrepareVocabularySortedAndStable(t *testing.T) {
	rows := [][]string{
		validRow("Slider"),
		validRow("Changeup"),
		validRow("4-Seam Fastball"),
		validRow("Slider"),
	}
	ds, _, err := Prepare(validHeader(), rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"4-Seam Fastball", "Changeup", "Slider"}, ds.Labels)
	assert.Equal(t, []int{2, 1, 0, 2}, ds.Y)
}

func TestSummary(t *testing.T) {
	rows := [][]string{
		validRow("Slider"),
		validRow("Slider"),
		validRow("Slider"),
		validRow("Changeup"),
	}
	ds, _, err := Prepare(validHeader(), rows)
	require.NoError(t, err)
	sum := ds.Summary()
	require.Len(t, sum, 2)
	assert.Equal(t, "Changeup", sum[0].Label)
	assert.Equal(t, 1, sum[0].Count)
	assert.InDelta(t, 25.0, sum[0].Percent, 1e-9)
	assert.Equal(t, 3, sum[1].Count)
	assert.InDelta(t, 75.0, sum[1].Percent, 1e-9)
}

func TestSelectSharesVocabulary(t *testing.T) {
	rows := [][]string{validRow("Slider"), validRow("Changeup"), validRow("Slider")}
	ds, _, err := Prepare(validHeader(), rows)
	require.NoError(t, err)
	sub := ds.Select([]int{0, 2})
	assert.Equal(t, ds.Labels, sub.Labels)
	assert.Equal(t, 2, sub.Len())
	assert.Equal(t, []int{1, 1}, sub.Y)
}

func TestGenerateRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pitches.csv")
	require.NoError(t, GenerateSyntheticPitches(800, 0.1, 11, path))

	ds, dropped, err := Load(path)
	require.NoError(t, err)
	assert.Greater(t, dropped, 0)
	assert.Equal(t, 800, ds.Len()+dropped)
	assert.GreaterOrEqual(t, ds.NumClasses(), 2)
	for _, row := range ds.X {
		assert.Len(t, row, len(FeatureColumns))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	require.NoError(t, GenerateSyntheticPitches(200, 0.05, 99, a))
	require.NoError(t, GenerateSyntheticPitches(200, 0.05, 99, b))
	ba, err := os.ReadFile(a)
	require.NoError(t, err)
	bb, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, ba, bb)
}
