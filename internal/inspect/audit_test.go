package inspect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"pitchlab/internal/data"
	"pitchlab/internal/models"
)

// The dominance of the top-importance feature should not be explained by a
// near-duplicate column: audit pairwise correlation between the top feature
// and every other feature on generated data.
func TestTopFeatureNotPairwiseCollinear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitches.csv")
	require.NoError(t, data.GenerateSyntheticPitches(2500, 0, 42, path))
	ds, _, err := data.Load(path)
	require.NoError(t, err)

	rf := models.NewRandomForest(42)
	rf.NEstimators = 25
	require.NoError(t, rf.Fit(ds.X, ds.Y))

	table, err := Importances(rf, ds.FeatureNames)
	require.NoError(t, err)
	top := table[0].Feature
	topIdx := -1
	for i, name := range ds.FeatureNames {
		if name == top {
			topIdx = i
		}
	}
	require.GreaterOrEqual(t, topIdx, 0)

	column := func(j int) []float64 {
		out := make([]float64, ds.Len())
		for i, row := range ds.X {
			out[i] = row[j]
		}
		return out
	}
	topCol := column(topIdx)
	for j := range ds.FeatureNames {
		if j == topIdx {
			continue
		}
		r := stat.Correlation(topCol, column(j), nil)
		if r < 0 {
			r = -r
		}
		require.Less(t, r, 0.95, "feature %s nearly duplicates top feature %s", ds.FeatureNames[j], top)
	}
}
