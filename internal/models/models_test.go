package models

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobs builds n well-separated gaussian clusters of size each, 4 features.
func blobs(n, size int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	var X [][]float64
	var y []int
	for c := 0; c < n; c++ {
		center := float64(c) * 10
		for i := 0; i < size; i++ {
			X = append(X, []float64{
				center + rng.NormFloat64(),
				-center + rng.NormFloat64(),
				center/2 + rng.NormFloat64(),
				rng.NormFloat64(),
			})
			y = append(y, c)
		}
	}
	return X, y
}

func TestAllFamiliesLearnSeparableClusters(t *testing.T) {
	X, y := blobs(3, 80, 5)
	for _, spec := range DefaultSpecs(7) {
		spec := spec
		t.Run(spec.Name(), func(t *testing.T) {
			clf, err := New(spec)
			require.NoError(t, err)
			require.NoError(t, clf.Fit(X, y))
			preds := clf.Predict(X)
			correct := 0
			for i := range y {
				if preds[i] == y[i] {
					correct++
				}
			}
			acc := float64(correct) / float64(len(y))
			assert.Greater(t, acc, 0.85, "training accuracy for %s", clf.Name())
		})
	}
}

func TestFitDeterministicUnderSeed(t *testing.T) {
	X, y := blobs(3, 60, 9)
	probe, _ := blobs(3, 10, 10)
	for _, fam := range []Family{FamilyForest, FamilyTree, FamilyKernel} {
		fam := fam
		t.Run(string(fam), func(t *testing.T) {
			specs := DefaultSpecs(31)
			var spec Spec
			for _, s := range specs {
				if s.Family == fam {
					spec = s
				}
			}
			a, err := New(spec)
			require.NoError(t, err)
			require.NoError(t, a.Fit(X, y))
			b, err := New(spec)
			require.NoError(t, err)
			require.NoError(t, b.Fit(X, y))
			assert.Equal(t, a.Predict(probe), b.Predict(probe))
		})
	}
}

func TestTrainingErrorOnSingleLabel(t *testing.T) {
	X, _ := blobs(1, 120, 3)
	y := make([]int, len(X))
	for _, spec := range DefaultSpecs(1) {
		spec := spec
		t.Run(spec.Name(), func(t *testing.T) {
			clf, err := New(spec)
			require.NoError(t, err)
			err = clf.Fit(X, y)
			var te TrainingError
			require.True(t, errors.As(err, &te), "expected TrainingError, got %v", err)
		})
	}
}

func TestTrainingErrorOnTooFewRecords(t *testing.T) {
	X := [][]float64{{1, 2, 3, 4}, {5, 6, 7, 8}}
	y := []int{0, 1}
	clf, err := New(Spec{Family: FamilyKNN, Neighbors: 7})
	require.NoError(t, err)
	err = clf.Fit(X, y)
	var te TrainingError
	require.True(t, errors.As(err, &te))
}

func TestNewRejectsUnknownFamily(t *testing.T) {
	_, err := New(Spec{Family: "boosted-stumps"})
	assert.Error(t, err)
}

func TestScalerStandardizes(t *testing.T) {
	X := [][]float64{{0, 100}, {2, 300}, {4, 500}}
	s := FitScaler(X)
	assert.InDelta(t, 2, s.Mean[0], 1e-9)
	assert.InDelta(t, 300, s.Mean[1], 1e-9)
	out := s.Transform(X)
	assert.InDelta(t, 0, out[0][0]+out[2][0], 1e-9)
	assert.InDelta(t, 0, out[1][0], 1e-9)
}

func TestScalerConstantColumn(t *testing.T) {
	X := [][]float64{{5}, {5}, {5}}
	s := FitScaler(X)
	out := s.TransformRow([]float64{5})
	assert.InDelta(t, 0, out[0], 1e-9)
}

func TestDefaultSpecsShareSeed(t *testing.T) {
	specs := DefaultSpecs(42)
	require.Len(t, specs, 5)
	for _, s := range specs {
		assert.Equal(t, int64(42), s.Seed)
	}
}

func TestLoadSweep(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	cfg := `
seed: 7
holdout: 0.25
folds: 5
classifiers:
  - family: forest
    trees: 20
  - family: knn
    neighbors: 3
    seed: 99
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	got, err := LoadSweep(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Seed)
	assert.InDelta(t, 0.25, got.Holdout, 1e-9)
	assert.Equal(t, 5, got.Folds)
	require.Len(t, got.Classifiers, 2)
	assert.Equal(t, FamilyForest, got.Classifiers[0].Family)
	assert.Equal(t, int64(7), got.Classifiers[0].Seed) // inherits sweep seed
	assert.Equal(t, 20, got.Classifiers[0].Trees)
	assert.Equal(t, int64(99), got.Classifiers[1].Seed) // explicit seed kept
}

func TestLoadSweepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 3\n"), 0o644))
	got, err := LoadSweep(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got.Holdout, 1e-9)
	assert.Equal(t, 10, got.Folds)
	assert.Len(t, got.Classifiers, 5)
}

func TestForestImportancesNonNegative(t *testing.T) {
	X, y := blobs(3, 60, 2)
	rf := NewRandomForest(5)
	rf.NEstimators = 15
	require.NoError(t, rf.Fit(X, y))
	imp := rf.Importances()
	require.Len(t, imp, 4)
	total := 0.0
	for _, v := range imp {
		assert.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.Greater(t, total, 0.0)
}

func TestTreeNodeCountAndSamples(t *testing.T) {
	X, y := blobs(2, 50, 4)
	dt := NewDecisionTree(1)
	dt.MinSamplesSplit = 5
	require.NoError(t, dt.Fit(X, y))
	assert.GreaterOrEqual(t, dt.NodeCount(), 3)
	assert.Equal(t, len(X), dt.Root.Samples)
}
