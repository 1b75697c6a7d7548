package eval

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchlab/internal/models"
)

func metricsFor(spec models.Spec, accs []float64, failures int) SpecResult {
	r := SpecResult{Spec: spec}
	for f, a := range accs {
		r.Metrics = append(r.Metrics, FoldMetric{Spec: spec.Name(), Fold: f, Accuracy: a, Kappa: a - 0.1})
	}
	for i := 0; i < failures; i++ {
		r.Metrics = append(r.Metrics, FoldMetric{Spec: spec.Name(), Fold: len(accs) + i, Err: "cannot train"})
	}
	return r
}

func TestCompareSelectsDominantSpec(t *testing.T) {
	train := clusterDataset(2, 40, 1)
	results := []SpecResult{
		metricsFor(models.Spec{Family: models.FamilyKNN, Seed: 1, Neighbors: 3}, []float64{0.7, 0.72, 0.71}, 0),
		metricsFor(treeSpec(1), []float64{0.9, 0.91, 0.92}, 0),
	}
	cmp, err := Compare(results, train)
	require.NoError(t, err)
	assert.Equal(t, "tree", cmp.Winner)
	assert.Equal(t, "tree", cmp.Rankings[0].Spec)
	assert.InDelta(t, 0.91, cmp.Rankings[0].MeanAccuracy, 1e-9)
	require.NotNil(t, cmp.Model)
	// Winner is retrained on the full training subset.
	preds := cmp.Model.Predict(train.X)
	assert.Equal(t, len(train.Y), len(preds))
}

func TestCompareTieBrokenByLowerSpread(t *testing.T) {
	train := clusterDataset(2, 40, 2)
	results := []SpecResult{
		metricsFor(treeSpec(1), []float64{0.70, 0.90}, 0),
		metricsFor(models.Spec{Family: models.FamilyKNN, Seed: 1, Neighbors: 3}, []float64{0.79, 0.81}, 0),
	}
	cmp, err := Compare(results, train)
	require.NoError(t, err)
	assert.Equal(t, "knn", cmp.Winner)
}

func TestCompareTieBrokenBySpecName(t *testing.T) {
	train := clusterDataset(2, 40, 3)
	results := []SpecResult{
		metricsFor(treeSpec(1), []float64{0.8, 0.8}, 0),
		metricsFor(models.Spec{Family: models.FamilyKNN, Seed: 1, Neighbors: 3}, []float64{0.8, 0.8}, 0),
	}
	cmp, err := Compare(results, train)
	require.NoError(t, err)
	assert.Equal(t, "knn", cmp.Winner)
}

func TestCompareSurfacesFailureCounts(t *testing.T) {
	train := clusterDataset(2, 40, 4)
	results := []SpecResult{
		metricsFor(treeSpec(1), []float64{0.9}, 4),
	}
	cmp, err := Compare(results, train)
	require.NoError(t, err)
	require.Len(t, cmp.Rankings, 1)
	assert.Equal(t, 1, cmp.Rankings[0].Succeeded)
	assert.Equal(t, 4, cmp.Rankings[0].Failed)
}

func TestCompareNoValidModel(t *testing.T) {
	train := clusterDataset(2, 40, 5)
	results := []SpecResult{
		metricsFor(treeSpec(1), nil, 5),
		metricsFor(models.Spec{Family: models.FamilyKNN, Seed: 1}, nil, 5),
	}
	_, err := Compare(results, train)
	var nv NoValidModelError
	require.True(t, errors.As(err, &nv))
}

func TestCompareSkipsAllFailedSpecForWinner(t *testing.T) {
	train := clusterDataset(2, 40, 6)
	results := []SpecResult{
		// Higher placeholder accuracy but zero successful folds.
		metricsFor(models.Spec{Family: models.FamilyKernel, Seed: 1}, nil, 3),
		metricsFor(treeSpec(1), []float64{0.85, 0.86, 0.84}, 0),
	}
	cmp, err := Compare(results, train)
	require.NoError(t, err)
	assert.Equal(t, "tree", cmp.Winner)
}
