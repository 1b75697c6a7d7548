package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 0.75, Accuracy([]int{0, 1, 2, 1}, []int{0, 1, 2, 0}), 1e-9)
	assert.InDelta(t, 0, Accuracy(nil, nil), 1e-9)
}

func TestKappaPerfectAgreement(t *testing.T) {
	y := []int{0, 1, 2, 0, 1, 2}
	assert.InDelta(t, 1, Kappa(y, y), 1e-9)
}

func TestKappaKnownValue(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 0, 1, 0}
	// po = 0.75, pe = (2*3 + 2*1)/16 = 0.5 => kappa = 0.5
	assert.InDelta(t, 0.5, Kappa(yTrue, yPred), 1e-9)
}

func TestKappaConstantRaters(t *testing.T) {
	// Both constant and agreeing: defined as 1.
	assert.InDelta(t, 1, Kappa([]int{1, 1, 1}, []int{1, 1, 1}), 1e-9)
	// Orthogonal constant raters: no agreement beyond chance.
	assert.LessOrEqual(t, Kappa([]int{0, 0, 0}, []int{1, 1, 1}), 0.0)
}

func TestKappaChanceLevel(t *testing.T) {
	// Prediction independent of truth hovers near zero.
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 0, 1}
	assert.InDelta(t, 0, Kappa(yTrue, yPred), 1e-9)
}

func TestFoldMetricFailed(t *testing.T) {
	assert.False(t, FoldMetric{}.Failed())
	assert.True(t, FoldMetric{Err: "boom"}.Failed())
}
