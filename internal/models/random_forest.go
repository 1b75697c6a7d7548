package models

import (
	"math"
	"math/rand"
)

// RandomForest bags seeded decision trees over bootstrap resamples with
// sqrt-feature subsampling. Tree k trains under seed Seed+k so the whole
// ensemble reproduces from one value.
type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64

	Trees      []*DecisionTree
	NumClasses int
}

func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{NEstimators: 50, MaxDepth: 10, MinSamples: 10, MaxThresholdsPerFe: 32, Seed: seed}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if err := checkTrainable(rf.Name(), X, y, rf.MinSamples); err != nil {
		return err
	}
	if rf.NEstimators <= 0 {
		rf.NEstimators = 50
	}
	n := len(X)
	nFeats := len(X[0])
	if rf.MaxFeatures <= 0 {
		rf.MaxFeatures = int(math.Max(1, math.Sqrt(float64(nFeats))))
	}
	rf.NumClasses = numClasses(y)
	rng := rand.New(rand.NewSource(rf.Seed))
	rf.Trees = make([]*DecisionTree, 0, rf.NEstimators)
	for k := 0; k < rf.NEstimators; k++ {
		idx := make([]int, n)
		for i := 0; i < n; i++ {
			idx[i] = rng.Intn(n)
		}
		Xb := make([][]float64, n)
		yb := make([]int, n)
		for i := 0; i < n; i++ {
			Xb[i] = X[idx[i]]
			yb[i] = y[idx[i]]
		}
		dt := NewDecisionTree(rf.Seed + int64(k) + 1)
		dt.MaxDepth = rf.MaxDepth
		dt.MinSamplesSplit = rf.MinSamples
		dt.MaxThresholdsPerFe = rf.MaxThresholdsPerFe
		dt.MaxFeatures = rf.MaxFeatures
		if err := dt.Fit(Xb, yb); err != nil {
			// A bootstrap draw can collapse to one class on tiny inputs.
			return TrainingError{Family: rf.Name(), Reason: err.Error()}
		}
		rf.Trees = append(rf.Trees, dt)
	}
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	if len(rf.Trees) == 0 {
		return out
	}
	k := rf.NumClasses
	if k == 0 {
		k = 1
	}
	votes := make([]int, k)
	for i := range X {
		for j := range votes {
			votes[j] = 0
		}
		for _, dt := range rf.Trees {
			c := dt.predictOne(X[i])
			if c < len(votes) {
				votes[c]++
			}
		}
		out[i] = majority(votes)
	}
	return out
}

// Importances sums each tree's gini-decrease attribution per feature. Raw,
// unnormalized scores; callers rescale for presentation.
func (rf *RandomForest) Importances() []float64 {
	if len(rf.Trees) == 0 {
		return nil
	}
	out := make([]float64, len(rf.Trees[0].Importance))
	for _, dt := range rf.Trees {
		for j, v := range dt.Importance {
			out[j] += v
		}
	}
	return out
}

func (rf *RandomForest) NumTrees() int { return len(rf.Trees) }

func (rf *RandomForest) Tree(i int) *DecisionTree { return rf.Trees[i] }
