package models

import (
	"math"
	"math/rand"
)

// DTNode is one node of a fitted tree. Leaf nodes carry the predicted class;
// internal nodes carry the split.
type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	Class     int
	Samples   int
}

// DecisionTree is a CART-style multi-class classifier with gini splits over
// seeded candidate thresholds.
type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64

	Root       *DTNode
	NumClasses int
	// Importance accumulates the sample-weighted gini decrease per feature
	// during Fit, unnormalized.
	Importance []float64

	rng *rand.Rand
}

func NewDecisionTree(seed int64) *DecisionTree {
	return &DecisionTree{MaxDepth: 10, MinSamplesSplit: 20, MaxThresholdsPerFe: 64, Seed: seed}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	if err := checkTrainable(dt.Name(), X, y, dt.MinSamplesSplit); err != nil {
		return err
	}
	dt.NumClasses = numClasses(y)
	dt.Importance = make([]float64, len(X[0]))
	dt.rng = rand.New(rand.NewSource(dt.Seed))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0, len(X))
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = dt.predictOne(X[i])
	}
	return out
}

func (dt *DecisionTree) predictOne(x []float64) int {
	n := dt.Root
	if n == nil {
		return 0
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return 0
		}
	}
	return n.Class
}

// Importances exposes the accumulated gini decrease per feature.
func (dt *DecisionTree) Importances() []float64 { return dt.Importance }

// A lone tree is a one-member ensemble for inspection purposes.
func (dt *DecisionTree) NumTrees() int            { return 1 }
func (dt *DecisionTree) Tree(i int) *DecisionTree { return dt }

// NodeCount returns the total node count of the fitted tree.
func (dt *DecisionTree) NodeCount() int {
	var walk func(n *DTNode) int
	walk = func(n *DTNode) int {
		if n == nil {
			return 0
		}
		return 1 + walk(n.Left) + walk(n.Right)
	}
	return walk(dt.Root)
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, depth, total int) *DTNode {
	counts := classCounts(y, idx, dt.NumClasses)
	node := &DTNode{Samples: len(idx)}
	imp := gini(counts, len(idx))
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth || imp == 0 {
		node.IsLeaf = true
		node.Class = majority(counts)
		return node
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := math.MaxFloat64
	var leftBest, rightBest []int

	nFeats := len(X[0])
	feats := dt.pickFeatures(nFeats)
	for _, f := range feats {
		cand := dt.candidateThresholds(X, idx, f)
		for _, thr := range cand {
			lIdx, rIdx := splitIdx(X, idx, f, thr)
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			wi := weightedGini(y, lIdx, rIdx, dt.NumClasses)
			if wi < bestImp {
				bestImp = wi
				bestFeature = f
				bestThr = thr
				leftBest = lIdx
				rightBest = rIdx
			}
		}
	}

	if bestFeature == -1 || bestImp >= imp {
		node.IsLeaf = true
		node.Class = majority(counts)
		return node
	}

	dt.Importance[bestFeature] += float64(len(idx)) / float64(total) * (imp - bestImp)
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = dt.build(X, y, leftBest, depth+1, total)
	node.Right = dt.build(X, y, rightBest, depth+1, total)
	return node
}

func classCounts(y []int, idx []int, k int) []int {
	counts := make([]int, k)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	s := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		s -= p * p
	}
	return s
}

func weightedGini(y []int, lIdx, rIdx []int, k int) float64 {
	gl := gini(classCounts(y, lIdx, k), len(lIdx))
	gr := gini(classCounts(y, rIdx, k), len(rIdx))
	wl := float64(len(lIdx))
	wr := float64(len(rIdx))
	n := wl + wr
	return (wl/n)*gl + (wr/n)*gr
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func (dt *DecisionTree) candidateThresholds(X [][]float64, idx []int, f int) []float64 {
	values := make([]float64, len(idx))
	for j, i := range idx {
		values[j] = X[i][f]
	}
	for i := range values {
		j := dt.rng.Intn(len(values))
		values[i], values[j] = values[j], values[i]
	}
	m := len(values)
	if dt.MaxThresholdsPerFe > 0 && dt.MaxThresholdsPerFe < m {
		m = dt.MaxThresholdsPerFe
	}
	return values[:m]
}

func (dt *DecisionTree) pickFeatures(nFeats int) []int {
	idx := make([]int, nFeats)
	for i := range idx {
		idx[i] = i
	}
	if dt.MaxFeatures <= 0 || dt.MaxFeatures >= nFeats {
		return idx
	}
	for i := range idx {
		j := dt.rng.Intn(nFeats)
		idx[i], idx[j] = idx[j], idx[i]
	}
	out := make([]int, dt.MaxFeatures)
	copy(out, idx[:dt.MaxFeatures])
	return out
}
