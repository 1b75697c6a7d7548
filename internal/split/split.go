// Package split produces stratified train/holdout partitions and k-fold
// assignments over a prepared dataset. Every operation takes an explicit seed
// and is deterministic for a given seed and input.
package split

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"pitchlab/internal/data"
)

// InsufficientDataError reports a label too rare to stratify for the
// requested split or fold count.
type InsufficientDataError struct {
	Label string
	Have  int
	Need  int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("split: label %q has %d records, need at least %d", e.Label, e.Have, e.Need)
}

// Partition is a disjoint stratified train/holdout split.
type Partition struct {
	Train   *data.Dataset
	Holdout *data.Dataset
}

// FoldAssignment maps each training record to one of K folds.
type FoldAssignment struct {
	K    int
	Fold []int
}

// HeldIn returns the record indices outside fold f.
func (a FoldAssignment) HeldIn(f int) []int {
	out := make([]int, 0, len(a.Fold))
	for i, g := range a.Fold {
		if g != f {
			out = append(out, i)
		}
	}
	return out
}

// HeldOut returns the record indices inside fold f.
func (a FoldAssignment) HeldOut(f int) []int {
	out := make([]int, 0, len(a.Fold)/a.K+1)
	for i, g := range a.Fold {
		if g == f {
			out = append(out, i)
		}
	}
	return out
}

func byLabel(ds *data.Dataset) [][]int {
	groups := make([][]int, ds.NumClasses())
	for i, y := range ds.Y {
		groups[y] = append(groups[y], i)
	}
	return groups
}

// Split assigns holdoutFraction of each label's records to the holdout
// subset, independently per label, shuffled by seed.
func Split(ds *data.Dataset, holdoutFraction float64, seed int64) (Partition, error) {
	if holdoutFraction <= 0 || holdoutFraction >= 1 {
		return Partition{}, fmt.Errorf("split: holdout fraction %v out of (0,1)", holdoutFraction)
	}
	need := int(math.Ceil(1 / holdoutFraction))
	groups := byLabel(ds)
	for c, g := range groups {
		if len(g) < need {
			return Partition{}, InsufficientDataError{Label: ds.Labels[c], Have: len(g), Need: need}
		}
	}
	rng := rand.New(rand.NewSource(seed))
	var trainIdx, holdIdx []int
	for _, g := range groups {
		perm := rng.Perm(len(g))
		nHold := int(math.Round(holdoutFraction * float64(len(g))))
		for i, j := range perm {
			if i < nHold {
				holdIdx = append(holdIdx, g[j])
			} else {
				trainIdx = append(trainIdx, g[j])
			}
		}
	}
	sort.Ints(trainIdx)
	sort.Ints(holdIdx)
	return Partition{Train: ds.Select(trainIdx), Holdout: ds.Select(holdIdx)}, nil
}

// MakeFolds assigns every record of ds to one of k folds, stratified per
// label by a seeded shuffle followed by round-robin assignment.
func MakeFolds(ds *data.Dataset, k int, seed int64) (FoldAssignment, error) {
	if k < 2 {
		return FoldAssignment{}, fmt.Errorf("split: fold count %d below 2", k)
	}
	groups := byLabel(ds)
	for c, g := range groups {
		if len(g) < k {
			return FoldAssignment{}, InsufficientDataError{Label: ds.Labels[c], Have: len(g), Need: k}
		}
	}
	rng := rand.New(rand.NewSource(seed))
	fold := make([]int, ds.Len())
	for _, g := range groups {
		perm := rng.Perm(len(g))
		for i, j := range perm {
			fold[g[j]] = i % k
		}
	}
	return FoldAssignment{K: k, Fold: fold}, nil
}
