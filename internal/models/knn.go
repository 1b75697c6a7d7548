package models

import (
	"runtime"
	"sort"
	"sync"
)

// KNN classifies by majority vote over the K nearest standardized training
// points. Fitting just stores the data; prediction fans rows out across
// workers. The family has no internal randomness, the seed is carried only
// for spec uniformity.
type KNN struct {
	K    int
	Seed int64

	Scaler     *Scaler
	X          [][]float64
	Y          []int
	NumClasses int
}

func NewKNN(seed int64) *KNN {
	return &KNN{K: 7, Seed: seed}
}

func (m *KNN) Name() string { return "KNN" }

func (m *KNN) Fit(X [][]float64, y []int) error {
	if m.K <= 0 {
		m.K = 7
	}
	if err := checkTrainable(m.Name(), X, y, m.K); err != nil {
		return err
	}
	m.Scaler = FitScaler(X)
	m.X = m.Scaler.Transform(X)
	m.Y = append([]int(nil), y...)
	m.NumClasses = numClasses(y)
	return nil
}

func (m *KNN) Predict(X [][]float64) []int {
	if len(X) == 0 {
		return nil
	}
	out := make([]int, len(X))
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := start + rowsPerWorker
		if end > len(X) {
			end = len(X)
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				out[i] = m.predictOne(m.Scaler.TransformRow(X[i]))
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

func (m *KNN) predictOne(x []float64) int {
	type pair struct {
		d float64
		c int
	}
	nbrs := make([]pair, 0, m.K+1)
	for j, xj := range m.X {
		d := euclidSquared(x, xj)
		if len(nbrs) < m.K {
			nbrs = append(nbrs, pair{d, m.Y[j]})
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if d < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = pair{d, m.Y[j]}
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}
	votes := make([]int, m.NumClasses)
	for _, p := range nbrs {
		votes[p.c]++
	}
	return majority(votes)
}

func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
