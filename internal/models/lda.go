package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LDA is a linear discriminant classifier: per-class means, one pooled
// within-class covariance, argmax over the resulting linear discriminants.
// Entirely deterministic; the seed is carried only for spec uniformity.
type LDA struct {
	Seed int64

	// W[k] and B[k] define discriminant k: W[k]·x + B[k].
	W          [][]float64
	B          []float64
	NumClasses int
}

func NewLDA(seed int64) *LDA {
	return &LDA{Seed: seed}
}

func (m *LDA) Name() string { return "LDA" }

func (m *LDA) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return TrainingError{Family: m.Name(), Reason: "empty training set"}
	}
	if err := checkTrainable(m.Name(), X, y, len(X[0])+2); err != nil {
		return err
	}
	n := len(X)
	d := len(X[0])
	k := numClasses(y)
	m.NumClasses = k

	counts := make([]int, k)
	means := make([][]float64, k)
	for c := range means {
		means[c] = make([]float64, d)
	}
	for i, row := range X {
		counts[y[i]]++
		for j, v := range row {
			means[y[i]][j] += v
		}
	}
	for c := range means {
		if counts[c] == 0 {
			continue
		}
		for j := range means[c] {
			means[c][j] /= float64(counts[c])
		}
	}

	// Pooled within-class covariance with a small ridge so near-collinear
	// features stay invertible.
	cov := mat.NewDense(d, d, nil)
	for i, row := range X {
		mu := means[y[i]]
		for a := 0; a < d; a++ {
			da := row[a] - mu[a]
			for b := 0; b < d; b++ {
				cov.Set(a, b, cov.At(a, b)+da*(row[b]-mu[b]))
			}
		}
	}
	denom := float64(n - k)
	if denom < 1 {
		denom = 1
	}
	for a := 0; a < d; a++ {
		for b := 0; b < d; b++ {
			cov.Set(a, b, cov.At(a, b)/denom)
		}
		cov.Set(a, a, cov.At(a, a)+1e-6)
	}

	var inv mat.Dense
	if err := inv.Inverse(cov); err != nil {
		return TrainingError{Family: m.Name(), Reason: "singular pooled covariance"}
	}

	m.W = make([][]float64, k)
	m.B = make([]float64, k)
	for c := 0; c < k; c++ {
		mu := mat.NewVecDense(d, append([]float64(nil), means[c]...))
		w := mat.NewVecDense(d, nil)
		w.MulVec(&inv, mu)
		m.W[c] = make([]float64, d)
		for j := 0; j < d; j++ {
			m.W[c][j] = w.AtVec(j)
		}
		prior := float64(counts[c]) / float64(n)
		if prior == 0 {
			prior = 1e-12
		}
		m.B[c] = -0.5*mat.Dot(w, mu) + math.Log(prior)
	}
	return nil
}

func (m *LDA) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, x := range X {
		best, bestV := 0, math.Inf(-1)
		for c := range m.W {
			v := m.B[c]
			for j, w := range m.W[c] {
				v += w * x[j]
			}
			if v > bestV {
				best, bestV = c, v
			}
		}
		out[i] = best
	}
	return out
}
