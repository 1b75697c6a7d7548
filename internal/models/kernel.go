package models

import (
	"math"
	"math/rand"
)

// KernelMachine is a one-vs-rest RBF-kernel margin classifier trained with
// kernelized Pegasos: seeded stochastic subgradient steps over the
// standardized training set. Support coefficients per class live in Alpha.
type KernelMachine struct {
	Gamma  float64
	Lambda float64
	Epochs int
	Seed   int64

	Scaler     *Scaler
	X          [][]float64
	Y          []int
	Alpha      [][]float64
	Steps      int
	NumClasses int
}

func NewKernelMachine(seed int64) *KernelMachine {
	return &KernelMachine{Gamma: 0.5, Lambda: 1e-4, Epochs: 3, Seed: seed}
}

func (m *KernelMachine) Name() string { return "KernelMachine" }

func (m *KernelMachine) rbf(a, b []float64) float64 {
	return math.Exp(-m.Gamma * euclidSquared(a, b))
}

func (m *KernelMachine) Fit(X [][]float64, y []int) error {
	if err := checkTrainable(m.Name(), X, y, 10); err != nil {
		return err
	}
	if m.Epochs <= 0 {
		m.Epochs = 3
	}
	m.Scaler = FitScaler(X)
	m.X = m.Scaler.Transform(X)
	m.Y = append([]int(nil), y...)
	m.NumClasses = numClasses(y)
	n := len(m.X)
	m.Steps = m.Epochs * n
	m.Alpha = make([][]float64, m.NumClasses)

	rng := rand.New(rand.NewSource(m.Seed))
	for c := 0; c < m.NumClasses; c++ {
		alpha := make([]float64, n)
		sign := make([]float64, n)
		for i, yi := range m.Y {
			if yi == c {
				sign[i] = 1
			} else {
				sign[i] = -1
			}
		}
		for t := 1; t <= m.Steps; t++ {
			i := rng.Intn(n)
			s := 0.0
			for j := 0; j < n; j++ {
				if alpha[j] == 0 {
					continue
				}
				s += alpha[j] * sign[j] * m.rbf(m.X[j], m.X[i])
			}
			margin := sign[i] * s / (m.Lambda * float64(t))
			if margin < 1 {
				alpha[i]++
			}
		}
		m.Alpha[c] = alpha
	}
	return nil
}

func (m *KernelMachine) decision(c int, x []float64) float64 {
	s := 0.0
	for j, a := range m.Alpha[c] {
		if a == 0 {
			continue
		}
		sign := -1.0
		if m.Y[j] == c {
			sign = 1.0
		}
		s += a * sign * m.rbf(m.X[j], x)
	}
	return s / (m.Lambda * float64(m.Steps))
}

func (m *KernelMachine) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, raw := range X {
		x := m.Scaler.TransformRow(raw)
		best, bestV := 0, math.Inf(-1)
		for c := 0; c < m.NumClasses; c++ {
			v := m.decision(c, x)
			if v > bestV {
				best, bestV = c, v
			}
		}
		out[i] = best
	}
	return out
}
