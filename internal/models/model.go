package models

import "fmt"

// Classifier is the uniform contract every family implements. Fit must be
// deterministic for a fixed Seed in the family's Spec; Predict is
// side-effect-free.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	Name() string
}

// TrainingError reports a subset a family cannot fit.
type TrainingError struct {
	Family string
	Reason string
}

func (e TrainingError) Error() string {
	return fmt.Sprintf("models: %s cannot train: %s", e.Family, e.Reason)
}

func numClasses(y []int) int {
	max := -1
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max + 1
}

func distinctLabels(y []int) int {
	seen := map[int]bool{}
	for _, v := range y {
		seen[v] = true
	}
	return len(seen)
}

// checkTrainable enforces the shared preconditions: at least two distinct
// labels and the family's minimum viable sample count.
func checkTrainable(family string, X [][]float64, y []int, minSamples int) error {
	if len(X) != len(y) {
		return TrainingError{Family: family, Reason: fmt.Sprintf("%d feature rows vs %d labels", len(X), len(y))}
	}
	if len(X) < minSamples {
		return TrainingError{Family: family, Reason: fmt.Sprintf("%d records below minimum %d", len(X), minSamples)}
	}
	if distinctLabels(y) < 2 {
		return TrainingError{Family: family, Reason: "fewer than 2 distinct labels"}
	}
	return nil
}

// majority returns the most frequent class in counts, lowest index on ties.
func majority(counts []int) int {
	best, bestN := 0, -1
	for c, n := range counts {
		if n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
