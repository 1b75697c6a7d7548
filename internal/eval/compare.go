package eval

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"pitchlab/internal/data"
	"pitchlab/internal/models"
)

// NoValidModelError means every spec failed every fold; nothing downstream
// can proceed.
type NoValidModelError struct{}

func (NoValidModelError) Error() string {
	return "eval: no classifier produced a single successful fold"
}

// SpecSummary aggregates one spec's resampled metrics.
type SpecSummary struct {
	Spec           string  `json:"spec"`
	MeanAccuracy   float64 `json:"mean_accuracy"`
	StdDevAccuracy float64 `json:"stddev_accuracy"`
	MeanKappa      float64 `json:"mean_kappa"`
	Succeeded      int     `json:"succeeded"`
	Failed         int     `json:"failed"`
}

// ComparisonResult ranks the sweep and carries the winner retrained on the
// full training subset. Holdout scores are filled in by the caller after the
// single final evaluation.
type ComparisonResult struct {
	Rankings        []SpecSummary `json:"rankings"`
	Winner          string        `json:"winner"`
	HoldoutAccuracy float64       `json:"holdout_accuracy"`
	HoldoutKappa    float64       `json:"holdout_kappa"`
	Features        []string      `json:"features"`
	Labels          []string      `json:"labels"`

	Model models.Classifier `json:"-"`
}

func summarize(r SpecResult) SpecSummary {
	s := SpecSummary{Spec: r.Spec.Name()}
	var accs, kaps []float64
	for _, m := range r.Metrics {
		if m.Failed() {
			s.Failed++
			continue
		}
		s.Succeeded++
		accs = append(accs, m.Accuracy)
		kaps = append(kaps, m.Kappa)
	}
	if len(accs) > 0 {
		s.MeanAccuracy = stat.Mean(accs, nil)
		s.MeanKappa = stat.Mean(kaps, nil)
	}
	if len(accs) > 1 {
		s.StdDevAccuracy = stat.StdDev(accs, nil)
	}
	return s
}

// Compare aggregates a finished sweep, ranks by mean accuracy (ties: lower
// spread, then spec name), and retrains the winning spec on all of train.
func Compare(results []SpecResult, train *data.Dataset) (*ComparisonResult, error) {
	summaries := make([]SpecSummary, len(results))
	bySpec := make(map[string]models.Spec, len(results))
	for i, r := range results {
		summaries[i] = summarize(r)
		bySpec[r.Spec.Name()] = r.Spec
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.MeanAccuracy != b.MeanAccuracy {
			return a.MeanAccuracy > b.MeanAccuracy
		}
		if a.StdDevAccuracy != b.StdDevAccuracy {
			return a.StdDevAccuracy < b.StdDevAccuracy
		}
		return a.Spec < b.Spec
	})

	winner := ""
	for _, s := range summaries {
		if s.Succeeded > 0 {
			winner = s.Spec
			break
		}
	}
	if winner == "" {
		return nil, NoValidModelError{}
	}

	clf, err := models.New(bySpec[winner])
	if err != nil {
		return nil, err
	}
	if err := clf.Fit(train.X, train.Y); err != nil {
		return nil, err
	}
	return &ComparisonResult{
		Rankings: summaries,
		Winner:   winner,
		Features: train.FeatureNames,
		Labels:   train.Labels,
		Model:    clf,
	}, nil
}
