package eval

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"pitchlab/internal/data"
	"pitchlab/internal/models"
	"pitchlab/internal/split"
)

// specSeedStride separates the derived seed ranges of consecutive specs in a
// sweep so no (spec, fold) pair shares a seed.
const specSeedStride = 1000

// SpecResult pairs a spec with its per-fold metrics, sorted by fold id.
type SpecResult struct {
	Spec    models.Spec  `json:"spec"`
	Metrics []FoldMetric `json:"metrics"`
}

// FailedFolds counts the folds that did not produce a valid metric.
func (r SpecResult) FailedFolds() int {
	n := 0
	for _, m := range r.Metrics {
		if m.Failed() {
			n++
		}
	}
	return n
}

// Evaluate trains spec once per fold on the held-in records and scores it on
// the held-out ones. Folds run in parallel; the returned slice is indexed by
// fold id regardless of completion order. A fold's training failure becomes a
// failed FoldMetric, never an error.
func Evaluate(ctx context.Context, spec models.Spec, train *data.Dataset, folds split.FoldAssignment) []FoldMetric {
	out := make([]FoldMetric, folds.K)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for f := 0; f < folds.K; f++ {
		f := f
		g.Go(func() error {
			out[f] = evalFold(ctx, spec, train, folds, f)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func evalFold(ctx context.Context, spec models.Spec, train *data.Dataset, folds split.FoldAssignment, f int) FoldMetric {
	m := FoldMetric{Spec: spec.Name(), Fold: f}
	if err := ctx.Err(); err != nil {
		m.Err = err.Error()
		return m
	}
	in := train.Select(folds.HeldIn(f))
	outSet := train.Select(folds.HeldOut(f))

	clf, err := models.New(spec.WithSeed(spec.Seed + int64(f)))
	if err != nil {
		m.Err = err.Error()
		return m
	}
	if err := clf.Fit(in.X, in.Y); err != nil {
		m.Err = err.Error()
		return m
	}
	preds := clf.Predict(outSet.X)
	m.Accuracy = Accuracy(outSet.Y, preds)
	m.Kappa = Kappa(outSet.Y, preds)
	return m
}

// Sweep evaluates every spec against the same fold assignment. Specs run in
// parallel; results come back in spec order.
func Sweep(ctx context.Context, specs []models.Spec, train *data.Dataset, folds split.FoldAssignment) []SpecResult {
	out := make([]SpecResult, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			derived := spec.WithSeed(spec.Seed + int64(i)*specSeedStride)
			out[i] = SpecResult{Spec: spec, Metrics: Evaluate(ctx, derived, train, folds)}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
