package main

import (
	"context"
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"pitchlab/internal/data"
	"pitchlab/internal/eval"
	"pitchlab/internal/inspect"
	"pitchlab/internal/models"
	"pitchlab/internal/split"
	"pitchlab/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	regen := flag.Bool("regen", false, "Regenerate the synthetic pitch dataset")
	n := flag.Int("n", 20000, "Number of synthetic records")
	missing := flag.Float64("missing", 0.02, "Fraction of synthetic rows with a blanked feature")
	dataPath := flag.String("data", "data/pitches.csv", "Input CSV path")
	cfgPath := flag.String("config", "", "Optional yaml sweep config")
	seed := flag.Int64("seed", 42, "Sweep seed (ignored when -config is set)")
	holdout := flag.Float64("holdout", 0.2, "Holdout fraction (ignored when -config is set)")
	folds := flag.Int("folds", 10, "Fold count (ignored when -config is set)")
	outModel := flag.String("out_model", "models/best_model.gob", "Winner model gob")
	outJSON := flag.String("out_json", "models/comparison.json", "Comparison result JSON")
	outCSV := flag.String("out_csv", "data/cv_metrics.csv", "Per-fold metric CSV")
	flag.Parse()

	cfg := models.DefaultSweep(*seed)
	cfg.Holdout = *holdout
	cfg.Folds = *folds
	if *cfgPath != "" {
		c, err := models.LoadSweep(*cfgPath)
		if err != nil { logger.Fatal("load sweep config", zap.Error(err)) }
		cfg = c
	}

	if *regen {
		logger.Info("generating synthetic pitches", zap.Int("n", *n), zap.String("out", *dataPath))
		if err := data.GenerateSyntheticPitches(*n, *missing, cfg.Seed, *dataPath); err != nil {
			logger.Fatal("generate dataset", zap.Error(err))
		}
	}

	ds, dropped, err := data.Load(*dataPath)
	if err != nil { logger.Fatal("prepare dataset", zap.Error(err)) }
	logger.Info("dataset prepared", zap.Int("records", ds.Len()), zap.Int("dropped", dropped))
	for _, lc := range ds.Summary() {
		logger.Info("label", zap.String("pitch", lc.Label), zap.Int("count", lc.Count), zap.Float64("percent", lc.Percent))
	}

	part, err := split.Split(ds, cfg.Holdout, cfg.Seed)
	if err != nil { logger.Fatal("split", zap.Error(err)) }
	foldAssign, err := split.MakeFolds(part.Train, cfg.Folds, cfg.Seed)
	if err != nil { logger.Fatal("make folds", zap.Error(err)) }
	logger.Info("partitioned",
		zap.Int("train", part.Train.Len()),
		zap.Int("holdout", part.Holdout.Len()),
		zap.Int("folds", foldAssign.K),
	)

	results := eval.Sweep(context.Background(), cfg.Classifiers, part.Train, foldAssign)
	for _, r := range results {
		logger.Info("spec evaluated", zap.String("spec", r.Spec.Name()), zap.Int("failed_folds", r.FailedFolds()))
	}

	cmp, err := eval.Compare(results, part.Train)
	if err != nil { logger.Fatal("compare", zap.Error(err)) }

	preds := cmp.Model.Predict(part.Holdout.X)
	cmp.HoldoutAccuracy = eval.Accuracy(part.Holdout.Y, preds)
	cmp.HoldoutKappa = eval.Kappa(part.Holdout.Y, preds)
	logger.Info("winner",
		zap.String("spec", cmp.Winner),
		zap.Float64("holdout_accuracy", cmp.HoldoutAccuracy),
		zap.Float64("holdout_kappa", cmp.HoldoutKappa),
	)
	for _, s := range cmp.Rankings {
		logger.Info("ranking",
			zap.String("spec", s.Spec),
			zap.Float64("mean_accuracy", s.MeanAccuracy),
			zap.Float64("stddev_accuracy", s.StdDevAccuracy),
			zap.Float64("mean_kappa", s.MeanKappa),
			zap.Int("failed", s.Failed),
		)
	}

	if table, err := inspect.Importances(cmp.Model, cmp.Features); err == nil {
		for _, e := range table {
			logger.Info("importance", zap.String("feature", e.Feature), zap.Float64("score", e.Score))
		}
	} else {
		logger.Info("importances unavailable", zap.String("reason", err.Error()))
	}

	if err := writeMetricsCSV(*outCSV, results); err != nil {
		logger.Warn("write metric csv", zap.Error(err))
	}
	if err := writeComparisonJSON(*outJSON, cmp); err != nil {
		logger.Warn("write comparison json", zap.Error(err))
	}
	if err := saveModel(*outModel, cmp.Model); err != nil {
		logger.Fatal("save model", zap.Error(err))
	}
	logger.Info("artifacts saved", zap.String("model", *outModel), zap.String("json", *outJSON))
	fmt.Println("Winner:", cmp.Winner)
}

func writeMetricsCSV(path string, results []eval.SpecResult) error {
	if err := os.MkdirAll("data", 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"spec", "fold", "accuracy", "kappa", "err"}); err != nil {
		return err
	}
	for _, r := range results {
		for _, m := range r.Metrics {
			rec := []string{
				m.Spec,
				strconv.Itoa(m.Fold),
				fmt.Sprintf("%.6f", m.Accuracy),
				fmt.Sprintf("%.6f", m.Kappa),
				m.Err,
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeComparisonJSON(path string, cmp *eval.ComparisonResult) error {
	if err := os.MkdirAll("models", 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func saveModel(path string, m models.Classifier) error {
	if err := os.MkdirAll("models", 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return nil
}
