package models

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Family identifies one classifier family.
type Family string

const (
	FamilyLDA    Family = "lda"
	FamilyTree   Family = "tree"
	FamilyKNN    Family = "knn"
	FamilyKernel Family = "kernel"
	FamilyForest Family = "forest"
)

// Spec is the immutable configuration of one classifier family. Zero-valued
// parameters fall back to the family defaults applied by New.
type Spec struct {
	Family Family `yaml:"family" json:"family"`
	Seed   int64  `yaml:"seed" json:"seed"`

	// tree / forest
	Trees           int `yaml:"trees,omitempty" json:"trees,omitempty"`
	MaxDepth        int `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	MinSamplesSplit int `yaml:"min_samples_split,omitempty" json:"min_samples_split,omitempty"`
	MaxFeatures     int `yaml:"max_features,omitempty" json:"max_features,omitempty"`

	// knn
	Neighbors int `yaml:"neighbors,omitempty" json:"neighbors,omitempty"`

	// kernel
	Gamma  float64 `yaml:"gamma,omitempty" json:"gamma,omitempty"`
	Lambda float64 `yaml:"lambda,omitempty" json:"lambda,omitempty"`
	Epochs int     `yaml:"epochs,omitempty" json:"epochs,omitempty"`
}

func (s Spec) Name() string { return string(s.Family) }

// WithSeed returns a copy of the spec carrying the given seed.
func (s Spec) WithSeed(seed int64) Spec {
	s.Seed = seed
	return s
}

// DefaultSpecs is the fixed comparison sweep: one spec per family, all
// sharing one seed.
func DefaultSpecs(seed int64) []Spec {
	return []Spec{
		{Family: FamilyLDA, Seed: seed},
		{Family: FamilyTree, Seed: seed, MaxDepth: 10, MinSamplesSplit: 20},
		{Family: FamilyKNN, Seed: seed, Neighbors: 7},
		{Family: FamilyKernel, Seed: seed, Gamma: 0.5, Lambda: 1e-4, Epochs: 3},
		{Family: FamilyForest, Seed: seed, Trees: 50, MaxDepth: 10, MinSamplesSplit: 10},
	}
}

// New constructs an unfitted classifier for the spec.
func New(s Spec) (Classifier, error) {
	switch s.Family {
	case FamilyLDA:
		return NewLDA(s.Seed), nil
	case FamilyTree:
		dt := NewDecisionTree(s.Seed)
		if s.MaxDepth > 0 {
			dt.MaxDepth = s.MaxDepth
		}
		if s.MinSamplesSplit > 0 {
			dt.MinSamplesSplit = s.MinSamplesSplit
		}
		if s.MaxFeatures > 0 {
			dt.MaxFeatures = s.MaxFeatures
		}
		return dt, nil
	case FamilyKNN:
		knn := NewKNN(s.Seed)
		if s.Neighbors > 0 {
			knn.K = s.Neighbors
		}
		return knn, nil
	case FamilyKernel:
		km := NewKernelMachine(s.Seed)
		if s.Gamma > 0 {
			km.Gamma = s.Gamma
		}
		if s.Lambda > 0 {
			km.Lambda = s.Lambda
		}
		if s.Epochs > 0 {
			km.Epochs = s.Epochs
		}
		return km, nil
	case FamilyForest:
		rf := NewRandomForest(s.Seed)
		if s.Trees > 0 {
			rf.NEstimators = s.Trees
		}
		if s.MaxDepth > 0 {
			rf.MaxDepth = s.MaxDepth
		}
		if s.MinSamplesSplit > 0 {
			rf.MinSamples = s.MinSamplesSplit
		}
		if s.MaxFeatures > 0 {
			rf.MaxFeatures = s.MaxFeatures
		}
		return rf, nil
	default:
		return nil, fmt.Errorf("models: unknown family %q", s.Family)
	}
}

// SweepConfig declares one full comparison run.
type SweepConfig struct {
	Seed        int64   `yaml:"seed"`
	Holdout     float64 `yaml:"holdout"`
	Folds       int     `yaml:"folds"`
	Classifiers []Spec  `yaml:"classifiers"`
}

// DefaultSweep mirrors the reference analysis: 20% holdout, 10 folds, all
// five families under one seed.
func DefaultSweep(seed int64) SweepConfig {
	return SweepConfig{
		Seed:        seed,
		Holdout:     0.2,
		Folds:       10,
		Classifiers: DefaultSpecs(seed),
	}
}

// LoadSweep reads a yaml sweep config. Classifier seeds default to the sweep
// seed when omitted.
func LoadSweep(path string) (SweepConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SweepConfig{}, err
	}
	cfg := SweepConfig{}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return SweepConfig{}, err
	}
	if cfg.Holdout == 0 {
		cfg.Holdout = 0.2
	}
	if cfg.Folds == 0 {
		cfg.Folds = 10
	}
	if len(cfg.Classifiers) == 0 {
		cfg.Classifiers = DefaultSpecs(cfg.Seed)
	}
	for i := range cfg.Classifiers {
		if cfg.Classifiers[i].Seed == 0 {
			cfg.Classifiers[i].Seed = cfg.Seed
		}
	}
	return cfg, nil
}
