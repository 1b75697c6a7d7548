package data

// FeatureColumns lists the tracking measurements used as model inputs, in the
// order they appear in every feature vector.
var FeatureColumns = []string{
	"release_speed",
	"release_pos_x",
	"release_pos_z",
	"pfx_x",
	"pfx_z",
	"plate_x",
	"plate_z",
	"release_spin_rate",
	"release_extension",
	"spin_axis",
}

// LabelColumn is the categorical target.
const LabelColumn = "pitch_name"

// PitchRecord is one observed pitch with all tracking measurements present.
type PitchRecord struct {
	PitchName        string  `json:"pitch_name"`
	ReleaseSpeed     float64 `json:"release_speed"`
	ReleasePosX      float64 `json:"release_pos_x"`
	ReleasePosZ      float64 `json:"release_pos_z"`
	PfxX             float64 `json:"pfx_x"`
	PfxZ             float64 `json:"pfx_z"`
	PlateX           float64 `json:"plate_x"`
	PlateZ           float64 `json:"plate_z"`
	ReleaseSpinRate  float64 `json:"release_spin_rate"`
	ReleaseExtension float64 `json:"release_extension"`
	SpinAxis         float64 `json:"spin_axis"`
}

// Vector returns the record's features in FeatureColumns order.
func (p PitchRecord) Vector() []float64 {
	return []float64{
		p.ReleaseSpeed, p.ReleasePosX, p.ReleasePosZ,
		p.PfxX, p.PfxZ, p.PlateX, p.PlateZ,
		p.ReleaseSpinRate, p.ReleaseExtension, p.SpinAxis,
	}
}

// Dataset is an immutable labeled feature table. Y holds class indices into
// Labels; partitioning produces index-selected copies, never mutations.
type Dataset struct {
	FeatureNames []string
	Labels       []string
	X            [][]float64
	Y            []int
}

func (d *Dataset) Len() int { return len(d.X) }

func (d *Dataset) NumClasses() int { return len(d.Labels) }

// Select returns a new Dataset containing the rows at idx, sharing the row
// slices and vocabulary with the receiver.
func (d *Dataset) Select(idx []int) *Dataset {
	out := &Dataset{
		FeatureNames: d.FeatureNames,
		Labels:       d.Labels,
		X:            make([][]float64, len(idx)),
		Y:            make([]int, len(idx)),
	}
	for i, j := range idx {
		out.X[i] = d.X[j]
		out.Y[i] = d.Y[j]
	}
	return out
}

// LabelCount is one row of the per-label frequency summary.
type LabelCount struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary reports count and percentage per label, in vocabulary order.
func (d *Dataset) Summary() []LabelCount {
	counts := make([]int, len(d.Labels))
	for _, y := range d.Y {
		counts[y]++
	}
	total := float64(len(d.Y))
	out := make([]LabelCount, len(d.Labels))
	for i, l := range d.Labels {
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(counts[i]) / total
		}
		out[i] = LabelCount{Label: l, Count: counts[i], Percent: pct}
	}
	return out
}
