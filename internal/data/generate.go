package data

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// pitchProfile parameterizes the measurement distributions of one pitch type.
type pitchProfile struct {
	name      string
	weight    float64
	speed     [2]float64 // mean, sd
	posX      [2]float64
	posZ      [2]float64
	pfxX      [2]float64
	pfxZ      [2]float64
	plateX    [2]float64
	plateZ    [2]float64
	spin      [2]float64
	extension [2]float64
	axis      [2]float64
}

var profiles = []pitchProfile{
	{"4-Seam Fastball", 0.33, [2]float64{94.5, 1.9}, [2]float64{-1.8, 0.7}, [2]float64{5.8, 0.4}, [2]float64{-0.55, 0.35}, [2]float64{1.35, 0.25}, [2]float64{0.0, 0.7}, [2]float64{2.6, 0.6}, [2]float64{2280, 160}, [2]float64{6.5, 0.3}, [2]float64{208, 14}},
	{"Sinker", 0.16, [2]float64{92.8, 1.8}, [2]float64{-1.9, 0.7}, [2]float64{5.6, 0.4}, [2]float64{-1.25, 0.3}, [2]float64{0.6, 0.25}, [2]float64{-0.2, 0.7}, [2]float64{2.1, 0.6}, [2]float64{2120, 150}, [2]float64{6.4, 0.3}, [2]float64{228, 12}},
	{"Slider", 0.22, [2]float64{85.1, 2.1}, [2]float64{-1.7, 0.7}, [2]float64{5.7, 0.4}, [2]float64{0.45, 0.4}, [2]float64{0.15, 0.35}, [2]float64{0.3, 0.8}, [2]float64{2.0, 0.7}, [2]float64{2430, 190}, [2]float64{6.3, 0.3}, [2]float64{75, 18}},
	{"Curveball", 0.12, [2]float64{79.3, 2.3}, [2]float64{-1.6, 0.7}, [2]float64{5.9, 0.4}, [2]float64{0.75, 0.4}, [2]float64{-1.05, 0.35}, [2]float64{0.2, 0.8}, [2]float64{1.8, 0.7}, [2]float64{2520, 210}, [2]float64{6.1, 0.3}, [2]float64{38, 16}},
	{"Changeup", 0.17, [2]float64{86.2, 2.0}, [2]float64{-1.8, 0.7}, [2]float64{5.5, 0.4}, [2]float64{-1.15, 0.35}, [2]float64{0.55, 0.3}, [2]float64{-0.3, 0.7}, [2]float64{2.0, 0.6}, [2]float64{1760, 170}, [2]float64{6.4, 0.3}, [2]float64{238, 15}},
}

func draw(rng *rand.Rand, p [2]float64) float64 { return p[0] + rng.NormFloat64()*p[1] }

// GenerateSyntheticPitches writes n Statcast-shaped rows to outPath. A
// missingRate fraction of rows gets one feature blanked so preparation has
// something to drop. The seed fully determines the output.
func GenerateSyntheticPitches(n int, missingRate float64, seed int64, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{LabelColumn}, FeatureColumns...)
	if err := w.Write(header); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	cum := make([]float64, len(profiles))
	s := 0.0
	for i, p := range profiles {
		s += p.weight
		cum[i] = s
	}

	for i := 0; i < n; i++ {
		u := rng.Float64() * s
		p := profiles[len(profiles)-1]
		for j, c := range cum {
			if u <= c {
				p = profiles[j]
				break
			}
		}
		axis := math.Mod(draw(rng, p.axis)+360, 360)
		vals := []float64{
			draw(rng, p.speed),
			draw(rng, p.posX),
			draw(rng, p.posZ),
			draw(rng, p.pfxX),
			draw(rng, p.pfxZ),
			draw(rng, p.plateX),
			draw(rng, p.plateZ),
			draw(rng, p.spin),
			draw(rng, p.extension),
			axis,
		}
		rec := make([]string, 0, len(vals)+1)
		rec = append(rec, p.name)
		for _, v := range vals {
			rec = append(rec, strconv.FormatFloat(v, 'f', 3, 64))
		}
		if missingRate > 0 && rng.Float64() < missingRate {
			rec[1+rng.Intn(len(vals))] = ""
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
