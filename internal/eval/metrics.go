// Package eval runs the cross-validated comparison sweep: identical fold
// assignments across families, per-fold accuracy and kappa, aggregation and
// winner selection.
package eval

// FoldMetric is one (spec, fold) performance record. A non-empty Err marks
// the fold failed; its scores are meaningless.
type FoldMetric struct {
	Spec     string  `json:"spec"`
	Fold     int     `json:"fold"`
	Accuracy float64 `json:"accuracy"`
	Kappa    float64 `json:"kappa"`
	Err      string  `json:"err,omitempty"`
}

func (m FoldMetric) Failed() bool { return m.Err != "" }

// Accuracy is the fraction of exact label matches.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// Kappa is Cohen's agreement-beyond-chance statistic. Two constant raters in
// full agreement score 1; expected agreement of 1 without observed agreement
// scores 0.
func Kappa(yTrue, yPred []int) float64 {
	n := len(yTrue)
	if n == 0 {
		return 0
	}
	k := 0
	for i := range yTrue {
		if yTrue[i] >= k {
			k = yTrue[i] + 1
		}
		if yPred[i] >= k {
			k = yPred[i] + 1
		}
	}
	rowMarg := make([]float64, k)
	colMarg := make([]float64, k)
	agree := 0
	for i := range yTrue {
		rowMarg[yTrue[i]]++
		colMarg[yPred[i]]++
		if yTrue[i] == yPred[i] {
			agree++
		}
	}
	po := float64(agree) / float64(n)
	pe := 0.0
	for c := 0; c < k; c++ {
		pe += rowMarg[c] * colMarg[c] / float64(n) / float64(n)
	}
	if pe >= 1 {
		if po >= 1 {
			return 1
		}
		return 0
	}
	return (po - pe) / (1 - pe)
}
