package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/discochess/pgnswing"
)

// DescriptiveStats contains basic descriptive statistics.
type DescriptiveStats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// Describe computes descriptive statistics for a sample.
func Describe(sample []float64) *DescriptiveStats {
	if len(sample) == 0 {
		return &DescriptiveStats{}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	d := &DescriptiveStats{
		N:      len(sample),
		Mean:   stat.Mean(sample, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
	// StdDev of a single value is NaN in gonum.
	if len(sample) > 1 {
		d.StdDev = stat.StdDev(sample, nil)
	}
	return d
}

// MannWhitneyResult contains the result of a Mann-Whitney U test.
type MannWhitneyResult struct {
	U           float64 `json:"u"`
	Z           float64 `json:"z"`
	PValue      float64 `json:"p"`
	Significant bool    `json:"significant"`
}

// MannWhitneyU performs the Mann-Whitney U test on two samples, using the
// normal approximation for the p-value.
func MannWhitneyU(sample1, sample2 []float64) *MannWhitneyResult {
	n1 := float64(len(sample1))
	n2 := float64(len(sample2))

	if n1 == 0 || n2 == 0 {
		return &MannWhitneyResult{PValue: 1}
	}

	type rankedValue struct {
		value  float64
		sample int
	}

	combined := make([]rankedValue, 0, int(n1+n2))
	for _, v := range sample1 {
		combined = append(combined, rankedValue{value: v, sample: 1})
	}
	for _, v := range sample2 {
		combined = append(combined, rankedValue{value: v, sample: 2})
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].value < combined[j].value
	})

	// Tied values share their average rank.
	ranks := make([]float64, len(combined))
	i := 0
	for i < len(combined) {
		j := i
		for j < len(combined) && combined[j].value == combined[i].value {
			j++
		}
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		i = j
	}

	var r1 float64
	for i, rv := range combined {
		if rv.sample == 1 {
			r1 += ranks[i]
		}
	}

	u1 := r1 - n1*(n1+1)/2
	u2 := n1*n2 - u1
	u := math.Min(u1, u2)

	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12)

	z := 0.0
	if sigma > 0 {
		z = (u - mu) / sigma
	}
	pValue := 2 * normalCDF(-math.Abs(z))

	return &MannWhitneyResult{
		U:           u,
		Z:           z,
		PValue:      pValue,
		Significant: pValue < 0.05,
	}
}

func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// EffectSize contains effect size metrics.
type EffectSize struct {
	CohensD        float64 `json:"cohens_d"`
	Interpretation string  `json:"interpretation"`
}

// ComputeEffectSize computes Cohen's d effect size.
func ComputeEffectSize(sample1, sample2 []float64) *EffectSize {
	if len(sample1) < 2 || len(sample2) < 2 {
		return &EffectSize{Interpretation: "undefined"}
	}

	mean1 := stat.Mean(sample1, nil)
	mean2 := stat.Mean(sample2, nil)
	std1 := stat.StdDev(sample1, nil)
	std2 := stat.StdDev(sample2, nil)

	n1 := float64(len(sample1))
	n2 := float64(len(sample2))
	pooledVar := ((n1-1)*std1*std1 + (n2-1)*std2*std2) / (n1 + n2 - 2)
	pooledStd := math.Sqrt(pooledVar)

	var d float64
	if pooledStd > 0 {
		d = (mean1 - mean2) / pooledStd
	}

	return &EffectSize{
		CohensD:        d,
		Interpretation: interpretCohensD(math.Abs(d)),
	}
}

func interpretCohensD(d float64) string {
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// Statistics compares the evaluation swings of the White and Black sides
// over a run.
type Statistics struct {
	White       *DescriptiveStats  `json:"white"`
	Black       *DescriptiveStats  `json:"black"`
	MannWhitney *MannWhitneyResult `json:"mann_whitney"`
	EffectSize  *EffectSize        `json:"effect_size"`
}

// Compute gathers swing statistics over every summarized game. Sides with
// no evaluation do not contribute a sample.
func Compute(rep *pgnswing.Report) *Statistics {
	white, black := swings(rep.Summaries)
	return &Statistics{
		White:       Describe(white),
		Black:       Describe(black),
		MannWhitney: MannWhitneyU(white, black),
		EffectSize:  ComputeEffectSize(white, black),
	}
}

func swings(summaries []pgnswing.Summary) (white, black []float64) {
	for _, s := range summaries {
		if s.WhiteScored > 0 {
			white = append(white, s.WhiteSwing)
		}
		if s.BlackScored > 0 {
			black = append(black, s.BlackSwing)
		}
	}
	return white, black
}

// histogram buckets data into n equal ranges between its minimum and maximum.
// It returns the counts and the lower bound and width of the buckets.
func histogram(data []float64, n int) (counts []int, lo, width float64) {
	counts = make([]int, n)
	if len(data) == 0 {
		return counts, 0, 0
	}

	lo, hi := data[0], data[0]
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	width = (hi - lo) / float64(n)

	for _, v := range data {
		b := int((v - lo) / width)
		if b >= n {
			b = n - 1
		}
		counts[b]++
	}
	return counts, lo, width
}
