package service

import (
	"sort"

	"loan-predictor/config"
	"loan-predictor/domain"
)

// RiskThreshold is one row of the classification table: probabilities at or
// above Min fall into Bucket.
type RiskThreshold struct {
	Min    float64
	Bucket domain.RiskBucket
	Label  string
}

// RiskClassifier maps a payback probability to a display bucket. The table
// is evaluated top-down, first match wins; probabilities below every row get
// the fallback. Pure and total: no I/O, every p in [0,1] maps to exactly one
// bucket.
type RiskClassifier struct {
	table    []RiskThreshold
	fallback RiskThreshold
}

// NewRiskClassifier builds a classifier from the given rows. Rows are sorted
// descending by Min so the table stays monotonic regardless of input order.
func NewRiskClassifier(table []RiskThreshold, fallback RiskThreshold) *RiskClassifier {
	sorted := append([]RiskThreshold{}, table...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Min > sorted[j].Min
	})
	return &RiskClassifier{table: sorted, fallback: fallback}
}

// NewRiskClassifierFromConfig builds the classifier from the configured
// cutoffs.
func NewRiskClassifierFromConfig(cfg config.RiskConfig) *RiskClassifier {
	return NewRiskClassifier(
		[]RiskThreshold{
			{Min: cfg.SuccessMin, Bucket: domain.BucketSuccess, Label: "High confidence - will repay"},
			{Min: cfg.InfoMin, Bucket: domain.BucketInfo, Label: "Good - likely to repay"},
			{Min: cfg.WarningMin, Bucket: domain.BucketWarning, Label: "Uncertain"},
		},
		RiskThreshold{Bucket: domain.BucketError, Label: "High default risk"},
	)
}

// Classify returns the bucket and label for a probability.
func (c *RiskClassifier) Classify(probability float64) domain.RiskAssessment {
	for _, row := range c.table {
		if probability >= row.Min {
			return domain.RiskAssessment{Bucket: row.Bucket, Label: row.Label}
		}
	}
	return domain.RiskAssessment{Bucket: c.fallback.Bucket, Label: c.fallback.Label}
}
