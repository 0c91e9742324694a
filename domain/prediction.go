package domain

import "time"

// PredictionResult is the scoring backend's answer for one application.
// LoanWillBePaidBack is the model's own verdict and stays authoritative;
// the client-side risk bucket derived from the probability is display-only
// and the two are not guaranteed to agree at the boundaries.
type PredictionResult struct {
	LoanPaidBackProbability float64 `json:"loan_paid_back_probability"`
	LoanWillBePaidBack      bool    `json:"loan_will_be_paid_back"`
	RiskLevel               string  `json:"risk_level"`
	Confidence              string  `json:"confidence"`
}

// RiskBucket is the discrete severity class a probability maps into.
type RiskBucket string

const (
	BucketSuccess RiskBucket = "success"
	BucketInfo    RiskBucket = "info"
	BucketWarning RiskBucket = "warning"
	BucketError   RiskBucket = "error"
)

// severity orders buckets from best to worst for monotonicity checks.
var severity = map[RiskBucket]int{
	BucketSuccess: 0,
	BucketInfo:    1,
	BucketWarning: 2,
	BucketError:   3,
}

// WorseThan reports whether b is a strictly worse bucket than other.
func (b RiskBucket) WorseThan(other RiskBucket) bool {
	return severity[b] > severity[other]
}

// RiskAssessment is the client-side classification of a probability.
type RiskAssessment struct {
	Bucket RiskBucket
	Label  string
}

// HistoryEntry is one past prediction as returned by /history,
// most recent first. Read-only.
type HistoryEntry struct {
	ID                 int       `json:"id"`
	LoanAmount         float64   `json:"loan_amount"`
	CreditScore        int       `json:"credit_score"`
	DefaultProbability float64   `json:"default_probability"`
	IsDefaultPredicted bool      `json:"is_default_predicted"`
	CreatedAt          time.Time `json:"created_at"`
}

// ModelInfo describes the deployed scoring model.
type ModelInfo struct {
	Accuracy        string   `json:"accuracy"`
	AUC             string   `json:"auc"`
	TrainingSamples string   `json:"training_samples"`
	Features        []string `json:"features"`
	TopFeature      string   `json:"top_feature"`
}
