package cli

import (
	"fmt"
	"io"
	"math"
	"sort"

	"loan-predictor/domain"
	"loan-predictor/service"
)

// renderOutcome prints one prediction. The verdict line follows the
// backend's own boolean; the bucket and label are the client-side
// classification of the probability.
func renderOutcome(w io.Writer, outcome service.Outcome) {
	verdict := "Loan will be paid back"
	if !outcome.Result.LoanWillBePaidBack {
		verdict = "High default risk"
	}
	pct := int(math.Round(outcome.Result.LoanPaidBackProbability * 100))

	fmt.Fprintf(w, "%s\n", verdict)
	fmt.Fprintf(w, "Payback probability: %d%%\n", pct)
	fmt.Fprintf(w, "Assessment:          [%s] %s\n", outcome.Risk.Bucket, outcome.Risk.Label)
	fmt.Fprintf(w, "Risk level:          %s\n", outcome.Result.RiskLevel)
	fmt.Fprintf(w, "Confidence:          %s\n", outcome.Result.Confidence)
}

func renderHistory(w io.Writer, result service.HistoryResult) {
	if len(result.Entries) == 0 {
		fmt.Fprintln(w, "No predictions yet")
		return
	}
	if result.Stale {
		fmt.Fprintln(w, "(backend unreachable, showing cached results)")
	}
	for _, entry := range result.Entries {
		tag := "Safe"
		if entry.IsDefaultPredicted {
			tag = "Risky"
		}
		fmt.Fprintf(w, "#%d  loan $%.0f  credit %d  default %.1f%%  %s\n",
			entry.ID, entry.LoanAmount, entry.CreditScore,
			entry.DefaultProbability*100, tag)
	}
}

func renderViolations(w io.Writer, violations domain.FieldViolations) {
	fields := make([]string, 0, len(violations))
	for name := range violations {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	fmt.Fprintln(w, "The application has invalid fields:")
	for _, name := range fields {
		fmt.Fprintf(w, "  %-22s %s\n", name, violations[name])
	}
}
