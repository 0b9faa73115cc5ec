package schema

// AnalysisResult is the full evaluation record for one submission.
type AnalysisResult struct {
	URL            string          `json:"url,omitempty"`
	SubmissionID   string          `json:"submission_id,omitempty"`
	Platform       Platform        `json:"platform"`
	Status         ResultStatus    `json:"status"`
	ShouldReject   bool            `json:"should_reject"`
	BottedReason   string          `json:"botted_reason"`
	Reasons        []AnomalyReason `json:"reasons"`
	Notes          []AnomalyReason `json:"notes"`
	Summary        []SummaryLine   `json:"summary"`
	ScanCount      int             `json:"scan_count"`
	ValidScanCount int             `json:"valid_scan_count"`
	Error          string          `json:"error,omitempty"`
}

// EnrichedAnalysisResult adds presentation data to an AnalysisResult.
type EnrichedAnalysisResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	AnalysisResult
}

// GetPlainLabel returns a plain text label for a result status.
func GetPlainLabel(status ResultStatus) string {
	switch status {
	case StatusFlagged:
		return "Flagged"
	case StatusClean:
		return "Clean"
	case StatusInsufficient:
		return "Insufficient"
	default:
		return "Error"
	}
}

// EnrichResults adds rank and label to a list of analysis results.
func EnrichResults(results []AnalysisResult) []EnrichedAnalysisResult {
	output := make([]EnrichedAnalysisResult, len(results))
	for i, r := range results {
		output[i] = EnrichedAnalysisResult{
			Rank:           i + 1,
			Label:          GetPlainLabel(r.Status),
			AnalysisResult: r,
		}
	}
	return output
}

// CountFlagged returns how many results are flagged.
func CountFlagged(results []AnalysisResult) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFlagged {
			n++
		}
	}
	return n
}

// SubmissionReport is an AnalysisResult together with the valid scans it was computed from.
// Scan numbers in reasons and summary lines index into Scans.
type SubmissionReport struct {
	AnalysisResult
	Scans ScanSeries `json:"scans"`
}
