package schema

import (
	"encoding/json"
	"time"
)

// RawScan is one metric record as collected, before normalization.
// Absent metrics are 0; non-finite or negative values mark the scan missing.
type RawScan struct {
	CollectedAt time.Time `json:"collected_at"`
	Views       float64   `json:"views"`
	Likes       float64   `json:"likes"`
	Comments    float64   `json:"comments"`
	Shares      float64   `json:"shares"`
	Saves       float64   `json:"saves"`
	Extended    bool      `json:"extended,omitempty"`
}

// RawSeries is the scan history of one submission as loaded from a file or store.
type RawSeries struct {
	SubmissionID string    `json:"submission_id"`
	URL          string    `json:"url,omitempty"`
	Platform     Platform  `json:"platform"`
	Scans        []RawScan `json:"scans"`
}

// ScanSnapshot is one normalized measurement of a submission.
type ScanSnapshot struct {
	CollectedAt time.Time `json:"collected_at,omitzero"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	Shares      int64     `json:"shares"`
	Saves       int64     `json:"saves"`
	Missing     bool      `json:"missing,omitempty"`
}

// Value returns the counter for a metric.
func (s ScanSnapshot) Value(m Metric) int64 {
	switch m {
	case MetricViews:
		return s.Views
	case MetricLikes:
		return s.Likes
	case MetricComments:
		return s.Comments
	case MetricShares:
		return s.Shares
	case MetricSaves:
		return s.Saves
	default:
		return 0
	}
}

// AllZero reports whether every metric is exactly zero.
func (s ScanSnapshot) AllZero() bool {
	return s.Views == 0 && s.Likes == 0 && s.Comments == 0 && s.Shares == 0 && s.Saves == 0
}

// ScanSeries is an immutable, oldest-first sequence of snapshots.
type ScanSeries struct {
	scans []ScanSnapshot
}

// NewScanSeries copies scans into a series.
func NewScanSeries(scans []ScanSnapshot) ScanSeries {
	cp := make([]ScanSnapshot, len(scans))
	copy(cp, scans)
	return ScanSeries{scans: cp}
}

// Len returns the number of scans.
func (s ScanSeries) Len() int { return len(s.scans) }

// At returns the scan at index i.
func (s ScanSeries) At(i int) ScanSnapshot { return s.scans[i] }

// Has reports whether index i is inside the series.
func (s ScanSeries) Has(i int) bool { return i >= 0 && i < len(s.scans) }

// Scans returns a copy of the snapshots.
func (s ScanSeries) Scans() []ScanSnapshot {
	cp := make([]ScanSnapshot, len(s.scans))
	copy(cp, s.scans)
	return cp
}

// Valid returns the series without scans flagged missing.
func (s ScanSeries) Valid() ScanSeries {
	valid := make([]ScanSnapshot, 0, len(s.scans))
	for _, scan := range s.scans {
		if !scan.Missing {
			valid = append(valid, scan)
		}
	}
	return ScanSeries{scans: valid}
}

// MissingCount returns how many scans are flagged missing.
func (s ScanSeries) MissingCount() int {
	n := 0
	for _, scan := range s.scans {
		if scan.Missing {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the series as a plain array of snapshots.
func (s ScanSeries) MarshalJSON() ([]byte, error) {
	if s.scans == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.scans)
}

// UnmarshalJSON decodes a plain array of snapshots.
func (s *ScanSeries) UnmarshalJSON(data []byte) error {
	var scans []ScanSnapshot
	if err := json.Unmarshal(data, &scans); err != nil {
		return err
	}
	s.scans = scans
	return nil
}

// EffectiveMetricPair is the previous and current value of one metric used by
// magnitude comparisons. When Bridged is set the current side comes from the
// scan after a glitched reading.
type EffectiveMetricPair struct {
	Metric    Metric `json:"metric"`
	Prev      int64  `json:"prev"`
	Curr      int64  `json:"curr"`
	PrevViews int64  `json:"prev_views"`
	CurrViews int64  `json:"curr_views"`
	Bridged   bool   `json:"bridged"`
}
