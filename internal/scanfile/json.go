package scanfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/huangsam/botscan/schema"
)

// jsonSeries mirrors schema.RawSeries with loosely typed metric values.
type jsonSeries struct {
	SubmissionID string     `json:"submission_id"`
	URL          string     `json:"url"`
	Platform     string     `json:"platform"`
	Scans        []jsonScan `json:"scans"`
}

type jsonScan struct {
	CollectedAt any  `json:"collected_at"`
	Views       any  `json:"views"`
	Likes       any  `json:"likes"`
	Comments    any  `json:"comments"`
	Shares      any  `json:"shares"`
	Saves       any  `json:"saves"`
	Extended    bool `json:"extended"`
}

// DecodeJSON reads a single series object or an array of them. Metric values
// may be numbers, numeric strings or null.
func DecodeJSON(r io.Reader) ([]schema.RawSeries, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	var raw []jsonSeries
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode series array: %w", err)
		}
	} else {
		var single jsonSeries
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("decode series: %w", err)
		}
		raw = []jsonSeries{single}
	}

	out := make([]schema.RawSeries, 0, len(raw))
	for k, js := range raw {
		rs, err := js.toRaw()
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", k, err)
		}
		out = append(out, rs)
	}
	return out, nil
}

func (js jsonSeries) toRaw() (schema.RawSeries, error) {
	platform, err := resolvePlatform(js.Platform, js.URL)
	if err != nil {
		return schema.RawSeries{}, err
	}
	rs := schema.RawSeries{
		SubmissionID: js.SubmissionID,
		URL:          js.URL,
		Platform:     platform,
		Scans:        make([]schema.RawScan, 0, len(js.Scans)),
	}
	if rs.SubmissionID == "" {
		rs.SubmissionID = js.URL
	}
	for i, s := range js.Scans {
		collected, err := parseTime(toText(s.CollectedAt))
		if err != nil {
			return schema.RawSeries{}, fmt.Errorf("scan %d: %w", i+1, err)
		}
		rs.Scans = append(rs.Scans, schema.RawScan{
			CollectedAt: collected,
			Views:       jsonMetric(s.Views),
			Likes:       jsonMetric(s.Likes),
			Comments:    jsonMetric(s.Comments),
			Shares:      jsonMetric(s.Shares),
			Saves:       jsonMetric(s.Saves),
			Extended:    s.Extended,
		})
	}
	return rs, nil
}

func jsonMetric(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case string:
		return parseMetric(x)
	default:
		return math.NaN()
	}
}

func toText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatInt(int64(x), 10)
	default:
		return fmt.Sprint(x)
	}
}
