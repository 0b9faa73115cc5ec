package scanfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/botscan/schema"
)

// csvColumns are the recognized header names.
var csvColumns = []string{"submission_id", "url", "platform", "collected_at", "views", "likes", "comments", "shares", "saves", "extended"}

// DecodeCSV reads scans with a header row. Consecutive rows sharing a
// submission_id (or url when no id column is present) form one series.
func DecodeCSV(r io.Reader) ([]schema.RawSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for k, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = k
	}
	if _, ok := index["views"]; !ok {
		return nil, fmt.Errorf("csv header must contain a views column (known columns: %s)", strings.Join(csvColumns, ", "))
	}

	field := func(rec []string, name string) string {
		k, ok := index[name]
		if !ok || k >= len(rec) {
			return ""
		}
		return rec[k]
	}

	var out []schema.RawSeries
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		id := strings.TrimSpace(field(rec, "submission_id"))
		url := strings.TrimSpace(field(rec, "url"))
		if id == "" {
			id = url
		}
		if len(out) == 0 || out[len(out)-1].SubmissionID != id {
			platform, err := resolvePlatform(field(rec, "platform"), url)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: %w", line, err)
			}
			out = append(out, schema.RawSeries{SubmissionID: id, URL: url, Platform: platform})
		}

		collected, err := parseTime(field(rec, "collected_at"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		extended := false
		if s := strings.TrimSpace(field(rec, "extended")); s != "" {
			extended = strings.EqualFold(s, "true") || s == "1" || strings.EqualFold(s, "yes")
		}
		cur := &out[len(out)-1]
		cur.Scans = append(cur.Scans, schema.RawScan{
			CollectedAt: collected,
			Views:       parseMetric(field(rec, "views")),
			Likes:       parseMetric(field(rec, "likes")),
			Comments:    parseMetric(field(rec, "comments")),
			Shares:      parseMetric(field(rec, "shares")),
			Saves:       parseMetric(field(rec, "saves")),
			Extended:    extended,
		})
	}
	return out, nil
}
