// Package scanfile loads raw scan series and URL lists from disk.
package scanfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/botscan/schema"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported scan file format")

// timeLayouts are accepted for collected_at values, tried in order.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", time.DateOnly}

// LoadFile reads every series in a .json or .csv file.
func LoadFile(path string) ([]schema.RawSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(f)
	case ".csv":
		return DecodeCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadURLList reads a newline-delimited URL list. Blank lines and lines
// starting with # are skipped.
func ReadURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// ReadURLFile opens path and reads it with ReadURLList.
func ReadURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadURLList(f)
}

// parseMetric turns a textual metric into a float. Empty text is an absent
// metric (0); anything unparseable becomes NaN so normalization flags it.
func parseMetric(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseTime accepts RFC 3339, a space separated datetime, a date, or unix seconds.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid collected_at %q", s)
}

// resolvePlatform uses the explicit platform when present and otherwise infers it from the URL.
func resolvePlatform(name, url string) (schema.Platform, error) {
	if strings.TrimSpace(name) != "" {
		return schema.ParsePlatform(name)
	}
	if url != "" {
		return schema.InferPlatform(url)
	}
	return "", fmt.Errorf("%w: no platform or url given", schema.ErrUnknownPlatform)
}
