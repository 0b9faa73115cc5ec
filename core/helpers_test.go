package core

import (
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

var baseTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// rawScans builds hourly raw scans from views and likes pairs with steady comments and shares.
func rawScans(pairs ...[2]float64) []schema.RawScan {
	scans := make([]schema.RawScan, len(pairs))
	for i, p := range pairs {
		scans[i] = schema.RawScan{
			CollectedAt: baseTime.Add(time.Duration(i) * time.Hour),
			Views:       p[0],
			Likes:       p[1],
			Comments:    p[0] / 100,
			Shares:      p[0] / 200,
			Saves:       p[0] / 200,
		}
	}
	return scans
}

// cleanSeries grows views and likes together.
func cleanSeries(id string) schema.RawSeries {
	return schema.RawSeries{
		SubmissionID: id,
		Platform:     schema.Twitter,
		Scans:        rawScans([2]float64{1000, 100}, [2]float64{1500, 150}, [2]float64{2200, 220}, [2]float64{3000, 300}),
	}
}

// flaggedSeries doubles likes while views barely move.
func flaggedSeries(id string) schema.RawSeries {
	return schema.RawSeries{
		SubmissionID: id,
		Platform:     schema.Twitter,
		Scans:        rawScans([2]float64{1000, 100}, [2]float64{1050, 200}),
	}
}

// shortSeries has a single scan and cannot be evaluated.
func shortSeries(id string) schema.RawSeries {
	return schema.RawSeries{
		SubmissionID: id,
		Platform:     schema.Twitter,
		Scans:        rawScans([2]float64{1000, 100}),
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		Workers:     2,
		Timeout:     time.Second,
		Precision:   2,
		Output:      schema.JSONOut,
		ScanBackend: schema.SQLiteBackend,
	}
}
