//go:build integration || database

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/require"
)

var (
	// sharedBotscanPath holds the path to a shared botscan binary built once for all tests.
	sharedBotscanPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBotscanBinary returns the path to the botscan binary, building it once if needed.
func getBotscanBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "botscan-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		botscanPath := filepath.Join(tempDir, "botscan")
		buildCmd := exec.Command("go", "build", "-o", botscanPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build botscan: %v", err))
		}

		sharedBotscanPath = botscanPath
	})

	return sharedBotscanPath
}

// runBotscan runs the binary in dir with env appended to the current environment.
func runBotscan(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBotscanBinary(), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
	}
	return stdout.String(), err
}

var fixtureTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// fixtureScans builds hourly scans from views and likes pairs.
func fixtureScans(pairs ...[2]float64) []schema.RawScan {
	scans := make([]schema.RawScan, len(pairs))
	for i, p := range pairs {
		scans[i] = schema.RawScan{
			CollectedAt: fixtureTime.Add(time.Duration(i) * time.Hour),
			Views:       p[0],
			Likes:       p[1],
			Comments:    p[0] / 100,
			Shares:      p[0] / 200,
			Saves:       p[0] / 200,
		}
	}
	return scans
}

// writeFixture writes one clean and one botted Twitter series as JSON and returns the path.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	all := []schema.RawSeries{
		{
			SubmissionID: "organic",
			URL:          "https://twitter.com/acme/status/1",
			Platform:     schema.Twitter,
			Scans:        fixtureScans([2]float64{1000, 100}, [2]float64{1500, 150}, [2]float64{2200, 220}, [2]float64{3000, 300}),
		},
		{
			SubmissionID: "botted",
			URL:          "https://twitter.com/acme/status/2",
			Platform:     schema.Twitter,
			Scans:        fixtureScans([2]float64{1000, 100}, [2]float64{1050, 200}),
		},
	}
	data, err := json.Marshal(all)
	require.NoError(t, err)
	path := filepath.Join(dir, "series.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
