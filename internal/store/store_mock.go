package store

import (
	"context"
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetScanStore implements the StoreManager interface.
func (m *MockStoreManager) GetScanStore() contract.ScanStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ScanStore)
	return store
}

// GetHistoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockScanStore is a mock implementation of ScanStore for testing.
type MockScanStore struct {
	mock.Mock
}

var _ contract.ScanStore = &MockScanStore{} // Compile-time check

// GetScans implements the ScanStore interface.
func (m *MockScanStore) GetScans(ctx context.Context, submissionID string, platform schema.Platform) (schema.RawSeries, error) {
	args := m.Called(ctx, submissionID, platform)
	return args.Get(0).(schema.RawSeries), args.Error(1)
}

// FindByURL implements the ScanStore interface.
func (m *MockScanStore) FindByURL(ctx context.Context, url string) (schema.SubmissionRecord, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(schema.SubmissionRecord), args.Error(1)
}

// AppendInternalNotes implements the ScanStore interface.
func (m *MockScanStore) AppendInternalNotes(ctx context.Context, submissionID string, notes string) error {
	args := m.Called(ctx, submissionID, notes)
	return args.Error(0)
}

// ImportSeries implements the ScanStore interface.
func (m *MockScanStore) ImportSeries(ctx context.Context, series schema.RawSeries) error {
	args := m.Called(ctx, series)
	return args.Error(0)
}

// ListSubmissions implements the ScanStore interface.
func (m *MockScanStore) ListSubmissions(ctx context.Context, platform schema.Platform) ([]schema.SubmissionRecord, error) {
	args := m.Called(ctx, platform)
	records, _ := args.Get(0).([]schema.SubmissionRecord)
	return records, args.Error(1)
}

// GetStatus implements the ScanStore interface.
func (m *MockScanStore) GetStatus() (schema.ScanStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ScanStoreStatus), args.Error(1)
}

// Close implements the ScanStore interface.
func (m *MockScanStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalSubmissions, flaggedSubmissions int) error {
	args := m.Called(runID, endTime, totalSubmissions, flaggedSubmissions)
	return args.Error(0)
}

// RecordVerdict implements the HistoryStore interface.
func (m *MockHistoryStore) RecordVerdict(runID int64, record schema.VerdictRecord) error {
	args := m.Called(runID, record)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetAllVerdicts implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllVerdicts() ([]schema.VerdictRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.VerdictRecord)
	return records, args.Error(1)
}

// GetVerdictsForSubmission implements the HistoryStore interface.
func (m *MockHistoryStore) GetVerdictsForSubmission(submissionID string) ([]schema.VerdictRecord, error) {
	args := m.Called(submissionID)
	records, _ := args.Get(0).([]schema.VerdictRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
