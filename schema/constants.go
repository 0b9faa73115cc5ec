package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for scans and verdict history.
	DatabaseBackend string

	// Platform identifies the social network a submission was posted on.
	Platform string

	// Metric names one engagement counter on a scan.
	Metric string

	// Severity tells whether a reason rejects the submission or is informational.
	Severity string

	// ResultStatus is the outcome of evaluating one submission.
	ResultStatus string

	// SummaryCondition names a per-scan condition that the run summarizer collapses.
	SummaryCondition string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All platforms supported.
const (
	TikTok    Platform = "tiktok"
	Instagram Platform = "instagram"
	Snapchat  Platform = "snapchat"
	Twitter   Platform = "twitter"
	Facebook  Platform = "facebook"
	YouTube   Platform = "youtube"
)

// Engagement metrics carried by a scan.
const (
	MetricViews    Metric = "views"
	MetricLikes    Metric = "likes"
	MetricComments Metric = "comments"
	MetricShares   Metric = "shares"
	MetricSaves    Metric = "saves"
)

// Reason severities.
const (
	SeverityReject Severity = "reject"
	SeverityNote   Severity = "note"
)

// Evaluation outcomes.
const (
	StatusFlagged      ResultStatus = "flagged"
	StatusClean        ResultStatus = "clean"
	StatusInsufficient ResultStatus = "insufficient"
	StatusError        ResultStatus = "error"
)

// Conditions tracked by the run summarizer.
const (
	ConditionZeroLikes       SummaryCondition = "zero likes"
	ConditionZeroComments    SummaryCondition = "zero comments"
	ConditionLowCommentRatio SummaryCondition = "low comment ratio"
	ConditionUltraLow        SummaryCondition = "ultra-low engagement"
)

// AllPlatforms lists every platform in display order.
var AllPlatforms = []Platform{TikTok, Instagram, Snapchat, Twitter, Facebook, YouTube}

// AllMetrics lists every metric in scan column order.
var AllMetrics = []Metric{MetricViews, MetricLikes, MetricComments, MetricShares, MetricSaves}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidPlatforms lists all valid platforms.
var ValidPlatforms = map[Platform]struct{}{
	TikTok:    {},
	Instagram: {},
	Snapchat:  {},
	Twitter:   {},
	Facebook:  {},
	YouTube:   {},
}
