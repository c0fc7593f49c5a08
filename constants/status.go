package constants

// ItemStatus is the outcome of one item in an extraction run.
type ItemStatus string

// Stable values (stored as-is in the run ledger).
const (
	ItemStatusSkipped   ItemStatus = "SKIPPED"    // specs.json exists and --force not given
	ItemStatusInvalid   ItemStatus = "INVALID"    // rejected by the image validator
	ItemStatusOCRFailed ItemStatus = "OCR_FAILED" // timeout, engine fault or other recognition error
	ItemStatusNoData    ItemStatus = "NO_DATA"    // zero fields extracted
	ItemStatusExtracted ItemStatus = "EXTRACTED"  // specs.json written
	ItemStatusFailed    ItemStatus = "FAILED"     // write or unexpected error
)

// IssueKind classifies an audit finding.
type IssueKind string

const (
	IssueMissingFile   IssueKind = "missing_file"
	IssueMissingFields IssueKind = "missing_fields"
	IssueParseError    IssueKind = "parse_error"
)
