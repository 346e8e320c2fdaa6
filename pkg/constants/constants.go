package constants

// Page creation fields that never vary between worklog pages.
const (
	PageStatus            = "current"
	PageSubtype           = "live"
	PagePosition          = 0
	StorageRepresentation = "storage"
)

// Naming of the worklog hierarchy.
const (
	YearFolderSuffix = "_워크로그"
	PageTitleSuffix  = "_워크로그"

	// DefaultPlaceholderDate is the date baked into the worklog template body.
	DefaultPlaceholderDate = "2025-08-07"

	// DateLayout is the format of the substituted target date.
	DateLayout = "2006-01-02"
)

var (
	HTTPScheme       = "http"
	HTTPSecureScheme = "https"
)
