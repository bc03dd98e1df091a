package backup

import "time"

// FormatVersion is the archive format version. Increment major on breaking changes.
const FormatVersion = "1.0"

// ManifestPath is the manifest's entry name inside the archive.
const ManifestPath = "metadata.json"

// Manifest describes archive contents and metadata. Stored as metadata.json
// at the archive root, written last so it carries final counts.
type Manifest struct {
	FormatVersion  string    `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	InkwellVersion string    `json:"inkwell_version"`

	// Which entity types the archive carries
	Included Selection `json:"included"`

	// Content summary
	Counts        EntityCounts `json:"counts"`
	IncludesFiles bool         `json:"includes_files"`
}

// EntityCounts tracks per-type record counts for validation and reporting.
type EntityCounts struct {
	Books       int `json:"books"`
	Collections int `json:"collections"`
	Highlights  int `json:"highlights"`
	Progress    int `json:"progress"`
	Challenges  int `json:"challenges"`
	Settings    int `json:"settings"`
	Files       int `json:"files,omitempty"`
}

// Entry names for each entity document inside the archive.
const (
	BooksPath       = "books.json"
	CollectionsPath = "collections.json"
	HighlightsPath  = "highlights.json"
	ProgressPath    = "reading_progress.json"
	ChallengesPath  = "challenges.json"
	SettingsPath    = "settings.json"
	FilesDir        = "book_files"
)
