package backup

import "time"

// Selection is the mask of entity types included in an export or import.
type Selection struct {
	Books       bool `json:"books"`
	Collections bool `json:"collections"`
	Highlights  bool `json:"highlights"`
	Progress    bool `json:"progress"`
	Challenges  bool `json:"challenges"`
	Settings    bool `json:"settings"`
}

// SelectAll returns a selection covering every entity type.
func SelectAll() Selection {
	return Selection{
		Books:       true,
		Collections: true,
		Highlights:  true,
		Progress:    true,
		Challenges:  true,
		Settings:    true,
	}
}

// Any reports whether at least one entity type is selected.
func (s Selection) Any() bool {
	return s.Books || s.Collections || s.Highlights || s.Progress || s.Challenges || s.Settings
}

// ExportOptions configures archive creation.
type ExportOptions struct {
	Selection    Selection
	IncludeFiles bool   // Include binary book payloads
	OutputPath   string // Where to write the archive; generated when empty
}

// DefaultExportOptions selects everything including payloads.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Selection:    SelectAll(),
		IncludeFiles: true,
	}
}

// ImportOptions configures restoration from an archive.
type ImportOptions struct {
	Selection Selection
	DryRun    bool // Validate without writing
}

// ExportResult contains the outcome of an export.
type ExportResult struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Counts   EntityCounts  `json:"counts"`
	Duration time.Duration `json:"duration"`
	Checksum string        `json:"checksum"`
}

// ImportResult contains the outcome of an import.
type ImportResult struct {
	// Imported holds per-type counts of records actually written.
	Imported map[string]int `json:"imported"`
	// ImportedCount is the total across all entity types.
	ImportedCount int           `json:"imported_count"`
	Files         int           `json:"files"`
	Duration      time.Duration `json:"duration"`
}

// BackupInfo describes an existing backup file on disk.
type BackupInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationResult describes archive validity without importing it.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Manifest *Manifest `json:"manifest,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
}
