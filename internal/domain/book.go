package domain

// Book represents an e-book's metadata, keyed by ISBN.
// A Book may exist without a stored file payload (metadata-only import);
// the payload, when present, lives in the payload store under the same ISBN.
type Book struct {
	Record
	ISBN      string `json:"isbn" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author"`
	Genre     string `json:"genre,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// BookFile describes a stored book payload. The raw bytes live on the
// filesystem; this sidecar record keeps the original file name and MIME type
// so exports can restore the payload faithfully.
type BookFile struct {
	ISBN     string `json:"isbn" validate:"required"`
	FileName string `json:"file_name" validate:"required"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// DefaultEpubMimeType is used when a payload's MIME type cannot be determined.
const DefaultEpubMimeType = "application/epub+zip"
