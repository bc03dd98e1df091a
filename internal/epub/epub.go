// Package epub reads metadata from EPUB containers.
//
// An EPUB is a zip archive whose META-INF/container.xml points at an OPF
// package document carrying Dublin Core metadata. Only the handful of fields
// the library cares about (title, creator, identifier, language) are decoded.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"

	apperrors "github.com/inkwellapp/inkwell/internal/errors"
)

// Metadata holds the fields extracted from an EPUB's package document.
type Metadata struct {
	Title    string
	Author   string
	ISBN     string
	Language string
}

type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type packageDoc struct {
	Metadata struct {
		Titles      []string     `xml:"title"`
		Creators    []string     `xml:"creator"`
		Languages   []string     `xml:"language"`
		Identifiers []identifier `xml:"identifier"`
	} `xml:"metadata"`
}

type identifier struct {
	Scheme string `xml:"scheme,attr"`
	Value  string `xml:",chardata"`
}

// ReadMetadata opens the EPUB at path and extracts its metadata.
func ReadMetadata(path string) (*Metadata, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperrors.ArchiveFormatf("not an EPUB container: %v", err)
	}
	defer zr.Close()
	return readMetadata(&zr.Reader)
}

// ReadMetadataFrom extracts metadata from an EPUB already in memory or
// accessible through a ReaderAt.
func ReadMetadataFrom(r io.ReaderAt, size int64) (*Metadata, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, apperrors.ArchiveFormatf("not an EPUB container: %v", err)
	}
	return readMetadata(zr)
}

func readMetadata(zr *zip.Reader) (*Metadata, error) {
	opfPath, err := findPackagePath(zr)
	if err != nil {
		return nil, err
	}

	var pkg packageDoc
	if err := decodeXML(zr, opfPath, &pkg); err != nil {
		return nil, err
	}

	meta := &Metadata{}
	if len(pkg.Metadata.Titles) > 0 {
		meta.Title = strings.TrimSpace(pkg.Metadata.Titles[0])
	}
	if len(pkg.Metadata.Creators) > 0 {
		meta.Author = strings.TrimSpace(pkg.Metadata.Creators[0])
	}
	if len(pkg.Metadata.Languages) > 0 {
		meta.Language = strings.TrimSpace(pkg.Metadata.Languages[0])
	}
	meta.ISBN = pickISBN(pkg.Metadata.Identifiers)

	return meta, nil
}

func findPackagePath(zr *zip.Reader) (string, error) {
	var c container
	if err := decodeXML(zr, "META-INF/container.xml", &c); err != nil {
		return "", err
	}
	if len(c.Rootfiles) == 0 || c.Rootfiles[0].FullPath == "" {
		return "", apperrors.ArchiveFormat("container.xml names no package document")
	}
	return c.Rootfiles[0].FullPath, nil
}

func decodeXML(zr *zip.Reader, name string, dest any) error {
	f, err := zr.Open(name)
	if err != nil {
		return apperrors.ArchiveFormatf("missing %s: %v", name, err)
	}
	defer f.Close()

	if err := xml.NewDecoder(f).Decode(dest); err != nil {
		return apperrors.ArchiveFormatf("malformed %s: %v", name, err)
	}
	return nil
}

// pickISBN chooses the identifier most likely to be an ISBN: an explicit
// scheme attribute wins, then a urn:isbn prefix, then any 10/13-digit value.
func pickISBN(ids []identifier) string {
	for _, id := range ids {
		if strings.EqualFold(id.Scheme, "isbn") {
			return normalizeISBN(id.Value)
		}
	}
	for _, id := range ids {
		v := strings.TrimSpace(id.Value)
		if rest, ok := strings.CutPrefix(strings.ToLower(v), "urn:isbn:"); ok {
			return normalizeISBN(rest)
		}
	}
	for _, id := range ids {
		if v := normalizeISBN(id.Value); looksLikeISBN(v) {
			return v
		}
	}
	return ""
}

func normalizeISBN(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "-", "")
	return strings.ReplaceAll(v, " ", "")
}

func looksLikeISBN(v string) bool {
	if len(v) != 10 && len(v) != 13 {
		return false
	}
	for i, r := range v {
		if r >= '0' && r <= '9' {
			continue
		}
		// ISBN-10 may end in a checksum X.
		if len(v) == 10 && i == 9 && (r == 'X' || r == 'x') {
			continue
		}
		return false
	}
	return true
}

// Sniff reports whether a file name looks like an EPUB the watcher should
// pick up.
func Sniff(name string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".epub")
}
