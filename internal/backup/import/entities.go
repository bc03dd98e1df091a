package backupimport

import (
	"context"
	"fmt"
	"mime"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/id"
	"github.com/inkwellapp/inkwell/internal/payload"
)

// apply writes the decoded archive into the store. Books go first so that
// collections and challenges never reference an ISBN the archive carries but
// the store does not.
func (i *Importer) apply(ctx context.Context, c *contents, sel backup.Selection, result *backup.ImportResult) error {
	if sel.Books {
		n, files, err := i.applyBooks(ctx, c)
		if err != nil {
			return err
		}
		result.Imported["books"] = n
		result.Files = files
	}
	if sel.Collections {
		n, err := i.applyCollections(ctx, c.collections)
		if err != nil {
			return err
		}
		result.Imported["collections"] = n
	}
	if sel.Challenges {
		n, err := i.applyChallenges(ctx, c.challenges)
		if err != nil {
			return err
		}
		result.Imported["challenges"] = n
	}
	if sel.Highlights {
		n, err := i.applyHighlights(ctx, c.highlights)
		if err != nil {
			return err
		}
		result.Imported["highlights"] = n
	}
	if sel.Progress {
		n, err := i.applyProgress(ctx, c.progress)
		if err != nil {
			return err
		}
		result.Imported["progress"] = n
	}
	if sel.Settings && c.settings != nil {
		if _, err := i.store.MergeSettings(ctx, c.settings); err != nil {
			return err
		}
		result.Imported["settings"] = len(c.settings)
	}
	return nil
}

// applyBooks upserts each book by ISBN. When the archive carries a payload
// for the ISBN, metadata and payload land together through the same atomic
// path normal adds use; the payload is removed again if the metadata write
// fails.
func (i *Importer) applyBooks(ctx context.Context, c *contents) (books, files int, err error) {
	for _, book := range c.books {
		if err := ctx.Err(); err != nil {
			return books, files, err
		}
		if book.ISBN == "" {
			return books, files, backup.ErrCorruptedArchive.WithCause(fmt.Errorf("book %q has no isbn", book.Title))
		}
		if book.CreatedAt.IsZero() {
			book.InitTimestamps()
		}

		entry, hasFile := c.files[book.ISBN]
		if !hasFile {
			if err := i.store.Books.Put(ctx, book.ISBN, book); err != nil {
				return books, files, err
			}
			books++
			continue
		}

		ext := payload.Ext(entry.Name)
		rc, err := entry.Open()
		if err != nil {
			return books, files, backup.ErrCorruptedArchive.WithCause(err)
		}
		size, err := i.payloads.Save(book.ISBN, ext, rc)
		rc.Close()
		if err != nil {
			return books, files, err
		}

		file := &domain.BookFile{
			ISBN:     book.ISBN,
			FileName: book.ISBN + ext,
			MimeType: mimeForExt(ext),
			Size:     size,
		}
		if err := i.store.PutBookWithFile(ctx, book, file); err != nil {
			if rmErr := i.payloads.Delete(book.ISBN, ext); rmErr != nil {
				i.logger.Warn("failed to clean up payload after metadata failure",
					"isbn", book.ISBN, "error", rmErr)
			}
			return books, files, err
		}
		books++
		files++
	}
	return books, files, nil
}

// applyCollections updates mutable fields in place when the id already
// exists, preserving the local creation time; unknown ids insert as new.
func (i *Importer) applyCollections(ctx context.Context, collections []*domain.Collection) (int, error) {
	count := 0
	for _, incoming := range collections {
		if incoming.ID == "" {
			return count, backup.ErrCorruptedArchive.WithCause(fmt.Errorf("collection %q has no id", incoming.Name))
		}

		unlock := i.store.Lock(incoming.ID)

		existing, err := i.store.Collections.Get(ctx, incoming.ID)
		if err == nil {
			existing.Name = incoming.Name
			existing.Description = incoming.Description
			existing.Books = incoming.Books
			existing.Touch()
			err = i.store.Collections.Put(ctx, existing.ID, existing)
		} else {
			if incoming.CreatedAt.IsZero() {
				incoming.InitTimestamps()
			}
			err = i.store.Collections.Put(ctx, incoming.ID, incoming)
		}

		unlock()
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (i *Importer) applyChallenges(ctx context.Context, challenges []*domain.Challenge) (int, error) {
	count := 0
	for _, incoming := range challenges {
		if incoming.ID == "" {
			return count, backup.ErrCorruptedArchive.WithCause(fmt.Errorf("challenge %q has no id", incoming.Title))
		}

		unlock := i.store.Lock(incoming.ID)

		existing, err := i.store.Challenges.Get(ctx, incoming.ID)
		if err == nil {
			existing.Title = incoming.Title
			existing.Description = incoming.Description
			existing.GoalCount = incoming.GoalCount
			existing.Categories = incoming.Categories
			existing.Deadline = incoming.Deadline
			existing.IsPrivate = incoming.IsPrivate
			existing.Books = incoming.Books
			existing.Touch()
			err = i.store.Challenges.Put(ctx, existing.ID, existing)
		} else {
			if incoming.CreatedAt.IsZero() {
				incoming.InitTimestamps()
			}
			err = i.store.Challenges.Put(ctx, incoming.ID, incoming)
		}

		unlock()
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// applyHighlights assigns every highlight a fresh id instead of trusting the
// archive's, so archives from other devices can never collide with local
// ids. Re-importing the same archive therefore adds highlights again; the
// other entity types stay idempotent.
func (i *Importer) applyHighlights(ctx context.Context, highlights []*domain.Highlight) (int, error) {
	count := 0
	for _, highlight := range highlights {
		highlightID, err := id.Generate(id.PrefixHighlight)
		if err != nil {
			return count, err
		}
		highlight.ID = highlightID
		if err := i.store.Highlights.Put(ctx, highlight.ID, highlight); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// applyProgress upserts by ISBN, the natural key for progress records.
func (i *Importer) applyProgress(ctx context.Context, progress []*domain.ReadingProgress) (int, error) {
	count := 0
	for _, p := range progress {
		if p.ISBN == "" {
			return count, backup.ErrCorruptedArchive.WithCause(fmt.Errorf("progress record has no isbn"))
		}
		if err := i.store.Progress.Put(ctx, p.ISBN, p); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func mimeForExt(ext string) string {
	if ext == payload.DefaultExt {
		return domain.DefaultEpubMimeType
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
