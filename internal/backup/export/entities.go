package export

import (
	"archive/zip"
	"context"

	"encoding/json/v2"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/backup/stream"
	"github.com/inkwellapp/inkwell/internal/store"
)

// Every entity document is written even when its table is empty; an absent
// document and an empty one mean different things to import.

func exportBooks(ctx context.Context, s *store.Store, zw *zip.Writer) (int, error) {
	w, err := stream.NewWriter(zw, backup.BooksPath)
	if err != nil {
		return 0, err
	}

	for book, err := range s.Books.All(ctx) {
		if err != nil {
			return w.Count(), err
		}
		if err := w.Write(book); err != nil {
			return w.Count(), err
		}
	}

	return w.Count(), w.Close()
}

func exportCollections(ctx context.Context, s *store.Store, zw *zip.Writer) (int, error) {
	w, err := stream.NewWriter(zw, backup.CollectionsPath)
	if err != nil {
		return 0, err
	}

	for collection, err := range s.Collections.All(ctx) {
		if err != nil {
			return w.Count(), err
		}
		if err := w.Write(collection); err != nil {
			return w.Count(), err
		}
	}

	return w.Count(), w.Close()
}

func exportHighlights(ctx context.Context, s *store.Store, zw *zip.Writer) (int, error) {
	w, err := stream.NewWriter(zw, backup.HighlightsPath)
	if err != nil {
		return 0, err
	}

	for highlight, err := range s.Highlights.All(ctx) {
		if err != nil {
			return w.Count(), err
		}
		if err := w.Write(highlight); err != nil {
			return w.Count(), err
		}
	}

	return w.Count(), w.Close()
}

func exportProgress(ctx context.Context, s *store.Store, zw *zip.Writer) (int, error) {
	w, err := stream.NewWriter(zw, backup.ProgressPath)
	if err != nil {
		return 0, err
	}

	for progress, err := range s.Progress.All(ctx) {
		if err != nil {
			return w.Count(), err
		}
		if err := w.Write(progress); err != nil {
			return w.Count(), err
		}
	}

	return w.Count(), w.Close()
}

func exportChallenges(ctx context.Context, s *store.Store, zw *zip.Writer) (int, error) {
	w, err := stream.NewWriter(zw, backup.ChallengesPath)
	if err != nil {
		return 0, err
	}

	for challenge, err := range s.Challenges.All(ctx) {
		if err != nil {
			return w.Count(), err
		}
		if err := w.Write(challenge); err != nil {
			return w.Count(), err
		}
	}

	return w.Count(), w.Close()
}

// exportSettings writes the settings row as a single JSON object, not an
// array. Returns the number of keys.
func exportSettings(ctx context.Context, s *store.Store, zw *zip.Writer) (int, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return 0, err
	}

	w, err := zw.Create(backup.SettingsPath)
	if err != nil {
		return 0, err
	}
	if err := json.MarshalWrite(w, settings); err != nil {
		return 0, err
	}

	return len(settings), nil
}
