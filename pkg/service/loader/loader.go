package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// Loader discovers transcript files in a directory and normalizes them into
// domain transcripts. JSON files carry their own metadata; plain text files
// go through best-effort header inference.
type Loader struct {
	dir string
}

// Entry pairs a normalized transcript with the file it was loaded from
type Entry struct {
	Path       string
	Transcript *model.Transcript
}

// New creates a Loader reading from the given directory
func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// List loads every supported file in the directory and reports it alongside
// its source path, in sorted filename order. Files that cannot be parsed are
// skipped with a warning rather than failing the batch.
func (l *Loader) List(ctx context.Context) ([]Entry, error) {
	logger := logging.From(ctx)

	dirents, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read transcript directory", goerr.V("dir", l.dir))
	}

	entries := []Entry{}
	for _, de := range dirents {
		if de.IsDir() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		path := filepath.Join(l.dir, de.Name())

		var (
			transcript *model.Transcript
			loadErr    error
		)
		switch strings.ToLower(filepath.Ext(de.Name())) {
		case ".json":
			transcript, loadErr = loadJSONFile(path)
		case ".txt":
			transcript, loadErr = loadTextFile(path)
		default:
			logger.Warn("skipping unsupported transcript file", "path", path)
			continue
		}
		if loadErr != nil {
			logger.Warn("skipping unreadable transcript", "path", path, "error", loadErr)
			continue
		}

		entries = append(entries, Entry{Path: path, Transcript: transcript})
	}

	logger.Debug("discovered transcripts", "dir", l.dir, "count", len(entries))
	return entries, nil
}

// LoadBatch returns the directory's transcripts in sorted filename order
func (l *Loader) LoadBatch(ctx context.Context) ([]*model.Transcript, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	transcripts := make([]*model.Transcript, 0, len(entries))
	for _, e := range entries {
		transcripts = append(transcripts, e.Transcript)
	}
	return transcripts, nil
}

// fileStem returns the file name without its extension, used as the call ID
// when a file does not declare one
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
