package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

type Snapshotter interface {
	Snapshot(ctx context.Context) (state.Document, error)
}

// Service writes backups of the stored document.
type Service struct {
	docs Snapshotter
	now  func() time.Time
}

// NewService creates a new export Service.
func NewService(docs Snapshotter) *Service {
	return &Service{
		docs: docs,
		now:  time.Now,
	}
}

// Export writes the current document to w as indented JSON and returns it.
func (s *Service) Export(ctx context.Context, w io.Writer) (state.Document, error) {
	doc, err := s.docs.Snapshot(ctx)
	if err != nil {
		return state.Document{}, fmt.Errorf("loading document: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(doc); err != nil {
		return state.Document{}, fmt.Errorf("encoding backup: %w", err)
	}

	return doc, nil
}

// WriteFile exports into dir under the dated backup name and returns the path.
func (s *Service) WriteFile(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, Filename(s.now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	if _, err := s.Export(ctx, f); err != nil {
		f.Close()
		os.Remove(path)

		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	return path, nil
}

// Filename is the download name for a backup taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("ahorros-backup-%s.json", t.Format(time.DateOnly))
}

// Summary renders one line per transaction, newest first.
func Summary(txs []transaction.Transaction, currency string) string {
	sorted := append([]transaction.Transaction(nil), txs...)
	transaction.SortByNewest(sorted)

	var sb strings.Builder

	for _, t := range sorted {
		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n",
			t.CreatedAt.Format(time.DateOnly), t.Name, finance.FormatSigned(t.Signed(), currency), t.Category)
	}

	return sb.String()
}
