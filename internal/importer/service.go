package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	enc "github.com/MrJamesThe3rd/ahorros/internal/encoding"
	"github.com/MrJamesThe3rd/ahorros/internal/importer/backup"
	"github.com/MrJamesThe3rd/ahorros/internal/importer/delimited"
	"github.com/MrJamesThe3rd/ahorros/internal/importer/pasted"
	"github.com/MrJamesThe3rd/ahorros/internal/importer/spreadsheet"
	"github.com/MrJamesThe3rd/ahorros/internal/mapping"
	"github.com/MrJamesThe3rd/ahorros/internal/normalize"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type TransactionAppender interface {
	Append(ctx context.Context, batch []transaction.Transaction) error
}

type DocumentReplacer interface {
	Replace(ctx context.Context, doc state.Document) error
}

type Service struct {
	backup       *backup.Parser
	parsers      map[Format]TableParser
	normalizer   *normalize.Normalizer
	transactions TransactionAppender
	documents    DocumentReplacer
}

type Option func(*Service)

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) { s.normalizer = n }
}

// WithDelimiter fixes the delimiter instead of detecting it per file.
func WithDelimiter(d rune) Option {
	return func(s *Service) { s.parsers[FormatDelimited] = &delimited.Parser{Delimiter: d} }
}

func NewService(txs TransactionAppender, docs DocumentReplacer, opts ...Option) *Service {
	s := &Service{
		backup: backup.NewParser(),
		parsers: map[Format]TableParser{
			FormatDelimited:   delimited.NewParser(),
			FormatSpreadsheet: spreadsheet.NewParser(),
			FormatPasted:      pastedParser{pasted.NewParser()},
		},
		normalizer:   normalize.New(),
		transactions: txs,
		documents:    docs,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Parse runs the parser for format over payload.
func (s *Service) Parse(format Format, payload []byte) (Parsed, error) {
	if format == FormatBackup {
		doc, err := s.backup.Parse(payload)
		if err != nil {
			return Parsed{}, err
		}

		return Parsed{Format: format, Document: &doc}, nil
	}

	table, err := s.ParseTable(format, payload)
	if err != nil {
		return Parsed{}, err
	}

	return Parsed{Format: format, Table: &table}, nil
}

// ParseTable is Parse for the row formats only.
func (s *Service) ParseTable(format Format, payload []byte) (tabular.Table, error) {
	p, ok := s.parsers[format]
	if !ok {
		return tabular.Table{}, fmt.Errorf("%w: %q does not produce rows", apperrors.ErrUnknownFormat, format)
	}

	return p.Parse(payload)
}

// Preview is what the mapping step shows before anything is stored.
type Preview struct {
	Headers    []string            `json:"headers"`
	Rows       int                 `json:"rows"`
	Mapping    mapping.Mapping     `json:"mapping"`
	Candidates []mapping.Candidate `json:"candidates"`
}

// Preview parses the payload and maps its first n rows. A nil mapping is
// replaced by one guessed from the headers.
func (s *Service) Preview(format Format, payload []byte, m mapping.Mapping, n int) (Preview, error) {
	table, err := s.ParseTable(format, payload)
	if err != nil {
		return Preview{}, err
	}

	return PreviewTable(table, m, n), nil
}

func PreviewTable(table tabular.Table, m mapping.Mapping, n int) Preview {
	if m == nil {
		m = mapping.Guess(table.Headers)
	}

	return Preview{
		Headers:    table.Headers,
		Rows:       table.Len(),
		Mapping:    m,
		Candidates: mapping.Preview(table, m, n),
	}
}

// Result of one committed import.
type Result struct {
	Imported int              `json:"imported"`
	Rejected int              `json:"rejected"`
	Report   normalize.Report `json:"report"`
}

// Import parses, maps and normalizes the payload and appends what qualifies
// to the stored transactions. Goals and settings are never touched.
func (s *Service) Import(ctx context.Context, format Format, payload []byte, m mapping.Mapping) (Result, error) {
	if err := mapping.Validate(m); err != nil {
		return Result{}, err
	}

	table, err := s.ParseTable(format, payload)
	if err != nil {
		return Result{}, err
	}

	res, err := s.ImportTable(ctx, table, m)
	if err != nil {
		return Result{}, err
	}

	slog.Info("imported transactions", "format", format, "imported", res.Imported, "rejected", res.Rejected)

	return res, nil
}

// ImportTable is Import for rows that were already parsed, e.g. by a preview.
func (s *Service) ImportTable(ctx context.Context, table tabular.Table, m mapping.Mapping) (Result, error) {
	if err := mapping.Validate(m); err != nil {
		return Result{}, err
	}

	txs, report := s.normalizer.Normalize(mapping.Map(table, m))
	if len(txs) == 0 {
		return Result{Rejected: report.Rejected, Report: report}, apperrors.ErrNoValidRows
	}

	if err := s.transactions.Append(ctx, txs); err != nil {
		return Result{}, fmt.Errorf("storing imported transactions: %w", err)
	}

	return Result{Imported: report.Accepted, Rejected: report.Rejected, Report: report}, nil
}

// Restore replaces the whole stored document with a backup. Backups from
// another document version are refused.
func (s *Service) Restore(ctx context.Context, payload []byte) (state.Document, error) {
	doc, err := s.backup.Parse(payload)
	if err != nil {
		return state.Document{}, err
	}

	if !doc.Compatible() {
		return state.Document{}, apperrors.NewParseError(backup.Format, apperrors.ErrInvalidBackupFormat,
			fmt.Errorf("version %q, expected %q", doc.Meta.Version, state.Version))
	}

	if err := s.documents.Replace(ctx, doc); err != nil {
		return state.Document{}, fmt.Errorf("restoring backup: %w", err)
	}

	slog.Info("restored backup", "transactions", len(doc.Transactions), "goals", len(doc.Goals))

	return doc, nil
}

type pastedParser struct {
	p *pasted.Parser
}

func (a pastedParser) Parse(payload []byte) (tabular.Table, error) {
	text, err := enc.DecodeString(payload)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("detect encoding: %w", err)
	}

	return a.p.Parse(text)
}
