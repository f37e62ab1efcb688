package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/merge"
	"github.com/alexanderramin/polymath/internal/migrator"
)

// ImportResult summarizes an applied document.
type ImportResult struct {
	Schema         string
	Subjects       int
	CustomSubjects int
	Overlays       int
	Tracked        int
}

type transferService struct {
	t *Tracker
}

func (s *transferService) Export(ctx context.Context) *exchange.Document {
	return s.t.export()
}

func (s *transferService) ExportJSON(ctx context.Context) ([]byte, error) {
	return exchange.Encode(s.t.export())
}

// Import replaces the working state with data. Validation failures and an
// unconfirmed schema mismatch leave the state untouched.
func (s *transferService) Import(ctx context.Context, data []byte, acceptSchemaMismatch bool) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"bytes": len(data), "accept_mismatch": acceptSchemaMismatch}
	defer func() { s.t.observe(ctx, "import", startedAt, fields, err) }()

	if err := s.t.requireEditor(); err != nil {
		return nil, err
	}
	doc, err := exchange.Decode(data)
	if err != nil {
		return nil, err
	}
	next, err := migrator.Import(doc, s.t.base.Tiers, migrator.ImportOptions{
		SupportedSchema:      s.t.cfg.SchemaVersion,
		AcceptSchemaMismatch: acceptSchemaMismatch,
	})
	if err != nil {
		return nil, err
	}

	if next.Theme == domain.ThemeLight || next.Theme == domain.ThemeDark {
		if err := s.t.setTheme(ctx, next.Theme); err != nil {
			return nil, err
		}
	}
	if err := s.t.mutate(ctx, func(ws *workingState) error {
		ws.tiers, ws.progress = next.Tiers, next.Progress
		return nil
	}); err != nil {
		return nil, err
	}

	result = &ImportResult{
		Schema:         doc.SchemaTag(),
		Subjects:       len(next.Tiers.Subjects()),
		CustomSubjects: len(doc.CustomSubjects),
		Overlays:       len(doc.Overlays),
		Tracked:        len(next.Progress),
	}
	fields["subjects"] = result.Subjects
	return result, nil
}

// Reset discards every customization and all progress once phrase matches
// ResetPhrase.
func (s *transferService) Reset(ctx context.Context, phrase string) (err error) {
	startedAt := time.Now()
	defer func() { s.t.observe(ctx, "reset", startedAt, nil, err) }()

	if phrase != ResetPhrase {
		return fmt.Errorf("%w: type %q to confirm", ErrResetPhrase, ResetPhrase)
	}
	return s.t.mutate(ctx, func(ws *workingState) error {
		ws.tiers = merge.Merge(s.t.base.Tiers, nil)
		ws.progress = domain.ProgressMap{}
		return nil
	})
}
