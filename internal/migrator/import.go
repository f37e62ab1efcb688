package migrator

import (
	"github.com/alexanderramin/polymath/internal/domain"
	"github.com/alexanderramin/polymath/internal/exchange"
	"github.com/alexanderramin/polymath/internal/merge"
)

// ImportOptions controls how Import treats documents from other schemas.
type ImportOptions struct {
	// SupportedSchema is the schema tag this build accepts without asking.
	// Empty means exchange.SchemaVersion.
	SupportedSchema string

	// AcceptSchemaMismatch proceeds with a document whose schema tag differs
	// from SupportedSchema. Callers set it after the user confirms.
	AcceptSchemaMismatch bool
}

// Import validates doc and rebuilds working state from catalog and doc.
// On any error nothing is returned, so the caller's state stays intact.
// A schema mismatch yields *exchange.SchemaMismatchError unless
// AcceptSchemaMismatch is set.
func Import(doc *exchange.Document, catalog domain.TierMap, opts ImportOptions) (*State, error) {
	if doc == nil {
		return nil, &exchange.ValidationError{Problems: []exchange.Problem{{Message: "no document"}}}
	}
	if problems := exchange.Validate(doc); len(problems) > 0 {
		return nil, &exchange.ValidationError{Problems: problems}
	}

	supported := domain.CoalesceStr(opts.SupportedSchema, exchange.SchemaVersion)
	if tag := doc.SchemaTag(); tag != supported && !opts.AcceptSchemaMismatch {
		return nil, &exchange.SchemaMismatchError{Found: tag, Supported: supported}
	}

	state := &State{
		Tiers:    merge.Merge(catalog, doc),
		Progress: doc.Progress.Clone(),
		Theme:    domain.Theme(doc.Theme),
	}
	return state, nil
}
