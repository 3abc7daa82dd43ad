package parser

import (
	"errors"
	"fmt"

	"github.com/ratetrack/ratetrack/internal/models"
)

// Parsing-level failure taxonomy. Field-level errors (amount/date) degrade
// the field rather than dropping the transaction; document-level errors are
// surfaced to the caller as recoverable outcomes.
var (
	// ErrMalformedAmount reports an amount token with no usable digits.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrMalformedDate reports a date token that matches no supported layout.
	ErrMalformedDate = errors.New("malformed date")
	// ErrNoTransactions reports a document that produced zero transactions.
	ErrNoTransactions = errors.New("no transactions found in document")
	// ErrUnrecognizedDocument reports that no registered grammar claims the
	// document; the caller should ask for a manual parser selection.
	ErrUnrecognizedDocument = errors.New("unrecognized document format")
)

// Extractor is the capability interface implemented by each grammar variant.
type Extractor interface {
	// Name returns the variant's registry name.
	Name() string
	// CanHandle reports whether this grammar recognizes the document text,
	// by scoring family-specific keyword markers and requiring at least one
	// date-shaped substring.
	CanHandle(text string) bool
	// Extract converts document text into an ordered transaction sequence.
	// Extraction is best-effort: missing secondary fields degrade to
	// empty/nil, they never abort the pass.
	Extract(text string) ([]models.Transaction, error)
	// Columns declares the ordered (field key, label key) list this variant
	// emits, so writers know which fields to render.
	Columns() []models.Column
}

// Registry holds an explicit, statically compiled list of grammar variants.
type Registry struct {
	extractors []Extractor
}

// NewRegistry returns a registry with all built-in variants registered.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			&BTParser{},
			&CECParser{},
		},
	}
}

// Extractors returns the registered variants in registration order.
func (r *Registry) Extractors() []Extractor {
	return r.extractors
}

// Get returns the variant with the given name.
func (r *Registry) Get(name string) (Extractor, error) {
	for _, e := range r.extractors {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unsupported parser: %q", name)
}

// AutoDetect returns the first registered variant whose capability predicate
// accepts the document text, or ErrUnrecognizedDocument.
func (r *Registry) AutoDetect(text string) (Extractor, error) {
	for _, e := range r.extractors {
		if e.CanHandle(text) {
			return e, nil
		}
	}
	return nil, ErrUnrecognizedDocument
}

// Parse selects a variant (by name, or auto-detected when name is empty) and
// runs it over the document text. A document that yields zero transactions
// returns ErrNoTransactions, a recoverable outcome rather than a crash.
func (r *Registry) Parse(text, name string) (Extractor, []models.Transaction, error) {
	var (
		e   Extractor
		err error
	)
	if name == "" {
		e, err = r.AutoDetect(text)
	} else {
		e, err = r.Get(name)
	}
	if err != nil {
		return nil, nil, err
	}

	txns, err := e.Extract(text)
	if err != nil {
		return e, nil, fmt.Errorf("%s extraction: %w", e.Name(), err)
	}
	if len(txns) == 0 {
		return e, nil, ErrNoTransactions
	}
	return e, txns, nil
}
