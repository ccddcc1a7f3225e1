package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/anvil/pkg/encoding"
	"github.com/Faultbox/anvil/pkg/formats"
	"github.com/Faultbox/anvil/pkg/mesh"
)

// Request and generation errors.
var (
	ErrValidation          = errors.New("invalid request")
	ErrMissingField        = fmt.Errorf("%w: missing field", ErrValidation)
	ErrIndexConflict       = errors.New("island index conflict")
	ErrGeneration          = errors.New("generation failed")
	ErrProposalUnavailable = errors.New("proposal unavailable")
	ErrLibraryEmpty        = errors.New("mesh library is empty")
)

// Kind classifies an error for callers outside the process.
type Kind string

// Error kinds, most specific first.
const (
	KindMissingField        Kind = "missing_field"
	KindValidation          Kind = "validation"
	KindIndexConflict       Kind = "index_conflict"
	KindEncoding            Kind = "encoding"
	KindDecoding            Kind = "decoding"
	KindRange               Kind = "range"
	KindCapacity            Kind = "capacity"
	KindShape               Kind = "shape"
	KindParse               Kind = "parse"
	KindProposalUnavailable Kind = "proposal_unavailable"
	KindLibraryEmpty        Kind = "library_empty"
	KindGeneration          Kind = "generation"
	KindInternal            Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrMissingField, KindMissingField},
	{ErrValidation, KindValidation},
	{ErrIndexConflict, KindIndexConflict},
	{encoding.ErrEncoding, KindEncoding},
	{encoding.ErrDecoding, KindDecoding},
	{encoding.ErrRange, KindRange},
	{mesh.ErrCapacity, KindCapacity},
	{mesh.ErrShape, KindShape},
	{formats.ErrParse, KindParse},
	{ErrProposalUnavailable, KindProposalUnavailable},
	{ErrLibraryEmpty, KindLibraryEmpty},
	{ErrGeneration, KindGeneration},
}

// KindOf returns the most specific kind in err's chain.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// FieldError attaches the offending request field or output slot to an error.
type FieldError struct {
	Field string // e.g. "nodes[2].pos.x" or "island"
	Index int    // island index, connection position or slot; -1 if none
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(field string, index int) error {
	return &FieldError{Field: field, Index: index, Err: ErrMissingField}
}
