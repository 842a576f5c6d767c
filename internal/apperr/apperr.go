// Package apperr provides tagged application errors that separate the message
// shown to API callers from the internal cause that is only logged.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindExtractionParse
	KindGeneration
	KindPersistence
	KindUpstream
	KindExport
	KindDisabled
)

var kindNames = map[Kind]string{
	KindInternal:        "InternalError",
	KindValidation:      "ValidationError",
	KindNotFound:        "NotFoundError",
	KindExtractionParse: "ExtractionParseError",
	KindGeneration:      "GenerationError",
	KindPersistence:     "PersistenceError",
	KindUpstream:        "UpstreamError",
	KindExport:          "ExportError",
	KindDisabled:        "DisabledError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HTTPStatus maps a kind to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	case KindDisabled:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error. Public is safe to return to clients;
// Err holds the internal cause.
type Error struct {
	Kind   Kind
	Public string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Public, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Public)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind.
func New(kind Kind, public string, err error) *Error {
	return &Error{Kind: kind, Public: public, Err: err}
}

// Validation reports a bad request. The message is shown to the caller.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Public: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity, e.g. NotFound("project", id).
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Public: entity + " not found", Err: fmt.Errorf("%s %q not found", entity, id)}
}

// ExtractionParse reports an LLM reply that did not contain a readable profile.
func ExtractionParse(err error) *Error {
	return &Error{Kind: KindExtractionParse, Public: "extraction failed: the model did not return a readable profile", Err: err}
}

// Generation reports a failed document generation.
func Generation(docType string, err error) *Error {
	return &Error{Kind: KindGeneration, Public: "generation failed for " + docType, Err: err}
}

// Persistence reports a storage failure.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Public: "failed to save data", Err: err}
}

// Upstream reports a failed call to an external collaborator such as the scraper.
func Upstream(public string, err error) *Error {
	return &Error{Kind: KindUpstream, Public: public, Err: err}
}

// Export reports a rendering failure.
func Export(format string, err error) *Error {
	return &Error{Kind: KindExport, Public: "failed to export " + format, Err: err}
}

// Disabled reports a feature that is turned off in the configuration.
func Disabled(feature string) *Error {
	return &Error{Kind: KindDisabled, Public: feature + " is not enabled"}
}

// As returns the *Error in err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf returns the kind of err, or KindInternal when err is not tagged.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}

// PublicMessage returns the client-safe message for err.
func PublicMessage(err error) string {
	if e := As(err); e != nil && e.Public != "" {
		return e.Public
	}
	return "internal server error"
}

// Status returns the HTTP status for err.
func Status(err error) int {
	return KindOf(err).HTTPStatus()
}
