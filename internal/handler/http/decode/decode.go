// Package decode reads JSON request bodies into typed DTOs. Every failure is
// reported as an *entity.ValidationError so handlers can render it as an
// invalid request.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"article-tagger/internal/domain/entity"
)

// JSON decodes the body of r into v. Unknown fields are ignored. Trailing
// data after the first JSON value is rejected.
func JSON(r *http.Request, v any) error {
	if r.Body == nil {
		return &entity.ValidationError{Field: "body", Message: "request body is required"}
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return describe(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &entity.ValidationError{Field: "body", Message: "request body must contain a single JSON value"}
	}
	return nil
}

func describe(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return &entity.ValidationError{Field: "body", Message: "request body is required"}
	case errors.As(err, &maxErr):
		return &entity.ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("request body must not exceed %d bytes", maxErr.Limit),
		}
	case errors.As(err, &syntaxErr):
		return &entity.ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset),
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &entity.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("expected %s but got JSON %s", typeErr.Type, typeErr.Value),
		}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &entity.ValidationError{Field: "body", Message: "malformed JSON: unexpected end of input"}
	default:
		return &entity.ValidationError{Field: "body", Message: err.Error()}
	}
}
