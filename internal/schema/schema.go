// Package schema validates request payloads against the JSON schemas
// embedded in the assets package. Only shape is checked: field presence,
// type, email format and minimum lengths. Nothing is persisted.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/robalobadob/medium-blog/assets"
)

// Schema ids, matching the $id of the embedded documents.
const (
	CreatePostID = "https://medium-blog.local/schemas/create-post.json"
	UpdatePostID = "https://medium-blog.local/schemas/update-post.json"
	SignupID     = "https://medium-blog.local/schemas/signup.json"
	SigninID     = "https://medium-blog.local/schemas/signin.json"
)

// ErrInvalid is returned when a well-formed JSON document does not match
// the schema. Details are appended to the message; test with errors.Is.
var ErrInvalid = errors.New("invalid input")

// ParseError is returned when the body is not JSON at all.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse body: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// Validator holds compiled schemas keyed by $id. It is read-only after
// construction and safe for concurrent use.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles the embedded schema documents.
func New() (*Validator, error) {
	docs, err := assets.SchemaDocuments()
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}
	return NewValidator(docs)
}

// NewValidator compiles the given documents. Each must carry a $id.
func NewValidator(docs []string) (*Validator, error) {
	type header struct {
		ID string `json:"$id"`
	}
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(docs))}
	for _, doc := range docs {
		var h header
		if err := json.Unmarshal([]byte(doc), &h); err != nil {
			return nil, fmt.Errorf("parse error '%v' in schema: '%s'", err, doc)
		}
		if h.ID == "" {
			return nil, fmt.Errorf("schema does not contain $id: '%s'", doc)
		}
		compiled, err := gojsonschema.NewSchemaLoader().Compile(gojsonschema.NewStringLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", h.ID, err)
		}
		v.schemas[h.ID] = compiled
	}
	return v, nil
}

// HasSchema reports whether schemaID is known.
func (v *Validator) HasSchema(schemaID string) bool {
	_, ok := v.schemas[schemaID]
	return ok
}

// Validate checks body against schemaID. It returns a *ParseError for
// malformed JSON and an error wrapping ErrInvalid for a shape mismatch.
func (v *Validator) Validate(body []byte, schemaID string) error {
	s, ok := v.schemas[schemaID]
	if !ok {
		return fmt.Errorf("there is no schema %s", schemaID)
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ParseError{Err: err}
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ParseError{Err: err}
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return nil
}

// decode validates body and unmarshals it into out.
func (v *Validator) decode(body []byte, schemaID string, out any) error {
	if err := v.Validate(body, schemaID); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}
