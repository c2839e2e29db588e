// Package schema validates QL form documents against the embedded JSON Schema
// before they are decoded into a syntax tree.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/foundry-zero/qlform/internal/ast"
)

//go:embed all:schemas
var schemaFS embed.FS

// rootSchema is the resource id of the form schema, relative to schemas/v1/.
const rootSchema = "ql-form.json"

// SchemaError represents a single schema validation error.
type SchemaError struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	ParseError bool   `json:"-"` // true when the document could not be read or parsed
}

func (e SchemaError) String() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// SchemaValidator validates form documents against the embedded schemas.
// It is safe for concurrent use.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()

	// Resources are added under their path relative to schemas/v1/ so that
	// $ref values like "definitions/expression.json" resolve.
	const schemaRoot = "schemas/v1/"
	err := fs.WalkDir(schemaFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		data, err := schemaFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read embedded schema %s: %w", path, err)
		}

		schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parse embedded schema %s: %w", path, err)
		}

		id := strings.TrimPrefix(path, schemaRoot)
		if err := c.AddResource(id, schemaDoc); err != nil {
			return fmt.Errorf("add schema resource %s (id=%s): %w", path, id, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load embedded schemas: %w", err)
	}

	schema, err := c.Compile(rootSchema)
	if err != nil {
		return nil, fmt.Errorf("compile root schema: %w", err)
	}

	return &SchemaValidator{schema: schema}, nil
}

// Validate validates the form document at docPath. YAML documents are
// converted to JSON first, the same way the AST loader reads them.
func (v *SchemaValidator) Validate(docPath string) []SchemaError {
	data, err := ast.ReadDocument(docPath)
	if err != nil {
		return []SchemaError{{Message: err.Error(), ParseError: true}}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []SchemaError{{Message: fmt.Sprintf("failed to parse JSON: %v", err), ParseError: true}}
	}

	return v.ValidateDocument(doc)
}

// ValidateBytes validates a JSON form document held in memory.
func (v *SchemaValidator) ValidateBytes(data []byte) []SchemaError {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []SchemaError{{Message: fmt.Sprintf("failed to parse JSON: %v", err), ParseError: true}}
	}
	return v.ValidateDocument(doc)
}

// ValidateDocument validates an already-parsed JSON document against the schema.
func (v *SchemaValidator) ValidateDocument(doc any) []SchemaError {
	err := v.schema.Validate(normalize(doc))
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []SchemaError{{Message: err.Error()}}
	}

	return collectErrors(validationErr)
}

// normalize round-trips documents built in Go (maps with int values, typed
// slices) through encoding/json so the validator sees the same value types it
// would get from a parsed file.
func normalize(doc any) any {
	data, err := json.Marshal(doc)
	if err != nil {
		return doc
	}
	out, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return doc
	}
	return out
}

// collectErrors recursively collects all leaf validation errors from a ValidationError.
func collectErrors(ve *jsonschema.ValidationError) []SchemaError {
	var errs []SchemaError

	instancePath := "/" + strings.Join(ve.InstanceLocation, "/")
	if len(ve.InstanceLocation) == 0 {
		instancePath = ""
	}

	if len(ve.Causes) == 0 {
		msg := ve.Error()
		if msg != "" {
			errs = append(errs, SchemaError{
				Path:    instancePath,
				Message: msg,
			})
		}
	} else {
		for _, cause := range ve.Causes {
			errs = append(errs, collectErrors(cause)...)
		}
	}

	return errs
}
