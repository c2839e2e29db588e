package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newValidator(t *testing.T) *SchemaValidator {
	t.Helper()
	v, err := NewSchemaValidator()
	if err != nil {
		t.Fatalf("NewSchemaValidator failed: %v", err)
	}
	return v
}

var examplesDir = filepath.Join("..", "..", "schemas", "v1", "examples")

func pos(m map[string]any) map[string]any {
	m["line"] = 1
	m["column"] = 1
	return m
}

func questionDoc(id, typ string) map[string]any {
	return pos(map[string]any{"kind": "question", "id": id, "type": typ, "label": id + "?"})
}

func refDoc(name string) map[string]any {
	return pos(map[string]any{"kind": "reference", "name": name})
}

func litDoc(typ string, value any) map[string]any {
	return pos(map[string]any{"kind": "literal", "type": typ, "value": value})
}

func formDoc(stmts ...any) map[string]any {
	return map[string]any{"name": "test", "statements": stmts}
}

func expectErrors(t *testing.T, errs []SchemaError, mention string) {
	t.Helper()
	if len(errs) == 0 {
		t.Fatalf("expected schema errors mentioning %q", mention)
	}
	for _, e := range errs {
		if strings.Contains(e.Message, mention) || strings.Contains(e.Path, mention) {
			return
		}
	}
	t.Errorf("expected an error mentioning %q, got: %v", mention, errs)
}

func TestValidate_Examples(t *testing.T) {
	v := newValidator(t)

	for _, name := range []string{"tax-office.ql.json", "tax-office.ql.yaml", "cyclic.ql.json"} {
		errs := v.Validate(filepath.Join(examplesDir, name))
		if len(errs) > 0 {
			t.Errorf("%s: expected 0 errors, got %d:", name, len(errs))
			for _, e := range errs {
				t.Errorf("  %s", e)
			}
		}
	}
}

func TestValidate_ValidMinimalForm(t *testing.T) {
	v := newValidator(t)

	errs := v.ValidateDocument(map[string]any{"statements": []any{}})
	if len(errs) > 0 {
		t.Errorf("expected 0 errors for minimal form, got %v", errs)
	}
}

func TestValidate_ValidExpressions(t *testing.T) {
	v := newValidator(t)

	doc := formDoc(
		questionDoc("age", "integer"),
		pos(map[string]any{
			"kind": "calculated", "id": "adult", "type": "boolean", "label": "Adult:",
			"expression": pos(map[string]any{
				"kind": "binary", "operator": ">=",
				"left":  refDoc("age"),
				"right": litDoc("integer", 18),
			}),
		}),
		pos(map[string]any{
			"kind":  "condition",
			"guard": pos(map[string]any{"kind": "unary", "operator": "!", "operand": refDoc("adult")}),
			"body":  []any{questionDoc("guardian", "string")},
		}),
	)
	if errs := v.ValidateDocument(doc); len(errs) > 0 {
		t.Errorf("expected 0 errors, got %v", errs)
	}
}

func TestValidate_MissingStatements(t *testing.T) {
	v := newValidator(t)
	expectErrors(t, v.ValidateDocument(map[string]any{"name": "x"}), "statements")
}

func TestValidate_UnknownStatementKind(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(pos(map[string]any{"kind": "section", "id": "a"}))
	expectErrors(t, v.ValidateDocument(doc), "/statements/0")
}

func TestValidate_QuestionMissingType(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(pos(map[string]any{"kind": "question", "id": "a", "label": "A"}))
	expectErrors(t, v.ValidateDocument(doc), "type")
}

func TestValidate_UnknownType(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(questionDoc("a", "money"))
	expectErrors(t, v.ValidateDocument(doc), "/statements/0/type")
}

func TestValidate_InvalidIdentifier(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(questionDoc("1st-answer", "string"))
	expectErrors(t, v.ValidateDocument(doc), "/statements/0/id")
}

func TestValidate_CalculatedMissingExpression(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(pos(map[string]any{"kind": "calculated", "id": "a", "type": "integer", "label": "A"}))
	expectErrors(t, v.ValidateDocument(doc), "expression")
}

func TestValidate_QuestionWithExpression(t *testing.T) {
	v := newValidator(t)
	q := questionDoc("a", "integer")
	q["expression"] = litDoc("integer", 1)
	expectErrors(t, v.ValidateDocument(formDoc(q)), "expression")
}

func TestValidate_UnknownOperator(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(pos(map[string]any{
		"kind": "calculated", "id": "a", "type": "integer", "label": "A",
		"expression": pos(map[string]any{
			"kind": "binary", "operator": "<>",
			"left": litDoc("integer", 1), "right": litDoc("integer", 2),
		}),
	}))
	expectErrors(t, v.ValidateDocument(doc), "/statements/0/expression/operator")
}

func TestValidate_LiteralValueType(t *testing.T) {
	v := newValidator(t)
	tests := []struct {
		typ   string
		value any
	}{
		{"boolean", "true"},
		{"integer", 1.5},
		{"decimal", "1.5"},
		{"string", 3},
	}
	for _, tt := range tests {
		doc := formDoc(pos(map[string]any{
			"kind": "calculated", "id": "a", "type": tt.typ, "label": "A",
			"expression": litDoc(tt.typ, tt.value),
		}))
		errs := v.ValidateDocument(doc)
		if len(errs) == 0 {
			t.Errorf("%s literal with value %v: expected errors", tt.typ, tt.value)
		}
	}
}

func TestValidate_NestedConditionBody(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(pos(map[string]any{
		"kind":  "condition",
		"guard": litDoc("boolean", true),
		"body": []any{
			pos(map[string]any{"kind": "question", "id": "a", "label": "A"}),
		},
	}))
	expectErrors(t, v.ValidateDocument(doc), "/statements/0/body/0")
}

func TestValidate_MissingPosition(t *testing.T) {
	v := newValidator(t)
	doc := formDoc(map[string]any{"kind": "question", "id": "a", "type": "string", "label": "A"})
	expectErrors(t, v.ValidateDocument(doc), "line")
}

func TestValidate_AdditionalProperties(t *testing.T) {
	v := newValidator(t)
	doc := formDoc()
	doc["version"] = "1"
	expectErrors(t, v.ValidateDocument(doc), "version")
}

func TestValidate_NonexistentFile(t *testing.T) {
	v := newValidator(t)
	errs := v.Validate("/nonexistent/file.json")
	if len(errs) != 1 || !errs[0].ParseError {
		t.Fatalf("expected one parse error for nonexistent file, got %v", errs)
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	v := newValidator(t)
	tmpFile := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(tmpFile, []byte("{bad json}"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	errs := v.Validate(tmpFile)
	if len(errs) != 1 || !errs[0].ParseError {
		t.Fatalf("expected one parse error for invalid JSON, got %v", errs)
	}
}

func TestValidate_InvalidYAML(t *testing.T) {
	v := newValidator(t)
	tmpFile := filepath.Join(t.TempDir(), "invalid.ql.yaml")
	if err := os.WriteFile(tmpFile, []byte("statements: [\n  - kind: question\n"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	errs := v.Validate(tmpFile)
	if len(errs) != 1 || !errs[0].ParseError {
		t.Fatalf("expected one parse error for invalid YAML, got %v", errs)
	}
}

func TestValidateBytes(t *testing.T) {
	v := newValidator(t)
	if errs := v.ValidateBytes([]byte(`{"statements": []}`)); len(errs) > 0 {
		t.Errorf("expected 0 errors, got %v", errs)
	}
	errs := v.ValidateBytes([]byte(`{"statements": 3}`))
	if len(errs) == 0 || errs[0].ParseError {
		t.Errorf("expected a schema error, got %v", errs)
	}
}

func TestSchemaError_JSON(t *testing.T) {
	se := SchemaError{Path: "/statements/0/id", Message: "pattern mismatch"}
	data, err := json.Marshal(se)
	if err != nil {
		t.Fatalf("failed to marshal SchemaError: %v", err)
	}

	var decoded SchemaError
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal SchemaError: %v", err)
	}
	if decoded.Path != se.Path || decoded.Message != se.Message {
		t.Errorf("round-trip failed: got %+v, want %+v", decoded, se)
	}
}
