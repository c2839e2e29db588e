package semantic

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
)

// projectRoot returns the absolute path to the project root by finding go.mod.
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("could not find project root")
		}
		dir = parent
	}
}

func loadExample(t *testing.T, name string) *ast.Form {
	t.Helper()
	f, err := ast.LoadForm(filepath.Join(projectRoot(), "schemas", "v1", "examples", name))
	require.NoError(t, err)
	return f
}

func TestCheckScenarioA(t *testing.T) {
	// age: Integer; bonus: Decimal = age * 1.5
	f := form(
		question(1, "age", ast.Integer),
		calculated(2, "bonus", ast.Decimal, binary(3, ast.Multiply, ref(4, "age"), decLit(5, 1.5))),
	)
	assert.Empty(t, Check(f))
}

func TestCheckScenarioB(t *testing.T) {
	// hasPet: Boolean; if (hasPet + 1) { ... }
	f := form(
		question(1, "hasPet", ast.Boolean),
		condition(2, binary(3, ast.Addition, ref(4, "hasPet"), intLit(5, 1)),
			question(6, "petName", ast.String),
		),
	)
	errs := Check(f)

	notAllowed := errs.OfKind(report.KindTypeNotAllowed)
	require.Len(t, notAllowed, 1)
	assert.Equal(t, "Addition not permitted on Boolean", notAllowed[0].Message)
	assert.Equal(t, 3, notAllowed[0].Location.Line)

	cond := errs.OfKind(report.KindInvalidConditionType)
	require.Len(t, cond, 1)
	assert.Equal(t, "Undefined", cond[0].Actual)
	assert.Equal(t, 2, cond[0].Location.Line)

	want := report.ErrorList{
		report.InvalidOperandType(l(3), "Addition", "Boolean", "Integer"),
		report.TypeNotAllowed(l(3), "Boolean", "Addition"),
		report.InvalidConditionType(l(2), "Undefined"),
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckScenarioC(t *testing.T) {
	// total: Decimal = price * qty, qty never declared
	f := form(
		question(1, "price", ast.Decimal),
		calculated(2, "total", ast.Decimal, binary(3, ast.Multiply, ref(4, "price"), ref(5, "qty"))),
	)
	errs := Check(f)

	want := report.ErrorList{report.UndefinedReference(l(5), "qty")}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, errs.OfKind(report.KindTypeMismatch))
}

func TestCheckUndefinedReferencePositioned(t *testing.T) {
	f := form(
		question(1, "a", ast.Boolean),
		condition(2, binary(3, ast.And, ref(4, "a"), ref(9, "ghost")),
			calculated(5, "b", ast.Integer, binary(6, ast.Addition, intLit(7, 1), ref(8, "ghost"))),
		),
	)
	refs := Check(f).OfKind(report.KindUndefinedReference)
	lines := make([]int, len(refs))
	for i, r := range refs {
		lines[i] = r.Location.Line
	}
	assert.Contains(t, lines, 9)
	assert.Contains(t, lines, 8)
}

func TestCheckDuplicateStopsPipeline(t *testing.T) {
	f := form(
		question(1, "a", ast.Integer),
		question(2, "a", ast.String),
		calculated(3, "b", ast.Boolean, binary(3, ast.Addition, ref(3, "b"), ref(3, "nope"))),
	)
	res := CheckPhases(f)

	assert.Equal(t, PhaseSymbols, res.Phase)
	assert.Equal(t, []report.Kind{report.KindDuplicateDeclaration}, kinds(res.Errors))
	assert.Nil(t, res.Graph)
}

func TestCheckCycleSuppressesTypeErrors(t *testing.T) {
	f := form(
		calculated(1, "total", ast.Boolean, binary(1, ast.Addition, ref(1, "tax"), strLit(1, "x"))),
		calculated(2, "tax", ast.Integer, binary(2, ast.Multiply, ref(2, "total"), ref(2, "missing"))),
	)
	res := CheckPhases(f)

	assert.Equal(t, PhaseCycles, res.Phase)
	assert.Equal(t, []report.Kind{report.KindCyclicDependency}, kinds(res.Errors))
	assert.Equal(t, []string{"total", "tax", "total"}, res.Errors[0].Cycle)
}

func TestCheckPhasesClean(t *testing.T) {
	res := CheckPhases(form(question(1, "a", ast.Integer)))
	assert.Equal(t, PhaseTypes, res.Phase)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Symbols)
	require.NotNil(t, res.Graph)
	assert.Equal(t, 1, res.Symbols.Len())
}

func TestCheckEmptyForm(t *testing.T) {
	assert.Empty(t, Check(form()))
}

func TestCheckIdempotent(t *testing.T) {
	f := form(
		question(1, "s", ast.String),
		question(2, "n", ast.Integer),
		calculated(3, "x", ast.Boolean, binary(3, ast.Subtraction, ref(3, "s"), ref(3, "n"))),
		condition(4, ref(4, "n"),
			calculated(5, "y", ast.Integer, ref(5, "ghost")),
		),
	)
	first := Check(f)
	second := Check(f)
	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestCheckExampleForms(t *testing.T) {
	tests := []struct {
		file  string
		kinds []report.Kind
	}{
		{"tax-office.ql.json", nil},
		{"tax-office.ql.yaml", nil},
		{"cyclic.ql.json", []report.Kind{report.KindCyclicDependency}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			f := loadExample(t, tt.file)
			errs := Check(f)
			if tt.kinds == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.kinds, kinds(errs))
			for _, e := range errs {
				assert.Equal(t, f.File, e.Location.File)
			}
		})
	}
}
