package scope_test

import (
	"testing"

	"craftc/pkg/ast"
	"craftc/pkg/compiler"
	"craftc/pkg/objects"
	"craftc/pkg/ops"
	"craftc/pkg/scope"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_NewScoreboardNameIncrementsWithVariables(t *testing.T) {
	s := scope.New("code", "test", nil)
	assert.Equal(t, "v_code_0", s.NewScoreboardName())
	s.DefineVariable(&scope.Variable{Name: "a", Value: &objects.Number{Value: 1}})
	assert.Equal(t, "v_code_1", s.NewScoreboardName())
}

func TestScope_CloneForSharesButIsolatesBindings(t *testing.T) {
	parent := scope.New("code", "test", nil)
	parent.DefineVariable(&scope.Variable{Name: "a", Value: &objects.Number{Value: 1}})

	child := parent.CloneFor("code.0", nil)
	_, ok := child.LookupVariable("a")
	require.True(t, ok)

	child.DefineVariable(&scope.Variable{Name: "b", Value: &objects.Number{Value: 2}})
	_, parentHasB := parent.LookupVariable("b")
	assert.False(t, parentHasB)
}

func TestScope_LookupFunctionMissing(t *testing.T) {
	s := scope.New("code", "test", nil)
	_, ok := s.LookupFunction("missing")
	assert.False(t, ok)
}

func TestEvaluator_AssignVariableBacksWithScoreboard(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	node := ast.NewAssignVariable("x", ast.NewLiteralNumber(5))
	result, err := ev.Execute(node, nil)
	require.NoError(t, err)

	variable, ok := result.(*objects.Variable)
	require.True(t, ok)
	assert.Equal(t, int64(5), variable.Value.(*objects.Number).Value)
	assert.Equal(t, "v_code_0", variable.Scoreboard.Name)

	binding, ok := s.LookupVariable("x")
	require.True(t, ok)
	assert.False(t, binding.Static)
}

func TestEvaluator_StaticVariableUnwrapsOnAccess(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	_, err := ev.Execute(ast.NewStaticVariable("p", ast.NewLiteralNumber(7)), nil)
	require.NoError(t, err)

	value, err := ev.Execute(ast.NewAccess("p"), nil)
	require.NoError(t, err)
	num, ok := value.(*objects.Number)
	require.True(t, ok)
	assert.Equal(t, int64(7), num.Value)
}

func TestEvaluator_MutateRequiresNonStatic(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	_, err := ev.Execute(ast.NewStaticVariable("p", ast.NewLiteralNumber(1)), nil)
	require.NoError(t, err)

	_, err = ev.Execute(ast.NewMutateVariable("p", ast.NewLiteralNumber(2)), nil)
	assert.Error(t, err)
}

func TestEvaluator_MutateUnknownVariableErrors(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	_, err := ev.Execute(ast.NewMutateVariable("missing", ast.NewLiteralNumber(1)), nil)
	assert.Error(t, err)
}

func TestEvaluator_OperationArithmeticProducesMutationVariable(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	_, err := ev.Execute(ast.NewAssignVariable("x", ast.NewLiteralNumber(1)), nil)
	require.NoError(t, err)

	node := ast.NewMutateVariable("x", ast.NewOperation(ast.NewAccess("x"), ops.Add, ast.NewLiteralNumber(1)))
	result, err := ev.Execute(node, nil)
	require.NoError(t, err)
	mv, ok := result.(*objects.MutationVariable)
	require.True(t, ok)
	assert.Equal(t, "v_code_0", mv.Target.Objective)
}

func TestEvaluator_IfRequiresComparisonCondition(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	body := ast.NewCodeBlock([]ast.Node{*ast.NewAccess("x")})
	_, err := ev.Execute(ast.NewIf(ast.NewLiteralNumber(1), body), nil)
	assert.Error(t, err)
}

func TestEvaluator_CreateBlockPos(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	args := ast.NewSet([]ast.Node{*ast.NewLiteralNumber(1), *ast.NewLiteralNumber(2), *ast.NewLiteralNumber(3)})
	result, err := ev.Execute(ast.NewCreate("BlockPos", args), nil)
	require.NoError(t, err)
	pos, ok := result.(*objects.BlockPos)
	require.True(t, ok)
	assert.Equal(t, int64(1), pos.X)
}

func TestEvaluator_CreateUnknownTypeErrors(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	_, err := ev.Execute(ast.NewCreate("Nonsense", ast.NewSet(nil)), nil)
	assert.Error(t, err)
}

func TestEvaluator_ExportTracksVariableName(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	assign := ast.NewAssignVariable("x", ast.NewLiteralNumber(1))
	_, err := ev.Execute(ast.NewExport(assign), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, s.ExportedVariables)
}

func TestEvaluator_ImportMergesExportedFunction(t *testing.T) {
	host := compiler.New("test", map[string]string{
		"util": "export function helper() {\n let x = 1;\n}\n",
	})

	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, host)

	_, err := ev.Execute(ast.NewImport("util"), nil)
	require.NoError(t, err)

	_, ok := s.LookupFunction("helper")
	assert.True(t, ok)
	_, imported := host.CompiledScope("util")
	assert.True(t, imported)
}

func TestEvaluator_WhileUnrollsOverArray(t *testing.T) {
	s := scope.New("code", "test", nil)
	ev := scope.NewEvaluator(s, compiler.New("test", nil))

	iter := ast.NewSet([]ast.Node{*ast.NewLiteralNumber(1), *ast.NewLiteralNumber(2)})
	body := ast.NewCodeBlock([]ast.Node{*ast.NewAccess("item")})
	result, err := ev.Execute(ast.NewWhile("item", iter, body), nil)
	require.NoError(t, err)
	w, ok := result.(*objects.While)
	require.True(t, ok)
	assert.Len(t, w.Iter.Values, 2)
}

func TestFlattenBody_FlattensLeadingSet(t *testing.T) {
	set := ast.NewSet([]ast.Node{*ast.NewAccess("a"), *ast.NewAccess("b")})
	body := ast.NewCodeBlock([]ast.Node{*set})
	items := scope.FlattenBody(body)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Text)
}

func TestFlattenBody_Nil(t *testing.T) {
	assert.Nil(t, scope.FlattenBody(nil))
}
