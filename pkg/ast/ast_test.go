package ast_test

import (
	"testing"

	"craftc/pkg/ast"
	"craftc/pkg/ops"

	"github.com/stretchr/testify/assert"
)

func TestNode_String_Literals(t *testing.T) {
	assert.Equal(t, "42", ast.NewLiteralNumber(42).String())
	assert.Equal(t, "true", ast.NewLiteralBool(true).String())
	assert.Equal(t, `"hi"`, ast.NewLiteralString("hi").String())
	assert.Equal(t, "x", ast.NewAccess("x").String())
}

func TestNode_String_AssignAndMutate(t *testing.T) {
	rhs := ast.NewLiteralNumber(5)
	assert.Equal(t, "let x = 5", ast.NewAssignVariable("x", rhs).String())
	assert.Equal(t, "const x = 5", ast.NewStaticVariable("x", rhs).String())
	assert.Equal(t, "x = 5", ast.NewMutateVariable("x", rhs).String())
}

func TestNode_String_Operation(t *testing.T) {
	op := ast.NewOperation(ast.NewAccess("x"), ops.Add, ast.NewLiteralNumber(1))
	assert.Equal(t, "(x + 1)", op.String())
}

func TestNode_String_IfAndWhile(t *testing.T) {
	body := ast.NewCodeBlock([]ast.Node{*ast.NewAccess("x")})
	cond := ast.NewLiteralBool(true)
	ifNode := ast.NewIf(cond, body)
	assert.Contains(t, ifNode.String(), "if true {")

	whileNode := ast.NewWhile("item", ast.NewAccess("list"), body)
	assert.Contains(t, whileNode.String(), "while item = list {")
}

func TestNode_String_Nil(t *testing.T) {
	var n *ast.Node
	assert.Equal(t, "<nil>", n.String())
}

func TestKind_String_OutOfRange(t *testing.T) {
	assert.Equal(t, "Invalid", ast.Kind(999).String())
}

func TestNode_String_ExportImport(t *testing.T) {
	assign := ast.NewAssignVariable("x", ast.NewLiteralNumber(1))
	assert.Equal(t, "export let x = 1", ast.NewExport(assign).String())
	assert.Equal(t, "import util", ast.NewImport("util").String())
}
