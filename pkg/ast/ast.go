// Package ast defines the tagged-variant AST node produced by the parser
// (spec §3, §4.2).
package ast

import (
	"fmt"
	"strings"

	"craftc/pkg/ops"
)

// Kind discriminates a Node.
type Kind int

const (
	Invalid Kind = iota
	LiteralNumber
	LiteralBool
	LiteralString
	Access
	AssignVariable
	StaticVariable
	MutateVariable
	UseVariable
	AccessPart
	Function
	CreateFunction
	Create
	Set
	CodeBlock
	If
	While
	Operation
	Export
	Import
)

func (k Kind) String() string {
	names := [...]string{
		"Invalid", "LiteralNumber", "LiteralBool", "LiteralString", "Access",
		"AssignVariable", "StaticVariable", "MutateVariable", "UseVariable",
		"AccessPart", "Function", "CreateFunction", "Create", "Set",
		"CodeBlock", "If", "While", "Operation", "Export", "Import",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Invalid"
}

// Node is the AST's tagged variant. Fields are populated per Kind; see the
// constructor functions below for the canonical shape of each.
type Node struct {
	Kind Kind

	Number int64
	Bool   bool
	Text   string // LiteralString text, Name for Access/Assign/.../Import, type name for Create
	Name   string

	Inner    *Node // UseVariable/AccessPart/Export inner node
	RHS      *Node // AssignVariable/StaticVariable/MutateVariable right-hand side
	Receiver *Node // UseVariable: set instead of Text/Name when chaining off an inline expression (e.g. a constructor or call result) rather than a bound name

	Args   *Node // Function/Create argument Set
	Params []string
	Body   *Node // CreateFunction/If/While body CodeBlock

	Cond *Node // If condition
	Iter *Node // While iterator expression

	Items []Node // Set/CodeBlock items

	Left  *Node
	Op    ops.Operator
	Right *Node
}

func num(n int64) *Node       { return &Node{Kind: LiteralNumber, Number: n} }
func boolean(b bool) *Node    { return &Node{Kind: LiteralBool, Bool: b} }
func str(s string) *Node      { return &Node{Kind: LiteralString, Text: s} }
func access(name string) *Node { return &Node{Kind: Access, Text: name} }

// Constructors, mirroring the node shapes enumerated in spec §3.

func NewLiteralNumber(n int64) *Node    { return num(n) }
func NewLiteralBool(b bool) *Node       { return boolean(b) }
func NewLiteralString(s string) *Node   { return str(s) }
func NewAccess(name string) *Node       { return access(name) }
func NewAssignVariable(name string, rhs *Node) *Node {
	return &Node{Kind: AssignVariable, Text: name, RHS: rhs}
}
func NewStaticVariable(name string, rhs *Node) *Node {
	return &Node{Kind: StaticVariable, Text: name, RHS: rhs}
}
func NewMutateVariable(name string, rhs *Node) *Node {
	return &Node{Kind: MutateVariable, Text: name, RHS: rhs}
}
func NewUseVariable(name string, inner *Node) *Node {
	return &Node{Kind: UseVariable, Text: name, Inner: inner}
}

// NewUseVariableOnReceiver builds a UseVariable whose receiver is an inline
// expression (a Create or Function call result) rather than a bound name,
// for chains like new Entity("@s").tp(p) or spawn().tp(p).
func NewUseVariableOnReceiver(receiver, inner *Node) *Node {
	return &Node{Kind: UseVariable, Receiver: receiver, Inner: inner}
}
func NewAccessPart(inner *Node) *Node { return &Node{Kind: AccessPart, Inner: inner} }
func NewFunction(name string, args *Node) *Node {
	return &Node{Kind: Function, Text: name, Args: args}
}
func NewCreateFunction(name string, params []string, body *Node) *Node {
	return &Node{Kind: CreateFunction, Text: name, Params: params, Body: body}
}
func NewCreate(typeName string, args *Node) *Node {
	return &Node{Kind: Create, Text: typeName, Args: args}
}
func NewSet(items []Node) *Node      { return &Node{Kind: Set, Items: items} }
func NewCodeBlock(items []Node) *Node { return &Node{Kind: CodeBlock, Items: items} }
func NewIf(cond, body *Node) *Node   { return &Node{Kind: If, Cond: cond, Body: body} }
func NewWhile(name string, iter, body *Node) *Node {
	return &Node{Kind: While, Text: name, Iter: iter, Body: body}
}
func NewOperation(left *Node, op ops.Operator, right *Node) *Node {
	return &Node{Kind: Operation, Left: left, Op: op, Right: right}
}
func NewExport(inner *Node) *Node { return &Node{Kind: Export, Inner: inner} }
func NewImport(name string) *Node { return &Node{Kind: Import, Text: name} }

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case LiteralNumber:
		return fmt.Sprintf("%d", n.Number)
	case LiteralBool:
		return fmt.Sprintf("%t", n.Bool)
	case LiteralString:
		return fmt.Sprintf("%q", n.Text)
	case Access:
		return n.Text
	case AssignVariable:
		return fmt.Sprintf("let %s = %s", n.Text, n.RHS)
	case StaticVariable:
		return fmt.Sprintf("const %s = %s", n.Text, n.RHS)
	case MutateVariable:
		return fmt.Sprintf("%s = %s", n.Text, n.RHS)
	case UseVariable:
		if n.Receiver != nil {
			return fmt.Sprintf("%s.%s", n.Receiver, n.Inner)
		}
		return fmt.Sprintf("%s.%s", n.Text, n.Inner)
	case AccessPart:
		return fmt.Sprintf(".%s", n.Inner)
	case Function:
		return fmt.Sprintf("%s(%s)", n.Text, n.Args)
	case CreateFunction:
		return fmt.Sprintf("function %s(%s) %s", n.Text, strings.Join(n.Params, ", "), n.Body)
	case Create:
		return fmt.Sprintf("new %s(%s)", n.Text, n.Args)
	case Set:
		parts := make([]string, len(n.Items))
		for i := range n.Items {
			parts[i] = n.Items[i].String()
		}
		return strings.Join(parts, ", ")
	case CodeBlock:
		var sb strings.Builder
		sb.WriteString("{\n")
		for i := range n.Items {
			sb.WriteString("\t" + n.Items[i].String() + "\n")
		}
		sb.WriteString("}")
		return sb.String()
	case If:
		return fmt.Sprintf("if %s %s", n.Cond, n.Body)
	case While:
		return fmt.Sprintf("while %s = %s %s", n.Text, n.Iter, n.Body)
	case Operation:
		return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
	case Export:
		return fmt.Sprintf("export %s", n.Inner)
	case Import:
		return fmt.Sprintf("import %s", n.Text)
	default:
		return "<invalid>"
	}
}
