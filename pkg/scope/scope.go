// Package scope implements craftc's per-scope execution model: the
// Scope record (named variable/function bindings plus pending statements)
// and the recursive Evaluator that walks an AST into IR objects (spec
// §4.4), grounded on original_source/src/compile/compiler.rs's
// Scope::execute.
package scope

import (
	"craftc/pkg/ast"
	"craftc/pkg/objects"
)

// Variable is one named binding: its current IR value and whether it is
// static (immutable). Static bindings come from `const` declarations, whose
// Value is a Variable wrapper with a reserved but never-emitted scoreboard
// name, and from scalar function arguments, whose raw value is stored
// directly; access to a static binding yields the raw value.
type Variable struct {
	Name   string
	Value  objects.Object
	Static bool
}

// FunctionDef is a registered `function` declaration.
type FunctionDef struct {
	Name   string
	Params []string
	Body   *ast.Node
}

// orderedVariables preserves insertion order, required for deterministic
// scoreboard-name generation (spec §5: "the environment uses an ordered
// mapping").
type orderedVariables struct {
	order []string
	byName map[string]*Variable
}

func newOrderedVariables() *orderedVariables {
	return &orderedVariables{byName: make(map[string]*Variable)}
}

func (o *orderedVariables) Len() int { return len(o.order) }

func (o *orderedVariables) Get(name string) (*Variable, bool) {
	v, ok := o.byName[name]
	return v, ok
}

func (o *orderedVariables) Set(v *Variable) {
	if _, exists := o.byName[v.Name]; !exists {
		o.order = append(o.order, v.Name)
	}
	o.byName[v.Name] = v
}

func (o *orderedVariables) Clone() *orderedVariables {
	c := newOrderedVariables()
	c.order = append([]string(nil), o.order...)
	for k, v := range o.byName {
		cp := *v
		c.byName[k] = &cp
	}
	return c
}

type orderedFunctions struct {
	order []string
	byName map[string]*FunctionDef
}

func newOrderedFunctions() *orderedFunctions {
	return &orderedFunctions{byName: make(map[string]*FunctionDef)}
}

func (o *orderedFunctions) Get(name string) (*FunctionDef, bool) {
	f, ok := o.byName[name]
	return f, ok
}

func (o *orderedFunctions) Set(f *FunctionDef) {
	if _, exists := o.byName[f.Name]; !exists {
		o.order = append(o.order, f.Name)
	}
	o.byName[f.Name] = f
}

func (o *orderedFunctions) Clone() *orderedFunctions {
	c := newOrderedFunctions()
	c.order = append([]string(nil), o.order...)
	for k, v := range o.byName {
		c.byName[k] = v
	}
	return c
}

// Scope is one compiled unit: a named .mcfunction-to-be, its bindings, and
// the statement list still to execute.
type Scope struct {
	Name       string
	Namespace  string
	Statements []ast.Node

	variables *orderedVariables
	functions *orderedFunctions

	ExportedVariables []string
	ExportedFunctions []string

	// Children records child scopes created while compiling this one (If
	// bodies, While-loop iterations, Function-call bodies), in creation
	// order. Each child is compiled as soon as it is created; the length
	// of Children supplies the index in the next child's name.
	Children []*Scope
}

// New creates a scope with no bindings.
func New(name, namespace string, statements []ast.Node) *Scope {
	return &Scope{
		Name:       name,
		Namespace:  namespace,
		Statements: statements,
		variables:  newOrderedVariables(),
		functions:  newOrderedFunctions(),
	}
}

// CloneFor produces a new Scope with the given name and statements, the
// parent's namespace, and copies of the parent's variable and function
// bindings --
// "inherit the parent's variables as a shallow copy" (spec §4.4).
func (s *Scope) CloneFor(name string, statements []ast.Node) *Scope {
	child := New(name, s.Namespace, statements)
	child.variables = s.variables.Clone()
	child.functions = s.functions.Clone()
	return child
}

func (s *Scope) VariableCount() int { return s.variables.Len() }

func (s *Scope) LookupVariable(name string) (*Variable, bool) {
	return s.variables.Get(name)
}

func (s *Scope) DefineVariable(v *Variable) {
	s.variables.Set(v)
}

func (s *Scope) LookupFunction(name string) (*FunctionDef, bool) {
	return s.functions.Get(name)
}

func (s *Scope) DefineFunction(f *FunctionDef) {
	s.functions.Set(f)
}

// NewScoreboardName allocates the next "v_<scope>_<index>" backing name
// for a fresh variable in this scope (spec §4.4, §5).
func (s *Scope) NewScoreboardName() string {
	return "v_" + s.Name + "_" + itoa(s.variables.Len())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
