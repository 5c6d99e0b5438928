// Package compiler implements craftc's emitter: the Compiler record that
// drives a scope through the evaluator and lowers its resulting IR values
// into .mcfunction text (spec §4.5), grounded on
// original_source/src/compile/compiler.rs's Compiler and
// original_source/src/compile/mcstatements.rs's execute_step_str.
package compiler

import (
	"fmt"
	"strings"

	"craftc/internal/diagnostics"
	"craftc/pkg/objects"
	"craftc/pkg/scope"
)

// Compiler owns the namespace, the prepared (not-yet-compiled) import
// sources, and the accumulated output text per compiled scope name.
type Compiler struct {
	Namespace string

	preparedSources map[string]string
	outputs         map[string]string
	outputOrder     []string
	compiled        map[string]*scope.Scope
}

// New constructs a Compiler ready to compile an entry scope. preparedFiles
// maps a scope name to its raw source text, as produced by the driver's
// directory scan (spec §4.6).
func New(namespace string, preparedFiles map[string]string) *Compiler {
	return &Compiler{
		Namespace:       namespace,
		preparedSources: preparedFiles,
		outputs:         make(map[string]string),
		compiled:        make(map[string]*scope.Scope),
	}
}

// Outputs returns the compiled (scopeName -> text) map accumulated across
// this Compiler's lifetime. The map itself is unordered; OutputOrder gives
// the first-written order of its keys.
func (c *Compiler) Outputs() map[string]string {
	return c.outputs
}

// OutputOrder returns the scope names in the order their text was first
// written, for deterministic iteration.
func (c *Compiler) OutputOrder() []string {
	return c.outputOrder
}

// CompiledScope implements scope.Host.
func (c *Compiler) CompiledScope(name string) (*scope.Scope, bool) {
	s, ok := c.compiled[name]
	return s, ok
}

// PreparedSource implements scope.Host.
func (c *Compiler) PreparedSource(name string) (string, bool) {
	src, ok := c.preparedSources[name]
	return src, ok
}

// Compile implements scope.Host: it walks s's statement list through a
// fresh Evaluator, lowers each resulting IR value into text via
// CompileInto, and records the concatenated text under s.Name. Child
// scopes created along the way (Function-call bodies, If/While bodies)
// are compiled recursively as they are discovered.
func (c *Compiler) Compile(s *scope.Scope) error {
	if _, done := c.compiled[s.Name]; done {
		return nil
	}
	c.compiled[s.Name] = s

	ev := scope.NewEvaluator(s, c)

	var text string
	for i := range s.Statements {
		value, err := ev.Execute(&s.Statements[i], nil)
		if err != nil {
			return err
		}
		rendered, err := c.CompileInto(value, s)
		if err != nil {
			return err
		}
		text += rendered
	}

	if _, exists := c.outputs[s.Name]; !exists {
		c.outputOrder = append(c.outputOrder, s.Name)
	}
	c.outputs[s.Name] = text
	return nil
}

// CompileInto lowers one IR value produced by the evaluator into its
// emitted text, recursing into any child scope it creates (spec §4.5).
func (c *Compiler) CompileInto(v objects.Object, s *scope.Scope) (string, error) {
	switch val := v.(type) {
	case *objects.MCStatement:
		return renderMCStatement(val)
	case *objects.MutationVariable:
		return renderMutation(val)
	case *objects.Variable:
		return renderVariableInit(val), nil
	case *objects.IfStatement:
		return c.compileIf(val, s)
	case *objects.While:
		return c.compileWhile(val, s)
	case *objects.Array:
		var out string
		for _, item := range val.Values {
			rendered, err := c.CompileInto(item, s)
			if err != nil {
				return "", err
			}
			out += rendered
		}
		return out, nil
	default:
		return "", nil
	}
}

func (c *Compiler) compileIf(ifs *objects.IfStatement, parent *scope.Scope) (string, error) {
	if ifs.Condition.Statement.Kind != objects.StatementExecute {
		return "", diagnostics.NewInternalError("if condition is not an Execute statement")
	}
	if len(ifs.Condition.Statement.Steps) != 1 {
		return "", diagnostics.NewInternalError("if condition must fold to exactly one step, got %d", len(ifs.Condition.Statement.Steps))
	}
	clause, err := renderExecuteStep(ifs.Condition.Statement.Steps[0])
	if err != nil {
		return "", err
	}

	body := scope.FlattenBody(ifs.Body)
	if len(body) == 0 {
		return "", diagnostics.NewSemanticError("empty if body")
	}

	childName := fmt.Sprintf("%s.%d", parent.Name, len(parent.Children))
	child := parent.CloneFor(childName, body)
	parent.Children = append(parent.Children, child)
	if err := c.Compile(child); err != nil {
		return "", err
	}

	var out string
	for _, fragment := range strings.Split(clause, "[OR]") {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		out += fmt.Sprintf("execute %s run function %s:%s\n", fragment, c.Namespace, child.Name)
	}
	return out, nil
}

func (c *Compiler) compileWhile(w *objects.While, parent *scope.Scope) (string, error) {
	body := scope.FlattenBody(w.Body)
	if len(body) == 0 {
		return "", diagnostics.NewSemanticError("empty while body")
	}

	var out string
	for _, item := range w.Iter.Values {
		childName := fmt.Sprintf("%s.%d", parent.Name, len(parent.Children))
		child := parent.CloneFor(childName, body)

		sb := &objects.Scoreboard{
			Name:          child.NewScoreboardName(),
			Objective:     "dummy",
			ObjectiveType: item.Kind(),
		}
		variable := &objects.Variable{Value: item, Scoreboard: sb}
		child.DefineVariable(&scope.Variable{Name: w.Name, Value: variable, Static: false})

		parent.Children = append(parent.Children, child)
		if err := c.Compile(child); err != nil {
			return "", err
		}
		out += fmt.Sprintf("function %s:%s\n", c.Namespace, child.Name)
	}
	return out, nil
}
