package compiler

import (
	"fmt"
	"strings"

	"craftc/internal/diagnostics"
	"craftc/pkg/objects"
	"craftc/pkg/ops"
)

// pair is a rendered (player, objective) address, the normalized form
// every comparison/mutation operand reduces to before text emission
// (spec §4.5).
type pair struct {
	Player    string
	Objective string
}

func asPair(o objects.Object) (pair, bool) {
	switch v := o.(type) {
	case *objects.Variable:
		return pair{Player: "value", Objective: v.Scoreboard.Name}, true
	case *objects.ScoreboardPlayerPair:
		return pair{Player: v.Player, Objective: v.Objective}, true
	default:
		return pair{}, false
	}
}

// renderExecuteStep renders one link of an execute condition chain (spec
// §4.5), grounded on mcstatements.rs's execute_step_str.
func renderExecuteStep(step objects.ExecuteStep) (string, error) {
	switch step.Kind {
	case objects.StepAs:
		return fmt.Sprintf("as %s", step.Entity.Selector), nil
	case objects.StepAt:
		return fmt.Sprintf("at %s", step.Entity.Selector), nil
	case objects.StepIn:
		return fmt.Sprintf("in %s", step.Dim.Name), nil
	case objects.StepCompare:
		return renderCompare(step.Left, step.Op, step.Right)
	default:
		return "", diagnostics.NewInternalError("unknown execute step kind %d", step.Kind)
	}
}

func renderCompare(l objects.Object, op ops.Operator, r objects.Object) (string, error) {
	if lStmt, ok := l.(*objects.MCStatement); ok {
		rStmt, ok := r.(*objects.MCStatement)
		if !ok {
			return "", diagnostics.NewInternalError("%s right-hand side is not a condition", op)
		}
		if len(lStmt.Statement.Steps) == 0 || len(rStmt.Statement.Steps) == 0 {
			return "", diagnostics.NewInternalError("nested condition has no steps")
		}
		leftPart, err := renderExecuteStep(lStmt.Statement.Steps[0])
		if err != nil {
			return "", err
		}
		rightPart, err := renderExecuteStep(rStmt.Statement.Steps[0])
		if err != nil {
			return "", err
		}
		switch op {
		case ops.And:
			return leftPart + " " + rightPart, nil
		case ops.Or:
			return "[OR]" + leftPart + "[OR]" + rightPart, nil
		default:
			return "", diagnostics.NewInternalError("operator %s cannot join two conditions", op)
		}
	}

	lPair, ok := asPair(l)
	if !ok {
		return "", diagnostics.NewSemanticError("comparison left-hand side must be a variable, got %s", l.Kind())
	}

	switch v := r.(type) {
	case *objects.Number:
		return fmt.Sprintf("if score %s %s matches %s", lPair.Player, lPair.Objective, op.MatchesRange(v.Value)), nil
	case *objects.Boolean:
		n := int64(0)
		if v.Value {
			n = 1
		}
		return fmt.Sprintf("if score %s %s matches %s", lPair.Player, lPair.Objective, op.MatchesRange(n)), nil
	}

	rPair, ok := asPair(r)
	if !ok {
		return "", diagnostics.NewSemanticError("comparison right-hand side must be a variable or literal, got %s", r.Kind())
	}
	return fmt.Sprintf("if score %s %s %s %s %s", lPair.Player, lPair.Objective, op.CompareSymbol(), rPair.Player, rPair.Objective), nil
}

// renderMCStatement renders a Raw command verbatim or an Execute chain by
// concatenating each step (spec §4.5).
func renderMCStatement(m *objects.MCStatement) (string, error) {
	switch m.Statement.Kind {
	case objects.StatementRaw:
		return m.Statement.Raw + "\n", nil
	case objects.StatementExecute:
		var out strings.Builder
		for _, step := range m.Statement.Steps {
			part, err := renderExecuteStep(step)
			if err != nil {
				return "", err
			}
			out.WriteString(part)
			out.WriteString(" ")
		}
		return out.String(), nil
	default:
		return "", diagnostics.NewInternalError("unknown statement kind %d", m.Statement.Kind)
	}
}

var mutationVerb = map[ops.Operator]string{
	ops.Assignment: "set",
	ops.Add:        "add",
	ops.Subtract:   "remove",
}

var mutationOperationSymbol = map[ops.Operator]string{
	ops.Assignment: "=",
	ops.Add:        "+=",
	ops.Subtract:   "-=",
	ops.Multiply:   "*=",
	ops.Divide:     "/=",
	ops.Modulus:    "%=",
}

// renderMutation lowers a MutationVariable to one `scoreboard players ...`
// line (spec §4.5), grounded on obj/std.rs's compile_into_mutation_variable.
func renderMutation(m *objects.MutationVariable) (string, error) {
	p := m.Target

	switch v := m.Value.(type) {
	case *objects.Number:
		if verb, ok := mutationVerb[m.Op]; ok {
			return fmt.Sprintf("scoreboard players %s %s %s %d\n", verb, p.Player, p.Objective, v.Value), nil
		}
		if sym, ok := mutationOperationSymbol[m.Op]; ok {
			return fmt.Sprintf("scoreboard players operation %s %s %s %d\n", p.Player, p.Objective, sym, v.Value), nil
		}
		return "", diagnostics.NewInternalError("unhandled mutation operator %s", m.Op)

	case *objects.Boolean:
		n := int64(0)
		if v.Value {
			n = 1
		}
		return fmt.Sprintf("scoreboard players set %s %s %d\n", p.Player, p.Objective, n), nil

	case *objects.ScoreboardPlayerPair:
		sym, ok := mutationOperationSymbol[m.Op]
		if !ok {
			return "", diagnostics.NewInternalError("unhandled mutation operator %s", m.Op)
		}
		return fmt.Sprintf("scoreboard players operation %s %s %s %s %s\n", p.Player, p.Objective, sym, v.Player, v.Objective), nil

	default:
		return "", diagnostics.NewInternalError("invalid mutation value kind %s", m.Value.Kind())
	}
}

// renderVariableInit emits the one-time scoreboard objective (and, for
// scalar element types, initial value) for a freshly materialized
// Variable (spec §4.5), grounded on obj/std.rs's compile_into_variable.
// Non-scalar element types (Entity, BlockPos, ...) allocate the scoreboard
// name but emit no text, matching seed scenario 4.
func renderVariableInit(v *objects.Variable) string {
	sb := v.Scoreboard
	switch elt := v.Value.(type) {
	case *objects.Number:
		return fmt.Sprintf("scoreboard objective add %s %s\nscoreboard players set value %s %d\n", sb.Name, sb.Objective, sb.Name, elt.Value)
	case *objects.Boolean:
		n := int64(0)
		if elt.Value {
			n = 1
		}
		return fmt.Sprintf("scoreboard objective add %s %s\nscoreboard players set value %s %d\n", sb.Name, sb.Objective, sb.Name, n)
	case *objects.Scoreboard:
		return fmt.Sprintf("scoreboard objective add %s %s\n", sb.Name, sb.Objective)
	default:
		return ""
	}
}
