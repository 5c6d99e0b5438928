// Package objects implements craftc's IR: the tagged objects produced by
// the evaluator in pkg/scope and consumed by the emitter in pkg/compiler.
// The shape follows flowa's pkg/eval Object/ObjectKind pattern -- a Kind
// enum for cheap comparisons plus one concrete struct per kind, all
// implementing the Object interface.
package objects

import (
	"fmt"
	"strings"

	"craftc/pkg/ast"
	"craftc/pkg/ops"
)

// Kind discriminates an Object.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindEntity
	KindDimension
	KindBlockPos
	KindString
	KindNumber
	KindBoolean
	KindArray
	KindMCStatement
	KindScoreboard
	KindScoreboardPlayerPair
	KindVariable
	KindMutationVariable
	KindIfStatement
	KindWhile
	KindCreatedFunction
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "ENTITY"
	case KindDimension:
		return "DIMENSION"
	case KindBlockPos:
		return "BLOCKPOS"
	case KindString:
		return "STRING"
	case KindNumber:
		return "NUMBER"
	case KindBoolean:
		return "BOOLEAN"
	case KindArray:
		return "ARRAY"
	case KindMCStatement:
		return "MCSTATEMENT"
	case KindScoreboard:
		return "SCOREBOARD"
	case KindScoreboardPlayerPair:
		return "SCOREBOARD_PLAYER_PAIR"
	case KindVariable:
		return "VARIABLE"
	case KindMutationVariable:
		return "MUTATION_VARIABLE"
	case KindIfStatement:
		return "IF_STATEMENT"
	case KindWhile:
		return "WHILE"
	case KindCreatedFunction:
		return "CREATED_FUNCTION"
	case KindUnknown:
		return "UNKNOWN"
	default:
		return "INVALID"
	}
}

// Object is the interface every IR value implements. Method/member tables
// are looked up by the evaluator (pkg/scope) via Methods()/Members(),
// mirroring flowa's Object interface plus the original mclang Object
// trait's get_functions()/get_variables().
type Object interface {
	Kind() Kind
	Inspect() string
	// Methods returns the builtin methods invocable on this object via
	// UseVariable chaining (spec §4.4), keyed by method name.
	Methods() map[string]Method
	// Members returns the named sub-objects reachable via AccessPart
	// chaining (e.g. BlockPos.x, Array._0), keyed by member name.
	Members() map[string]Object
}

// Method is a builtin bound to a receiver object, invoked with already
// -evaluated argument objects.
type Method func(receiver Object, args []Object) (Object, error)

func noMethods() map[string]Method  { return nil }
func noMembers() map[string]Object  { return nil }

// Entity wraps a target selector string ("@s", "@e[type=pig]", a player
// name, ...).
type Entity struct {
	Selector string
}

func (e *Entity) Kind() Kind        { return KindEntity }
func (e *Entity) Inspect() string   { return e.Selector }
func (e *Entity) Members() map[string]Object { return noMembers() }
func (e *Entity) Methods() map[string]Method {
	return map[string]Method{
		"kill": func(recv Object, args []Object) (Object, error) {
			self := recv.(*Entity)
			return &MCStatement{Statement: Statement{Kind: StatementRaw, Raw: fmt.Sprintf("kill %s", self.Selector)}}, nil
		},
		"tp": func(recv Object, args []Object) (Object, error) {
			self := recv.(*Entity)
			if len(args) != 1 {
				return nil, fmt.Errorf("tp expects exactly 1 argument, got %d", len(args))
			}
			switch target := args[0].(type) {
			case *Entity:
				return &MCStatement{Statement: Statement{Kind: StatementRaw, Raw: fmt.Sprintf("tp %s %s", self.Selector, target.Selector)}}, nil
			case *BlockPos:
				return &MCStatement{Statement: Statement{Kind: StatementRaw, Raw: fmt.Sprintf("tp %s %d %d %d", self.Selector, target.X, target.Y, target.Z)}}, nil
			default:
				return nil, fmt.Errorf("tp expects an Entity or BlockPos argument, got %s", args[0].Kind())
			}
		},
	}
}

// Dimension wraps a dimension identifier ("minecraft:overworld", ...).
type Dimension struct {
	Name string
}

func (d *Dimension) Kind() Kind        { return KindDimension }
func (d *Dimension) Inspect() string   { return d.Name }
func (d *Dimension) Members() map[string]Object { return noMembers() }
func (d *Dimension) Methods() map[string]Method { return noMethods() }

// BlockPos is an absolute block position triple of integer coordinates;
// relative (~ or ^) coordinates are not represented (see DESIGN.md).
type BlockPos struct {
	X, Y, Z int64
}

func (b *BlockPos) Kind() Kind      { return KindBlockPos }
func (b *BlockPos) Inspect() string { return fmt.Sprintf("%d %d %d", b.X, b.Y, b.Z) }
func (b *BlockPos) Members() map[string]Object {
	return map[string]Object{
		"x": &Number{Value: b.X},
		"y": &Number{Value: b.Y},
		"z": &Number{Value: b.Z},
	}
}
func (b *BlockPos) Methods() map[string]Method { return noMethods() }

// String is a compile-time string literal. craftc has no runtime string
// type; strings only ever appear as constructor/method arguments.
type String struct {
	Value string
}

func (s *String) Kind() Kind      { return KindString }
func (s *String) Inspect() string { return s.Value }
func (s *String) Members() map[string]Object {
	return map[string]Object{"value": s}
}
func (s *String) Methods() map[string]Method { return noMethods() }

// Number is a compile-time integer.
type Number struct {
	Value int64
}

func (n *Number) Kind() Kind      { return KindNumber }
func (n *Number) Inspect() string { return fmt.Sprintf("%d", n.Value) }
func (n *Number) Members() map[string]Object {
	return map[string]Object{"value": n}
}
func (n *Number) Methods() map[string]Method { return noMethods() }

// Boolean is a compile-time boolean.
type Boolean struct {
	Value bool
}

func (b *Boolean) Kind() Kind      { return KindBoolean }
func (b *Boolean) Inspect() string { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) Members() map[string]Object {
	return map[string]Object{"value": b}
}
func (b *Boolean) Methods() map[string]Method { return noMethods() }

// Array is a compile-time, fixed-size collection, the only container type
// craftc supports (backs while-loop unrolling, spec §4.5).
type Array struct {
	Values []Object
}

func (a *Array) Kind() Kind { return KindArray }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Values))
	for i, v := range a.Values {
		parts[i] = v.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *Array) Members() map[string]Object {
	m := make(map[string]Object, len(a.Values))
	for i, v := range a.Values {
		m[fmt.Sprintf("_%d", i)] = v
	}
	return m
}
func (a *Array) Methods() map[string]Method {
	return map[string]Method{
		"get": func(recv Object, args []Object) (Object, error) {
			self := recv.(*Array)
			if len(args) != 1 {
				return nil, fmt.Errorf("get expects exactly 1 argument, got %d", len(args))
			}
			idx, ok := args[0].(*Number)
			if !ok {
				return nil, fmt.Errorf("get expects a Number index, got %s", args[0].Kind())
			}
			if idx.Value < 0 || int(idx.Value) >= len(self.Values) {
				return nil, fmt.Errorf("array index %d out of range (len %d)", idx.Value, len(self.Values))
			}
			return self.Values[idx.Value], nil
		},
	}
}

// StatementKind discriminates an MCStatement's payload, mirroring the
// original mclang Statements enum (Raw vs. Execute chain).
type StatementKind uint8

const (
	StatementRaw StatementKind = iota
	StatementExecute
)

// StepKind discriminates an ExecuteStep within an Execute statement chain.
type StepKind uint8

const (
	StepAs StepKind = iota
	StepAt
	StepIn
	StepCompare
)

// ExecuteStep is one link of an `execute ...` condition chain. Compare
// steps carry the raw, not-yet-normalized operand IR (spec §4.4: "return
// MCStatement(Execute([Compare(lIR, op, rIR)]))") -- reducing lIR/rIR to
// scoreboard pairs or literals is the emitter's job (spec §4.5), not the
// evaluator's, so this struct is a plain data carrier with no Render/String
// method of its own.
type ExecuteStep struct {
	Kind   StepKind
	Entity *Entity    // StepAs, StepAt
	Dim    *Dimension // StepIn

	// StepCompare: the two operand IR values and the comparison/logical
	// operator joining them. Left/Right are one of *MCStatement (nested
	// And/Or clause), *Variable, *ScoreboardPlayerPair, *Number, *Boolean.
	Left  Object
	Op    ops.Operator
	Right Object
}

// Statement is the unrendered payload of an MCStatement: either a raw
// command line or an execute-condition chain.
type Statement struct {
	Kind  StatementKind
	Raw   string        // StatementRaw
	Steps []ExecuteStep // StatementExecute
}

// MCStatement wraps a Statement so it can flow through the evaluator as an
// Object (the result of a method call like Entity.kill(), or of folding a
// comparison/logical Operation).
type MCStatement struct {
	Statement Statement
}

func (m *MCStatement) Kind() Kind      { return KindMCStatement }
func (m *MCStatement) Inspect() string { return fmt.Sprintf("mcstatement(%s)", m.Statement.Kind) }
func (m *MCStatement) Members() map[string]Object { return noMembers() }
func (m *MCStatement) Methods() map[string]Method { return noMethods() }

func (k StatementKind) String() string {
	if k == StatementRaw {
		return "raw"
	}
	return "execute"
}

// Scoreboard names a scoreboard objective, plus the Object kind of values
// it is expected to hold (spec §6: one objective per craftc-managed
// scoreboard, criterion always "dummy").
type Scoreboard struct {
	Name          string
	Objective     string
	ObjectiveType Kind
}

func (s *Scoreboard) Kind() Kind      { return KindScoreboard }
func (s *Scoreboard) Inspect() string { return fmt.Sprintf("scoreboard(%s, %s)", s.Name, s.Objective) }
func (s *Scoreboard) Members() map[string]Object { return noMembers() }
func (s *Scoreboard) Methods() map[string]Method {
	return map[string]Method{
		"get_player": func(recv Object, args []Object) (Object, error) {
			self := recv.(*Scoreboard)
			if len(args) != 1 {
				return nil, fmt.Errorf("get_player expects exactly 1 argument, got %d", len(args))
			}
			name, ok := args[0].(*String)
			if !ok {
				return nil, fmt.Errorf("get_player expects a String argument, got %s", args[0].Kind())
			}
			return &ScoreboardPlayerPair{Objective: self.Name, Player: name.Value, ObjectiveType: self.ObjectiveType}, nil
		},
	}
}

// ScoreboardPlayerPair identifies one scoreboard cell (objective, player).
// Its six mutation methods lower directly to MutationVariable (spec's
// SUPPLEMENTED FEATURES item #2, grounded on obj/scoreboard.rs's
// create_operator_func).
type ScoreboardPlayerPair struct {
	Objective     string
	Player        string
	ObjectiveType Kind
}

func (p *ScoreboardPlayerPair) Kind() Kind { return KindScoreboardPlayerPair }
func (p *ScoreboardPlayerPair) Inspect() string {
	return fmt.Sprintf("%s %s", p.Player, p.Objective)
}
func (p *ScoreboardPlayerPair) Members() map[string]Object {
	return map[string]Object{
		"selector":  &String{Value: p.Player},
		"objective": &String{Value: p.Objective},
	}
}
func (p *ScoreboardPlayerPair) Methods() map[string]Method {
	mutate := func(op ops.Operator) Method {
		return func(recv Object, args []Object) (Object, error) {
			self := recv.(*ScoreboardPlayerPair)
			if len(args) != 1 {
				return nil, fmt.Errorf("scoreboard mutation expects exactly 1 argument, got %d", len(args))
			}
			return &MutationVariable{Target: self, Op: op, Value: args[0]}, nil
		}
	}
	return map[string]Method{
		"add":      mutate(ops.Add),
		"sub":      mutate(ops.Subtract),
		"multiply": mutate(ops.Multiply),
		"divide":   mutate(ops.Divide),
		"modulus":  mutate(ops.Modulus),
		"set":      mutate(ops.Assignment),
	}
}

// Variable is a named binding's current value plus the Scoreboard cell
// backing it (spec §5: every non-static scalar variable is backed by a
// ScoreboardPlayerPair at "v_<scope>_<index>" / "value").
type Variable struct {
	Value      Object
	Scoreboard *Scoreboard
}

func (v *Variable) Kind() Kind      { return KindVariable }
func (v *Variable) Inspect() string { return v.Value.Inspect() }
func (v *Variable) Members() map[string]Object { return v.Value.Members() }
func (v *Variable) Methods() map[string]Method { return v.Value.Methods() }

// MutationVariable is the IR node produced by a scoreboard mutation method
// call or a "+=" rewrite; the emitter lowers it to one
// `scoreboard players ...` line.
type MutationVariable struct {
	Target *ScoreboardPlayerPair
	Op     ops.Operator
	Value  Object // *Number, *Boolean, or *ScoreboardPlayerPair
}

func (m *MutationVariable) Kind() Kind      { return KindMutationVariable }
func (m *MutationVariable) Inspect() string { return fmt.Sprintf("%s %s %s", m.Target.Inspect(), m.Op, m.Value.Inspect()) }
func (m *MutationVariable) Members() map[string]Object { return noMembers() }
func (m *MutationVariable) Methods() map[string]Method { return noMethods() }

// IfStatement pairs the single Execute-condition MCStatement produced by
// evaluating an And/Or-folded Operation with the body CodeBlock it guards.
type IfStatement struct {
	Condition *MCStatement
	Body      *ast.Node
}

func (i *IfStatement) Kind() Kind      { return KindIfStatement }
func (i *IfStatement) Inspect() string { return fmt.Sprintf("if %s {...}", i.Condition.Inspect()) }
func (i *IfStatement) Members() map[string]Object { return noMembers() }
func (i *IfStatement) Methods() map[string]Method { return noMethods() }

// While pairs a bound element name with the already-evaluated Array it
// unrolls over and the body to instantiate once per element.
type While struct {
	Name string
	Iter *Array
	Body *ast.Node
}

func (w *While) Kind() Kind      { return KindWhile }
func (w *While) Inspect() string { return fmt.Sprintf("while %s = %s {...}", w.Name, w.Iter.Inspect()) }
func (w *While) Members() map[string]Object { return noMembers() }
func (w *While) Methods() map[string]Method { return noMethods() }

// CreatedFunction marks a named function binding registered in scope; it
// carries the function's name, parameter names and unevaluated body, and
// emits no text.
type CreatedFunction struct {
	Name   string
	Params []string
	Body   *ast.Node
}

func (c *CreatedFunction) Kind() Kind      { return KindCreatedFunction }
func (c *CreatedFunction) Inspect() string { return fmt.Sprintf("function %s", c.Name) }
func (c *CreatedFunction) Members() map[string]Object { return noMembers() }
func (c *CreatedFunction) Methods() map[string]Method { return noMethods() }

// Unknown is the zero-information placeholder used where the original
// mclang source used Objects::Unknown (the second field of mk_variable's
// scoreboard_obj).
type Unknown struct{}

func (u *Unknown) Kind() Kind      { return KindUnknown }
func (u *Unknown) Inspect() string { return "<unknown>" }
func (u *Unknown) Members() map[string]Object { return noMembers() }
func (u *Unknown) Methods() map[string]Method { return noMethods() }
