package scope

import (
	"fmt"

	"craftc/internal/diagnostics"
	"craftc/pkg/ast"
	"craftc/pkg/lexer"
	"craftc/pkg/objects"
	"craftc/pkg/ops"
	"craftc/pkg/parser"
)

// Host is the subset of Compiler behavior the Evaluator needs to recurse
// into child scopes for Function calls and Import -- both of which must
// fully compile a nested scope during evaluation itself (spec §4.4),
// unlike If/While, whose child scopes are created later by the emitter.
type Host interface {
	// Compile fully evaluates and emits s, recording its output text
	// under s.Name.
	Compile(s *Scope) error
	// CompiledScope returns a previously compiled scope by name (Import
	// dedup: a name is compiled at most once).
	CompiledScope(name string) (*Scope, bool)
	// PreparedSource returns an import target's source text by scope
	// name (the driver's preparedFiles mapping).
	PreparedSource(name string) (string, bool)
}

// Evaluator implements the recursive execute(node, receiver) walk of
// spec §4.4, grounded on original_source/src/compile/compiler.rs's
// Scope::execute.
type Evaluator struct {
	Scope *Scope
	Host  Host
}

func NewEvaluator(s *Scope, host Host) *Evaluator {
	return &Evaluator{Scope: s, Host: host}
}

// Execute evaluates one AST node under the given receiver (nil for a
// top-level statement).
func (e *Evaluator) Execute(node *ast.Node, receiver objects.Object) (objects.Object, error) {
	if node == nil {
		return &objects.Unknown{}, nil
	}
	switch node.Kind {
	case ast.LiteralNumber:
		return &objects.Number{Value: node.Number}, nil
	case ast.LiteralBool:
		return &objects.Boolean{Value: node.Bool}, nil
	case ast.LiteralString:
		return &objects.String{Value: node.Text}, nil

	case ast.AssignVariable:
		return e.assign(node.Text, node.RHS, false)
	case ast.StaticVariable:
		return e.assign(node.Text, node.RHS, true)
	case ast.MutateVariable:
		return e.mutate(node.Text, node.RHS)

	case ast.Access:
		return e.access(node.Text, receiver)

	case ast.UseVariable:
		return e.useVariable(node, receiver)
	case ast.AccessPart:
		return e.Execute(node.Inner, receiver)

	case ast.Operation:
		return e.operation(node, receiver)

	case ast.If:
		cond, err := e.Execute(node.Cond, nil)
		if err != nil {
			return nil, err
		}
		stmt, ok := cond.(*objects.MCStatement)
		if !ok {
			return nil, diagnostics.NewSemanticError("if condition must evaluate to a comparison, got %s", cond.Kind())
		}
		return &objects.IfStatement{Condition: stmt, Body: node.Body}, nil

	case ast.CreateFunction:
		fn := &FunctionDef{Name: node.Text, Params: node.Params, Body: node.Body}
		e.Scope.DefineFunction(fn)
		return &objects.CreatedFunction{Name: node.Text, Params: node.Params, Body: node.Body}, nil

	case ast.Function:
		return e.call(node, receiver)

	case ast.Create:
		return e.create(node, receiver)

	case ast.Set:
		values := make([]objects.Object, 0, len(node.Items))
		for i := range node.Items {
			v, err := e.Execute(&node.Items[i], receiver)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return &objects.Array{Values: values}, nil

	case ast.CodeBlock:
		var last objects.Object = &objects.Unknown{}
		for i := range node.Items {
			v, err := e.Execute(&node.Items[i], nil)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	case ast.While:
		iterVal, err := e.Execute(node.Iter, nil)
		if err != nil {
			return nil, err
		}
		arr, err := asArray(iterVal)
		if err != nil {
			return nil, err
		}
		return &objects.While{Name: node.Text, Iter: arr, Body: node.Body}, nil

	case ast.Export:
		return e.export(node.Inner)

	case ast.Import:
		return e.importScope(node.Text)

	default:
		return nil, diagnostics.NewInternalError("no evaluation rule for AST kind %s", node.Kind)
	}
}

func asArray(v objects.Object) (*objects.Array, error) {
	switch val := v.(type) {
	case *objects.Array:
		return val, nil
	case *objects.Variable:
		return asArray(val.Value)
	default:
		return nil, diagnostics.NewSemanticError("while target is not iterable (got %s)", v.Kind())
	}
}

func (e *Evaluator) assign(name string, rhs *ast.Node, static bool) (objects.Object, error) {
	value, err := e.Execute(rhs, nil)
	if err != nil {
		return nil, err
	}

	var elementType objects.Object
	if asVar, ok := value.(*objects.Variable); ok {
		elementType = asVar.Value
	} else {
		elementType = value
	}

	sb := &objects.Scoreboard{
		Name:          e.Scope.NewScoreboardName(),
		Objective:     "dummy",
		ObjectiveType: elementType.Kind(),
	}
	variable := &objects.Variable{Value: elementType, Scoreboard: sb}
	e.Scope.DefineVariable(&Variable{Name: name, Value: variable, Static: static})

	if static {
		return &objects.Unknown{}, nil
	}
	return variable, nil
}

func (e *Evaluator) mutate(name string, rhs *ast.Node) (objects.Object, error) {
	binding, ok := e.Scope.LookupVariable(name)
	if !ok {
		return nil, diagnostics.NewSemanticError("variable %q does not exist", name)
	}
	if binding.Static {
		return nil, diagnostics.NewSemanticError("cannot mutate const binding %q", name)
	}
	variable, ok := binding.Value.(*objects.Variable)
	if !ok {
		return nil, diagnostics.NewInternalError("binding %q is not backed by a Variable", name)
	}

	rhsValue, err := e.Execute(rhs, nil)
	if err != nil {
		return nil, err
	}

	lhsPair := &objects.ScoreboardPlayerPair{
		Objective:     variable.Scoreboard.Name,
		Player:        "value",
		ObjectiveType: variable.Scoreboard.ObjectiveType,
	}

	var op ops.Operator
	var rhsPayload objects.Object

	switch v := rhsValue.(type) {
	case *objects.Variable:
		op = ops.Assignment
		rhsPayload = &objects.ScoreboardPlayerPair{
			Objective:     v.Scoreboard.Name,
			Player:        "value",
			ObjectiveType: v.Scoreboard.ObjectiveType,
		}
	case *objects.MutationVariable:
		op = v.Op
		rhsPayload = v.Value
	default:
		op = ops.Assignment
		rhsPayload = rhsValue
	}

	return &objects.MutationVariable{Target: lhsPair, Op: op, Value: rhsPayload}, nil
}

func (e *Evaluator) access(name string, receiver objects.Object) (objects.Object, error) {
	if receiver == nil {
		binding, ok := e.Scope.LookupVariable(name)
		if !ok {
			return nil, diagnostics.NewSemanticError("variable %q does not exist", name)
		}
		if binding.Static {
			if variable, ok := binding.Value.(*objects.Variable); ok {
				return variable.Value, nil
			}
			return binding.Value, nil
		}
		return binding.Value, nil
	}

	members := receiver.Members()
	member, ok := members[name]
	if !ok {
		return nil, diagnostics.NewSemanticError("no member %q on %s", name, receiver.Kind())
	}
	return member, nil
}

func (e *Evaluator) useVariable(node *ast.Node, receiver objects.Object) (objects.Object, error) {
	if receiver == nil && node.Receiver != nil {
		recv, err := e.Execute(node.Receiver, nil)
		if err != nil {
			return nil, err
		}
		return e.Execute(node.Inner, recv)
	}
	if receiver == nil {
		recv, err := e.access(node.Text, nil)
		if err != nil {
			return nil, err
		}
		return e.Execute(node.Inner, recv)
	}
	member, err := e.access(node.Text, receiver)
	if err != nil {
		return nil, err
	}
	return e.Execute(node.Inner, member)
}

func (e *Evaluator) operation(node *ast.Node, receiver objects.Object) (objects.Object, error) {
	left, err := e.Execute(node.Left, receiver)
	if err != nil {
		return nil, err
	}
	right, err := e.Execute(node.Right, receiver)
	if err != nil {
		return nil, err
	}

	if node.Op.Arithmetic() {
		lhsVar, ok := left.(*objects.Variable)
		if !ok {
			return nil, diagnostics.NewSemanticError("left-hand side of %s must be a variable", node.Op)
		}
		lhsPair := &objects.ScoreboardPlayerPair{
			Objective:     lhsVar.Scoreboard.Name,
			Player:        "value",
			ObjectiveType: lhsVar.Scoreboard.ObjectiveType,
		}
		var rhsPayload objects.Object
		if rhsVar, ok := right.(*objects.Variable); ok {
			rhsPayload = &objects.ScoreboardPlayerPair{
				Objective:     rhsVar.Scoreboard.Name,
				Player:        "value",
				ObjectiveType: rhsVar.Scoreboard.ObjectiveType,
			}
		} else {
			rhsPayload = right
		}
		return &objects.MutationVariable{Target: lhsPair, Op: node.Op, Value: rhsPayload}, nil
	}

	if node.Op.Comparison() || node.Op == ops.And || node.Op == ops.Or {
		return &objects.MCStatement{Statement: objects.Statement{
			Kind:  objects.StatementExecute,
			Steps: []objects.ExecuteStep{{Kind: objects.StepCompare, Left: left, Op: node.Op, Right: right}},
		}}, nil
	}

	return nil, diagnostics.NewInternalError("unhandled operator %s", node.Op)
}

func (e *Evaluator) call(node *ast.Node, receiver objects.Object) (objects.Object, error) {
	args, err := e.Execute(node.Args, receiver)
	if err != nil {
		return nil, err
	}
	argArr, ok := args.(*objects.Array)
	if !ok {
		return nil, diagnostics.NewInternalError("function call arguments did not evaluate to an Array")
	}

	if receiver != nil {
		methods := receiver.Methods()
		method, ok := methods[node.Text]
		if !ok {
			return nil, diagnostics.NewSemanticError("no method %q on %s", node.Text, receiver.Kind())
		}
		return method(receiver, argArr.Values)
	}

	fn, ok := e.Scope.LookupFunction(node.Text)
	if !ok {
		return nil, diagnostics.NewSemanticError("no function %q in scope", node.Text)
	}
	if len(fn.Params) != len(argArr.Values) {
		return nil, diagnostics.NewSemanticError("function %q expects %d arguments, got %d", node.Text, len(fn.Params), len(argArr.Values))
	}

	childName := fmt.Sprintf("%s.%d", e.Scope.Name, len(e.Scope.Children))
	child := e.Scope.CloneFor(childName, bodyStatements(fn.Body))
	for i, param := range fn.Params {
		argValue := argArr.Values[i]
		if variable, ok := argValue.(*objects.Variable); ok {
			child.DefineVariable(&Variable{Name: param, Value: variable, Static: false})
		} else {
			child.DefineVariable(&Variable{Name: param, Value: argValue, Static: true})
		}
	}

	e.Scope.Children = append(e.Scope.Children, child)
	if err := e.Host.Compile(child); err != nil {
		return nil, err
	}

	return &objects.MCStatement{Statement: objects.Statement{
		Kind: objects.StatementRaw,
		Raw:  fmt.Sprintf("function %s:%s", e.Scope.Namespace, child.Name),
	}}, nil
}

// bodyStatements unwraps a CodeBlock node into its statement list, as the
// convention used throughout (If/While/Function bodies carry a CodeBlock).
func bodyStatements(body *ast.Node) []ast.Node {
	return FlattenBody(body)
}

// FlattenBody unwraps a CodeBlock body into its statement list. A body
// whose only item is a Set is replaced by that Set's items; a Set followed
// by other statements is left as it is.
func FlattenBody(body *ast.Node) []ast.Node {
	if body == nil {
		return nil
	}
	items := body.Items
	if body.Kind != ast.CodeBlock {
		items = []ast.Node{*body}
	}
	if len(items) == 1 && items[0].Kind == ast.Set {
		return items[0].Items
	}
	return items
}

func (e *Evaluator) create(node *ast.Node, receiver objects.Object) (objects.Object, error) {
	args, err := e.Execute(node.Args, receiver)
	if err != nil {
		return nil, err
	}
	argArr, ok := args.(*objects.Array)
	if !ok {
		return nil, diagnostics.NewInternalError("constructor arguments did not evaluate to an Array")
	}

	switch node.Text {
	case "Entity":
		if len(argArr.Values) != 1 {
			return nil, diagnostics.NewSemanticError("Entity expects exactly 1 argument, got %d", len(argArr.Values))
		}
		sel, ok := argArr.Values[0].(*objects.String)
		if !ok {
			return nil, diagnostics.NewSemanticError("Entity expects a String argument, got %s", argArr.Values[0].Kind())
		}
		return &objects.Entity{Selector: sel.Value}, nil

	case "Dimension":
		if len(argArr.Values) != 1 {
			return nil, diagnostics.NewSemanticError("Dimension expects exactly 1 argument, got %d", len(argArr.Values))
		}
		name, ok := argArr.Values[0].(*objects.String)
		if !ok {
			return nil, diagnostics.NewSemanticError("Dimension expects a String argument, got %s", argArr.Values[0].Kind())
		}
		return &objects.Dimension{Name: name.Value}, nil

	case "BlockPos":
		if len(argArr.Values) != 3 {
			return nil, diagnostics.NewSemanticError("BlockPos expects exactly 3 arguments, got %d", len(argArr.Values))
		}
		coords := make([]int64, 3)
		for i, a := range argArr.Values {
			n, ok := a.(*objects.Number)
			if !ok {
				return nil, diagnostics.NewSemanticError("BlockPos expects Number arguments, got %s", a.Kind())
			}
			coords[i] = n.Value
		}
		return &objects.BlockPos{X: coords[0], Y: coords[1], Z: coords[2]}, nil

	case "Scoreboard":
		if len(argArr.Values) != 2 {
			return nil, diagnostics.NewSemanticError("Scoreboard expects exactly 2 arguments, got %d", len(argArr.Values))
		}
		name, ok1 := argArr.Values[0].(*objects.String)
		criterion, ok2 := argArr.Values[1].(*objects.String)
		if !ok1 || !ok2 {
			return nil, diagnostics.NewSemanticError("Scoreboard expects two String arguments")
		}
		return &objects.Scoreboard{Name: name.Value, Objective: criterion.Value, ObjectiveType: objects.KindNumber}, nil

	default:
		return nil, diagnostics.NewSemanticError("unknown constructible type %q", node.Text)
	}
}

func (e *Evaluator) export(inner *ast.Node) (objects.Object, error) {
	before := e.Scope.VariableCount()
	result, err := e.Execute(inner, nil)
	if err != nil {
		return nil, err
	}

	switch inner.Kind {
	case ast.AssignVariable, ast.StaticVariable:
		if e.Scope.VariableCount() > before {
			e.Scope.ExportedVariables = append(e.Scope.ExportedVariables, inner.Text)
		}
	case ast.CreateFunction:
		e.Scope.ExportedFunctions = append(e.Scope.ExportedFunctions, inner.Text)
	}
	return result, nil
}

func (e *Evaluator) importScope(name string) (objects.Object, error) {
	if existing, ok := e.Host.CompiledScope(name); ok {
		e.mergeExports(existing)
		return &objects.Unknown{}, nil
	}

	source, ok := e.Host.PreparedSource(name)
	if !ok {
		return nil, diagnostics.NewSemanticError("import target %q has no prepared source", name)
	}
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	nodes, err := parser.Build(toks)
	if err != nil {
		return nil, err
	}
	imported := New(name, e.Scope.Namespace, nodes)
	if err := e.Host.Compile(imported); err != nil {
		return nil, err
	}
	e.mergeExports(imported)
	return &objects.MCStatement{Statement: objects.Statement{
		Kind: objects.StatementRaw,
		Raw:  fmt.Sprintf("function %s:%s", e.Scope.Namespace, name),
	}}, nil
}

func (e *Evaluator) mergeExports(from *Scope) {
	for _, name := range from.ExportedVariables {
		if v, ok := from.LookupVariable(name); ok {
			e.Scope.DefineVariable(v)
		}
	}
	for _, name := range from.ExportedFunctions {
		if f, ok := from.LookupFunction(name); ok {
			e.Scope.DefineFunction(f)
		}
	}
}
