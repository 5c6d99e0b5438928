// Package parser implements the AST builder described in spec §4.2: a
// single left-to-right pass over a token stream with two retro-rewrite
// rules (the operand rule and the combine rule) that fold adjacent nodes
// once their neighbor has been emitted.
package parser

import (
	"craftc/internal/diagnostics"
	"craftc/pkg/ast"
	"craftc/pkg/lexer"
	"craftc/pkg/ops"
	"craftc/pkg/token"
)

// Build parses a full token stream (as produced by lexer.Tokenize) into an
// ordered list of top-level AST nodes.
func Build(toks []token.Token) ([]ast.Node, error) {
	return buildNodes(toks)
}

// BuildSingle parses a sub-stream expected to yield exactly one node,
// wrapping more than one result in a Set per spec §4.2 ("re-parsing any
// sub-stream that yields more than one node wraps the result in Set").
func BuildSingle(toks []token.Token) (*ast.Node, error) {
	nodes, err := buildNodes(toks)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, diagnostics.NewSemanticError("expected an expression, found none")
	case 1:
		return &nodes[0], nil
	default:
		return ast.NewSet(nodes), nil
	}
}

func operandFoldable(k ast.Kind) bool {
	switch k {
	case ast.Access, ast.LiteralNumber, ast.LiteralBool, ast.UseVariable:
		return true
	default:
		return false
	}
}

func combinerFoldable(k ast.Kind) bool {
	return k == ast.Operation || k == ast.Set
}

func buildNodes(toks []token.Token) ([]ast.Node, error) {
	var out []ast.Node
	var pendingOp *ops.Operator
	var pendingCombiner *ops.Operator

	i := 0
	for i < len(toks) {
		tok := toks[i]
		var err error

		switch tok.Kind {
		case token.EOL, token.EOF, token.Semicolon:
			i++
			continue

		case token.Number:
			n, perr := lexer.ParseIntLiteral(tok.Text)
			if perr != nil {
				return nil, diagnostics.NewSyntaxError("invalid integer literal '"+tok.Text+"'", "", tok.Line, tok.Column)
			}
			out = append(out, *ast.NewLiteralNumber(n))
			i++

		case token.Bool:
			out = append(out, *ast.NewLiteralBool(tok.Bool))
			i++

		case token.DoubleQuote:
			out = append(out, *ast.NewLiteralString(tok.Text))
			i++

		case token.Symbol:
			var node *ast.Node
			node, i, err = buildSymbol(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, *node)

		case token.Let:
			var node *ast.Node
			node, i, err = buildLet(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, *node)

		case token.If:
			var node *ast.Node
			node, i, err = buildIf(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, *node)

		case token.While:
			var node *ast.Node
			node, i, err = buildWhile(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, *node)

		case token.New:
			var node *ast.Node
			node, i, err = buildCreate(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, *node)

		case token.Function:
			var node *ast.Node
			node, i, err = buildFunctionDef(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, *node)

		case token.Export:
			node, rest, perr := buildExport(toks, i)
			if perr != nil {
				return nil, perr
			}
			out = append(out, *node)
			out = append(out, rest...)
			i = len(toks)

		case token.Import:
			out = append(out, *ast.NewImport(tok.Text))
			i++

		case token.Period:
			inner, perr := BuildSingle(tok.Tokens)
			if perr != nil {
				return nil, perr
			}
			out = append(out, *ast.NewAccessPart(inner))
			i++

		case token.Parens:
			inner, perr := BuildSingle(tok.Tokens)
			if perr != nil {
				return nil, perr
			}
			out = append(out, *inner)
			i++

		case token.Bracket:
			items, perr := buildCommaList(tok.Tokens)
			if perr != nil {
				return nil, perr
			}
			out = append(out, *ast.NewSet(items))
			i++

		case token.Add:
			if i+1 < len(toks) && toks[i+1].Kind == token.Assignment && len(out) > 0 && out[len(out)-1].Kind == ast.Access {
				name := out[len(out)-1].Text
				rhsToks, ni := collectUntilSemicolon(toks, i+2)
				rhsNode, rerr := BuildSingle(rhsToks)
				if rerr != nil {
					return nil, rerr
				}
				mutation := ast.NewOperation(ast.NewAccess(name), ops.Add, rhsNode)
				out[len(out)-1] = *ast.NewMutateVariable(name, mutation)
				i = ni
				continue
			}
			pendingOp = opPtr(ops.Add)
			i++

		case token.Subtract:
			pendingOp = opPtr(ops.Subtract)
			i++
		case token.Multiply:
			pendingOp = opPtr(ops.Multiply)
			i++
		case token.Divide:
			pendingOp = opPtr(ops.Divide)
			i++
		case token.Modulus:
			pendingOp = opPtr(ops.Modulus)
			i++
		case token.Equivalence:
			pendingOp = opPtr(ops.Equal)
			i++
		case token.NotEqual:
			pendingOp = opPtr(ops.NotEqual)
			i++
		case token.GreaterThan:
			pendingOp = opPtr(ops.GreaterThan)
			i++
		case token.LessThan:
			pendingOp = opPtr(ops.LessThan)
			i++
		case token.GreaterThanEqual:
			pendingOp = opPtr(ops.GreaterThanEqual)
			i++
		case token.LessThanEqual:
			pendingOp = opPtr(ops.LessThanEqual)
			i++

		case token.And:
			pendingCombiner = opPtr(ops.And)
			i++
		case token.Or:
			pendingCombiner = opPtr(ops.Or)
			i++

		default:
			return nil, diagnostics.NewSyntaxError("unexpected token "+tok.Kind.String(), "", tok.Line, tok.Column)
		}

		if pendingOp != nil && len(out) >= 2 {
			penultimate := out[len(out)-2]
			last := out[len(out)-1]
			if operandFoldable(penultimate.Kind) {
				merged := ast.NewOperation(&penultimate, *pendingOp, &last)
				out = append(out[:len(out)-2], *merged)
				pendingOp = nil
			}
		}
		if pendingCombiner != nil && len(out) >= 2 {
			last := out[len(out)-1]
			if combinerFoldable(last.Kind) {
				penultimate := out[len(out)-2]
				merged := ast.NewOperation(&penultimate, *pendingCombiner, &last)
				out = append(out[:len(out)-2], *merged)
				pendingCombiner = nil
			}
		}
	}

	return out, nil
}

func opPtr(o ops.Operator) *ops.Operator { return &o }

// collectUntilSemicolon returns the tokens from start up to (not including)
// the next top-level Semicolon, plus the index just past that Semicolon
// (or len(toks) if none is found).
func collectUntilSemicolon(toks []token.Token, start int) ([]token.Token, int) {
	i := start
	for i < len(toks) && toks[i].Kind != token.Semicolon {
		i++
	}
	seg := toks[start:i]
	if i < len(toks) {
		i++
	}
	return seg, i
}

// buildCommaList splits a flat token list on top-level Comma tokens and
// builds one AST node per segment (used for call/constructor argument
// lists and array literals).
func buildCommaList(toks []token.Token) ([]ast.Node, error) {
	var items []ast.Node
	start := 0
	flush := func(end int) error {
		seg := toks[start:end]
		if len(seg) == 0 {
			return nil
		}
		nodes, err := buildNodes(seg)
		if err != nil {
			return err
		}
		switch len(nodes) {
		case 0:
		case 1:
			items = append(items, nodes[0])
		default:
			items = append(items, *ast.NewSet(nodes))
		}
		return nil
	}
	for idx, t := range toks {
		if t.Kind == token.Comma {
			if err := flush(idx); err != nil {
				return nil, err
			}
			start = idx + 1
		}
	}
	if err := flush(len(toks)); err != nil {
		return nil, err
	}
	return items, nil
}

// buildSymbol implements the four-form Symbol lookahead of spec §4.2.
func buildSymbol(toks []token.Token, i int) (*ast.Node, int, error) {
	name := toks[i].Text
	if i+1 >= len(toks) {
		return ast.NewAccess(name), i + 1, nil
	}
	next := toks[i+1]
	switch next.Kind {
	case token.Assignment:
		rhsToks, ni := collectUntilSemicolon(toks, i+2)
		rhs, err := BuildSingle(rhsToks)
		if err != nil {
			return nil, 0, err
		}
		return ast.NewMutateVariable(name, rhs), ni, nil

	case token.Period:
		inner, err := BuildSingle(next.Tokens)
		if err != nil {
			return nil, 0, err
		}
		return ast.NewUseVariable(name, inner), i + 2, nil

	case token.Parens:
		args, err := buildCommaList(next.Tokens)
		if err != nil {
			return nil, 0, err
		}
		call := ast.NewFunction(name, ast.NewSet(args))
		ni := i + 2
		if ni < len(toks) && toks[ni].Kind == token.Period {
			inner, ierr := BuildSingle(toks[ni].Tokens)
			if ierr != nil {
				return nil, 0, ierr
			}
			call = ast.NewUseVariableOnReceiver(call, inner)
			ni++
		}
		return call, ni, nil

	default:
		return ast.NewAccess(name), i + 1, nil
	}
}

func buildLet(toks []token.Token, i int) (*ast.Node, int, error) {
	tok := toks[i]
	name, static := tok.IsConst()
	if i+1 >= len(toks) || toks[i+1].Kind != token.Assignment {
		return nil, 0, diagnostics.NewSyntaxError("expected '=' after let/const name", "", tok.Line, tok.Column)
	}
	rhsToks, ni := collectUntilSemicolon(toks, i+2)
	rhs, err := BuildSingle(rhsToks)
	if err != nil {
		return nil, 0, err
	}
	if static {
		return ast.NewStaticVariable(name, rhs), ni, nil
	}
	return ast.NewAssignVariable(name, rhs), ni, nil
}

// findMatchingBrace scans toks starting at i (which must be token.LBrace),
// returning the body tokens (exclusive of both braces) and the index just
// past the matching RBrace. Nested blocks are skipped by depth counting
// over literal LBrace/RBrace tokens, since If/While/Function carry their
// header tokens inline but never their body braces.
func findMatchingBrace(toks []token.Token, i int) ([]token.Token, int, error) {
	if i >= len(toks) || toks[i].Kind != token.LBrace {
		line, col := 0, 0
		if i < len(toks) {
			line, col = toks[i].Line, toks[i].Column
		}
		return nil, 0, diagnostics.NewSyntaxError("expected '{'", "", line, col)
	}
	start := i + 1
	depth := 1
	j := start
	for j < len(toks) {
		switch toks[j].Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
			if depth == 0 {
				return toks[start:j], j + 1, nil
			}
		}
		j++
	}
	return nil, 0, diagnostics.NewSyntaxError("unmatched '{'", "", toks[i].Line, toks[i].Column)
}

func buildIf(toks []token.Token, i int) (*ast.Node, int, error) {
	tok := toks[i]
	cond, err := BuildSingle(tok.Tokens)
	if err != nil {
		return nil, 0, err
	}
	if i+1 >= len(toks) || toks[i+1].Kind != token.LBrace {
		return nil, 0, diagnostics.NewSyntaxError("expected '{' after if condition", "", tok.Line, tok.Column)
	}
	bodyToks, ni, err := findMatchingBrace(toks, i+1)
	if err != nil {
		return nil, 0, err
	}
	body, err := buildNodes(bodyToks)
	if err != nil {
		return nil, 0, err
	}
	if len(body) == 0 {
		return nil, 0, diagnostics.NewSemanticError("if body must not be empty")
	}
	return ast.NewIf(cond, ast.NewCodeBlock(body)), ni, nil
}

func buildWhile(toks []token.Token, i int) (*ast.Node, int, error) {
	tok := toks[i]
	iter, err := BuildSingle(tok.Tokens)
	if err != nil {
		return nil, 0, err
	}
	if i+1 >= len(toks) || toks[i+1].Kind != token.LBrace {
		return nil, 0, diagnostics.NewSyntaxError("expected '{' after while header", "", tok.Line, tok.Column)
	}
	bodyToks, ni, err := findMatchingBrace(toks, i+1)
	if err != nil {
		return nil, 0, err
	}
	body, err := buildNodes(bodyToks)
	if err != nil {
		return nil, 0, err
	}
	return ast.NewWhile(tok.Name, iter, ast.NewCodeBlock(body)), ni, nil
}

func buildCreate(toks []token.Token, i int) (*ast.Node, int, error) {
	tok := toks[i]
	args, err := buildCommaList(tok.Tokens)
	if err != nil {
		return nil, 0, err
	}
	node := ast.NewCreate(tok.Name, ast.NewSet(args))
	ni := i + 1
	if ni < len(toks) && toks[ni].Kind == token.Period {
		inner, ierr := BuildSingle(toks[ni].Tokens)
		if ierr != nil {
			return nil, 0, ierr
		}
		node = ast.NewUseVariableOnReceiver(node, inner)
		ni++
	}
	return node, ni, nil
}

func buildFunctionDef(toks []token.Token, i int) (*ast.Node, int, error) {
	tok := toks[i]
	var params []string
	for _, pt := range tok.Tokens {
		if pt.Kind == token.Symbol {
			params = append(params, pt.Text)
		}
	}
	if i+1 >= len(toks) || toks[i+1].Kind != token.LBrace {
		return nil, 0, diagnostics.NewSyntaxError("expected '{' after function parameters", "", tok.Line, tok.Column)
	}
	bodyToks, ni, err := findMatchingBrace(toks, i+1)
	if err != nil {
		return nil, 0, err
	}
	body, err := buildNodes(bodyToks)
	if err != nil {
		return nil, 0, err
	}
	return ast.NewCreateFunction(tok.Name, params, ast.NewCodeBlock(body)), ni, nil
}

// buildExport parses every node after the Export token, wraps the first in
// an Export node, and returns the remaining nodes for the caller to append
// after it.
func buildExport(toks []token.Token, i int) (*ast.Node, []ast.Node, error) {
	if i+1 >= len(toks) {
		return nil, nil, diagnostics.NewSyntaxError("expected a declaration after export", "", toks[i].Line, toks[i].Column)
	}
	inner, err := buildNodes(toks[i+1:])
	if err != nil {
		return nil, nil, err
	}
	if len(inner) == 0 {
		return nil, nil, diagnostics.NewSemanticError("export must wrap a declaration")
	}
	return ast.NewExport(&inner[0]), inner[1:], nil
}
