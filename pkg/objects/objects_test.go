package objects_test

import (
	"testing"

	"craftc/pkg/objects"
	"craftc/pkg/ops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity_Kill(t *testing.T) {
	e := &objects.Entity{Selector: "@s"}
	result, err := e.Methods()["kill"](e, nil)
	require.NoError(t, err)
	stmt := result.(*objects.MCStatement)
	assert.Equal(t, objects.StatementRaw, stmt.Statement.Kind)
	assert.Equal(t, "kill @s", stmt.Statement.Raw)
}

func TestEntity_TpToEntity(t *testing.T) {
	e := &objects.Entity{Selector: "@s"}
	target := &objects.Entity{Selector: "@e[type=pig,limit=1]"}
	result, err := e.Methods()["tp"](e, []objects.Object{target})
	require.NoError(t, err)
	stmt := result.(*objects.MCStatement)
	assert.Equal(t, "tp @s @e[type=pig,limit=1]", stmt.Statement.Raw)
}

func TestEntity_TpToBlockPos(t *testing.T) {
	e := &objects.Entity{Selector: "@s"}
	target := &objects.BlockPos{X: 1, Y: 2, Z: 3}
	result, err := e.Methods()["tp"](e, []objects.Object{target})
	require.NoError(t, err)
	stmt := result.(*objects.MCStatement)
	assert.Equal(t, "tp @s 1 2 3", stmt.Statement.Raw)
}

func TestEntity_TpWrongArgCount(t *testing.T) {
	e := &objects.Entity{Selector: "@s"}
	_, err := e.Methods()["tp"](e, nil)
	assert.Error(t, err)
}

func TestBlockPos_Members(t *testing.T) {
	p := &objects.BlockPos{X: 1, Y: 2, Z: 3}
	members := p.Members()
	assert.Equal(t, int64(1), members["x"].(*objects.Number).Value)
	assert.Equal(t, int64(2), members["y"].(*objects.Number).Value)
	assert.Equal(t, int64(3), members["z"].(*objects.Number).Value)
}

func TestArray_Get(t *testing.T) {
	arr := &objects.Array{Values: []objects.Object{&objects.Number{Value: 10}, &objects.Number{Value: 20}}}
	result, err := arr.Methods()["get"](arr, []objects.Object{&objects.Number{Value: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(20), result.(*objects.Number).Value)
}

func TestArray_GetOutOfRange(t *testing.T) {
	arr := &objects.Array{Values: []objects.Object{&objects.Number{Value: 10}}}
	_, err := arr.Methods()["get"](arr, []objects.Object{&objects.Number{Value: 5}})
	assert.Error(t, err)
}

func TestArray_Members(t *testing.T) {
	arr := &objects.Array{Values: []objects.Object{&objects.Number{Value: 1}, &objects.Number{Value: 2}}}
	members := arr.Members()
	assert.Equal(t, int64(1), members["_0"].(*objects.Number).Value)
	assert.Equal(t, int64(2), members["_1"].(*objects.Number).Value)
}

func TestScoreboard_GetPlayer(t *testing.T) {
	sb := &objects.Scoreboard{Name: "board1", Objective: "dummy", ObjectiveType: objects.KindNumber}
	result, err := sb.Methods()["get_player"](sb, []objects.Object{&objects.String{Value: "alice"}})
	require.NoError(t, err)
	pair := result.(*objects.ScoreboardPlayerPair)
	assert.Equal(t, "board1", pair.Objective)
	assert.Equal(t, "alice", pair.Player)
}

func TestScoreboardPlayerPair_MutationMethods(t *testing.T) {
	pair := &objects.ScoreboardPlayerPair{Objective: "board1", Player: "alice", ObjectiveType: objects.KindNumber}
	cases := []struct {
		method string
		op     ops.Operator
	}{
		{"add", ops.Add},
		{"sub", ops.Subtract},
		{"multiply", ops.Multiply},
		{"divide", ops.Divide},
		{"modulus", ops.Modulus},
		{"set", ops.Assignment},
	}
	for _, c := range cases {
		result, err := pair.Methods()[c.method](pair, []objects.Object{&objects.Number{Value: 5}})
		require.NoError(t, err)
		mv := result.(*objects.MutationVariable)
		assert.Equal(t, c.op, mv.Op)
		assert.Same(t, pair, mv.Target)
	}
}

func TestVariable_DelegatesToValue(t *testing.T) {
	v := &objects.Variable{
		Value:      &objects.BlockPos{X: 1, Y: 2, Z: 3},
		Scoreboard: &objects.Scoreboard{Name: "v_code_0", Objective: "dummy"},
	}
	assert.Equal(t, int64(1), v.Members()["x"].(*objects.Number).Value)
	assert.Equal(t, "1 2 3", v.Inspect())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "ENTITY", objects.KindEntity.String())
	assert.Equal(t, "INVALID", objects.Kind(255).String())
}
