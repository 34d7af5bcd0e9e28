package arity

import (
	"testing"

	"github.com/probekit/go-landmark-instrumentation/internal/ast"
	"github.com/stretchr/testify/assert"
)

func fn(p ast.Param, body ast.Expr) *ast.Func {
	return &ast.Func{Param: p, Body: body}
}

func Test_of(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want Descriptor
	}{
		{
			name: "literal is not a function",
			expr: &ast.Lit{Kind: ast.IntLit, Value: "0"},
			want: nil,
		},
		{
			name: "identifier is not a function",
			expr: ast.NewIdent("f"),
			want: nil,
		},
		{
			name: "single positional layer",
			expr: fn(ast.Param{Name: "x"}, ast.NewIdent("x")),
			want: Descriptor{{Name: "x"}},
		},
		{
			name: "labelled and optional layers keep their conventions",
			expr: fn(ast.Param{Kind: ast.Labelled, Label: "a", Name: "a"},
				fn(ast.Param{Kind: ast.Optional, Label: "b", Name: "b"}, ast.NewIdent("a"))),
			want: Descriptor{
				{Kind: ast.Labelled, Label: "a", Name: "a"},
				{Kind: ast.Optional, Label: "b", Name: "b"},
			},
		},
		{
			name: "type ascription is transparent",
			expr: &ast.Ascribe{Expr: fn(ast.Param{Name: "x"}, ast.NewIdent("x")), Type: "int -> int"},
			want: Descriptor{{Name: "x"}},
		},
		{
			name: "type parameter binder is transparent",
			expr: &ast.TypeAbs{Vars: []string{"a"}, Body: fn(ast.Param{Name: "x"}, ast.NewIdent("x"))},
			want: Descriptor{{Name: "x"}},
		},
		{
			name: "shortest match arm wins",
			expr: fn(ast.Param{Name: "x"}, &ast.Match{
				Subject: ast.NewIdent("x"),
				Arms: []ast.Arm{
					{Pattern: "A", Body: fn(ast.Param{Name: "y"}, ast.NewIdent("y"))},
					{Pattern: "B", Body: &ast.Lit{Kind: ast.IntLit, Value: "0"}},
				},
			}),
			want: Descriptor{{Name: "x"}},
		},
		{
			name: "match where every arm is a function",
			expr: &ast.Match{
				Subject: ast.NewIdent("v"),
				Arms: []ast.Arm{
					{Pattern: "A", Body: fn(ast.Param{Name: "y"}, fn(ast.Param{Name: "z"}, ast.NewIdent("y")))},
					{Pattern: "B", Body: fn(ast.Param{Name: "w"}, ast.NewIdent("w"))},
				},
			},
			want: Descriptor{{Name: "w"}},
		},
		{
			name: "application is not a function shape",
			expr: &ast.Apply{Fn: ast.NewIdent("f"), Args: []ast.Arg{{Value: ast.NewIdent("x")}}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.expr))
		})
	}
}

func Test_ofEmptyMatch(t *testing.T) {
	assert.Empty(t, Of(&ast.Match{Subject: ast.NewIdent("v")}))
}
