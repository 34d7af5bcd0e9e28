package annotation

import (
	"testing"

	"github.com/probekit/go-landmark-instrumentation/internal/ast"
	"github.com/probekit/go-landmark-instrumentation/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_find(t *testing.T) {
	tests := []struct {
		name     string
		attrs    []ast.Attr
		want     Finding
		wantKind diag.Kind
	}{
		{
			name:  "absent",
			attrs: []ast.Attr{{Name: "deprecated"}},
			want:  Finding{},
		},
		{
			name:  "bare marker",
			attrs: []ast.Attr{{Name: Name, Loc: ast.Loc{File: "a", Line: 3}}},
			want:  Finding{Present: true, Loc: ast.Loc{File: "a", Line: 3}},
		},
		{
			name:  "marker with string payload",
			attrs: []ast.Attr{{Name: Name, Payload: ast.NewString("my probe")}},
			want:  Finding{Present: true, HasPayload: true, Payload: "my probe"},
		},
		{
			name: "duplicate markers",
			attrs: []ast.Attr{
				{Name: Name},
				{Name: Name, Payload: ast.NewString("again")},
			},
			wantKind: diag.TooManyAnnotations,
		},
		{
			name:     "non-string payload",
			attrs:    []ast.Attr{{Name: Name, Payload: &ast.Lit{Kind: ast.IntLit, Value: "1"}}},
			wantKind: diag.PayloadNotAString,
		},
		{
			name:     "identifier payload",
			attrs:    []ast.Attr{{Name: Name, Payload: ast.NewIdent("name")}},
			wantKind: diag.PayloadNotAString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.attrs, Name)
			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, diag.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_findIsPure(t *testing.T) {
	attrs := []ast.Attr{{Name: Name}, {Name: "deprecated"}}

	_, err := Find(attrs, Name)
	require.NoError(t, err)

	// deciding must not consume: the annotation set is untouched
	assert.Len(t, attrs, 2)
}

func Test_remove(t *testing.T) {
	attrs := []ast.Attr{
		{Name: "deprecated"},
		{Name: Name, Payload: ast.NewString("x")},
		{Name: Name},
	}

	got := Remove(attrs, Name)

	require.Len(t, got, 1)
	assert.Equal(t, "deprecated", got[0].Name)
	assert.Len(t, attrs, 3)

	assert.Nil(t, Remove(nil, Name))
}

func Test_pragmaPayload(t *testing.T) {
	tests := []struct {
		name     string
		attr     ast.Attr
		want     string
		wantKind diag.Kind
	}{
		{
			name: "string payload",
			attr: ast.Attr{Name: Name, Payload: ast.NewString(PragmaAuto)},
			want: PragmaAuto,
		},
		{
			name:     "missing payload",
			attr:     ast.Attr{Name: Name},
			wantKind: diag.MissingPayload,
		},
		{
			name:     "non-string payload",
			attr:     ast.Attr{Name: Name, Payload: &ast.Lit{Kind: ast.BoolLit, Value: "true"}},
			wantKind: diag.PayloadNotAString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PragmaPayload(tt.attr)
			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, diag.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
