package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/testutil"
)

func TestCompile(t *testing.T) {
	users := testutil.BlogEntity("users")
	posts := testutil.BlogEntity("posts")

	tests := []struct {
		name string
		expr string
		want []queryir.SortSpec
	}{
		{
			name: "desc then asc",
			expr: "-created_at,name",
			want: []queryir.SortSpec{
				{Field: "created_at", Direction: queryir.Desc, Kind: queryir.PlainField},
				{Field: "name", Direction: queryir.Asc, Kind: queryir.PlainField},
			},
		},
		{
			name: "plain field and scope for one key",
			expr: "age",
			want: []queryir.SortSpec{
				{Field: "age", Direction: queryir.Asc, Kind: queryir.PlainField},
				{Field: "age", Direction: queryir.Asc, Kind: queryir.ScopeCall},
			},
		},
		{
			name: "scope only",
			expr: "-seniority",
			want: []queryir.SortSpec{
				{Field: "seniority", Direction: queryir.Desc, Kind: queryir.ScopeCall},
			},
		},
		{
			name: "camel case key",
			expr: "createdAt",
			want: []queryir.SortSpec{
				{Field: "created_at", Direction: queryir.Asc, Kind: queryir.PlainField},
			},
		},
		{
			name: "hidden unknown and malformed keys drop",
			expr: "email,nope,age desc,a.b,,-score",
			want: []queryir.SortSpec{
				{Field: "score", Direction: queryir.Desc, Kind: queryir.PlainField},
			},
		},
		{
			name: "spaces around keys",
			expr: " status , -id ",
			want: []queryir.SortSpec{
				{Field: "status", Direction: queryir.Asc, Kind: queryir.PlainField},
				{Field: "id", Direction: queryir.Desc, Kind: queryir.PlainField},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compile(tt.expr, users))
		})
	}

	t.Run("route key and scope on posts", func(t *testing.T) {
		got := Compile("slug,-popularity", posts)
		assert.Equal(t, []queryir.SortSpec{
			{Field: "slug", Direction: queryir.Asc, Kind: queryir.PlainField},
			{Field: "popularity", Direction: queryir.Desc, Kind: queryir.ScopeCall},
		}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Compile("", users))
	})
}
