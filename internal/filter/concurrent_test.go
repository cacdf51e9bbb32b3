package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/listq/internal/include"
	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/sorting"
	"github.com/roach88/listq/internal/testutil"
)

type listQuery struct {
	typ, filter, sort, include string
}

// compileListQuery renders everything a list request compiles to, so two
// runs can be compared as strings.
func compileListQuery(reg *metadata.Registry, q listQuery) (string, error) {
	e, ok := reg.Lookup(q.typ)
	if !ok {
		return "", fmt.Errorf("unknown type %q", q.typ)
	}

	pred, err := Compile(q.filter, e)
	if err != nil {
		return "", err
	}
	specs := sorting.Compile(q.sort, e)
	paths := include.Parse(q.include, e.RelationNames()).Paths()

	return fmt.Sprintf("%s | %s | %s",
		queryir.Format(pred), queryir.FormatSort(specs), strings.Join(paths, ",")), nil
}

// Run with -race: every goroutine reads the same registry entities.
func TestCompile_ConcurrentUseOfSharedEntity(t *testing.T) {
	reg := testutil.Blog()
	queries := []listQuery{
		{"users", "status:(active|pending),age:>=18", "-age,name", "posts.comments,parent"},
		{"users", "name:^AL|(age:null|parent:!1)", "-seniority", "*"},
		{"users", "posts:(hello-world|100-percent),active:true", "-createdAt", "children"},
		{"posts", "title:^$hello,author:1", "-views,-popularity", "author,comments.author"},
		{"posts", "published:false|rating:<4.5", "title", ""},
		{"comments", "post:hello-world,author:!null", "-id", "post.author"},
	}

	want := make([]string, len(queries))
	for i, q := range queries {
		got, err := compileListQuery(reg, q)
		require.NoError(t, err)
		want[i] = got
	}

	const (
		workers = 32
		rounds  = 50
	)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for r := 0; r < rounds; r++ {
				i := (w + r) % len(queries)
				got, err := compileListQuery(reg, queries[i])
				if err != nil {
					return fmt.Errorf("worker %d: %v", w, err)
				}
				if got != want[i] {
					return fmt.Errorf("worker %d: %+v compiled to %q, want %q", w, queries[i], got, want[i])
				}
			}
			return nil
		})
	}

	assert.NoError(t, g.Wait())
}
