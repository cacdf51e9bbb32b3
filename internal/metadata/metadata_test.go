package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosts(t *testing.T) *Entity {
	t.Helper()
	e, err := NewEntity(EntityConfig{
		Type: "posts",
		Attributes: []Attribute{
			{Name: "title", Type: FieldString},
			{Name: "views", Type: FieldInteger},
			{Name: "body", Type: FieldString},
		},
		Visible: []string{"id", "title", "views"},
		Relations: []Relation{
			{Name: "author", Kind: BelongsTo, Target: "authors"},
			{Name: "comments", Kind: HasMany, Target: "comments", ForeignKey: "post_id"},
		},
		Scopes: map[string]string{"popularity": "posts.views"},
	})
	require.NoError(t, err)
	return e
}

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"name", "name"},
		{"createdAt", "created_at"},
		{"created-at", "created_at"},
		{"created_at", "created_at"},
		{"Title", "title"},
		{"  spaced key ", "spaced_key"},
		{"userID", "user_i_d"},
		{"a--b", "a_b"},
		{"trailing-", "trailing"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.in))
		})
	}
}

func TestParseFieldType(t *testing.T) {
	for name, want := range map[string]FieldType{
		"string":    FieldString,
		"INT":       FieldInteger,
		"bool":      FieldBoolean,
		"double":    FieldFloat,
		"date":      FieldDate,
		"timestamp": FieldDateTime,
	} {
		got, err := ParseFieldType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFieldType("blob")
	assert.Error(t, err)
}

func TestEntityProvider(t *testing.T) {
	e := newPosts(t)

	assert.Equal(t, "posts", e.Type())
	assert.Equal(t, "posts", e.Table())
	assert.Equal(t, "id", e.RouteKeyName())

	assert.True(t, e.IsRelation("author"))
	assert.False(t, e.IsRelation("title"))

	rel, ok := e.Relation("author")
	require.True(t, ok)
	assert.Equal(t, "author_id", rel.ForeignKey, "belongs-to foreign key defaults to <name>_id")

	assert.Equal(t, FieldInteger, e.FieldType("views"))
	assert.Equal(t, FieldInteger, e.FieldType("id"))
	assert.Equal(t, FieldString, e.FieldType("unknown"))

	assert.True(t, e.IsVisible("title"))
	assert.False(t, e.IsVisible("body"), "declared but hidden")
	assert.False(t, e.IsVisible("nope"))

	assert.True(t, e.HasScope("popularity"))
	assert.False(t, e.HasScope("title"))
	assert.Equal(t, []string{"popularity"}, e.ScopeNames())

	assert.Equal(t, []string{"author", "comments"}, e.RelationNames())
	assert.Equal(t, []string{"id", "title", "views", "body", "author_id"}, e.Columns())
}

func TestEntityAllVisibleWithoutList(t *testing.T) {
	e, err := NewEntity(EntityConfig{
		Type:       "tags",
		Attributes: []Attribute{{Name: "label", Type: FieldString}},
	})
	require.NoError(t, err)

	assert.True(t, e.IsVisible("label"))
	assert.True(t, e.IsVisible("id"))

	e, err = NewEntity(EntityConfig{
		Type:       "tags",
		Attributes: []Attribute{{Name: "label", Type: FieldString}},
		Visible:    []string{},
	})
	require.NoError(t, err)

	assert.True(t, e.IsVisible("label"), "an empty list restricts nothing")
}

func TestFoldCase(t *testing.T) {
	tests := map[string]string{
		"Émile":       "émile",
		"E\u0301MILE": "émile",
		"STRASSE":     "strasse",
		"ΣΟΦΙΑ":       "σοφια",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, FoldCase(in), in)
	}
}

func TestEntityRelationNamesIsACopy(t *testing.T) {
	e := newPosts(t)
	names := e.RelationNames()
	names[0] = "mutated"
	assert.Equal(t, "author", e.RelationNames()[0])
}

func TestNewEntityRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cfg  EntityConfig
	}{
		{"bad type", EntityConfig{Type: "Posts!"}},
		{"bad attribute", EntityConfig{Type: "posts", Attributes: []Attribute{{Name: "x; drop", Type: FieldString}}}},
		{"duplicate attribute", EntityConfig{Type: "posts", Attributes: []Attribute{{Name: "a"}, {Name: "a"}}}},
		{"unknown route key", EntityConfig{Type: "posts", RouteKey: "slug"}},
		{"unknown visible key", EntityConfig{Type: "posts", Visible: []string{"ghost"}}},
		{"relation shadows attribute", EntityConfig{
			Type:       "posts",
			Attributes: []Attribute{{Name: "author"}},
			Relations:  []Relation{{Name: "author", Target: "authors"}},
		}},
		{"has-many without foreign key", EntityConfig{
			Type:      "posts",
			Relations: []Relation{{Name: "comments", Kind: HasMany, Target: "comments"}},
		}},
		{"empty scope", EntityConfig{Type: "posts", Scopes: map[string]string{"hot": ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntity(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	posts := newPosts(t)
	authors, err := NewEntity(EntityConfig{
		Type:       "authors",
		Attributes: []Attribute{{Name: "name", Type: FieldString}},
	})
	require.NoError(t, err)
	comments, err := NewEntity(EntityConfig{
		Type:      "comments",
		Relations: []Relation{{Name: "post", Kind: BelongsTo, Target: "posts"}},
	})
	require.NoError(t, err)

	reg, err := NewRegistry(posts, authors, comments)
	require.NoError(t, err)

	assert.Equal(t, []string{"authors", "comments", "posts"}, reg.Types())
	got, ok := reg.Lookup("posts")
	require.True(t, ok)
	assert.Same(t, posts, got)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDanglingRelations(t *testing.T) {
	posts := newPosts(t)

	_, err := NewRegistry(posts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")

	authors, _ := NewEntity(EntityConfig{Type: "authors"})
	comments, _ := NewEntity(EntityConfig{Type: "comments"})
	_, err = NewRegistry(posts, authors, comments)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post_id")

	_, err = NewRegistry(authors, authors)
	assert.Error(t, err)
}
