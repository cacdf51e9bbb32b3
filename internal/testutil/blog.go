package testutil

import (
	"github.com/roach88/listq/internal/metadata"
)

// Blog returns the registry shared by tests: users, posts and comments.
//
//	users     id, name, email (hidden), age, score, status, active,
//	          born_on, created_at; parent (belongs_to users),
//	          children (has_many users), posts (has_many posts);
//	          scopes age, seniority
//	posts     id, slug (route key), title, body (hidden), views, rating,
//	          published, published_at; author (belongs_to users),
//	          comments (has_many comments); scope popularity
//	comments  id, body, approved; post (belongs_to posts),
//	          author (belongs_to users)
//
// Panics if the fixture is invalid, which only a broken edit can cause.
func Blog() *metadata.Registry {
	users := mustEntity(metadata.EntityConfig{
		Type: "users",
		Attributes: []metadata.Attribute{
			{Name: "name", Type: metadata.FieldString},
			{Name: "email", Type: metadata.FieldString},
			{Name: "age", Type: metadata.FieldInteger},
			{Name: "score", Type: metadata.FieldFloat},
			{Name: "status", Type: metadata.FieldString},
			{Name: "active", Type: metadata.FieldBoolean},
			{Name: "born_on", Type: metadata.FieldDate},
			{Name: "created_at", Type: metadata.FieldDateTime},
		},
		Visible: []string{"id", "name", "age", "score", "status", "active", "born_on", "created_at"},
		Relations: []metadata.Relation{
			{Name: "parent", Kind: metadata.BelongsTo, Target: "users"},
			{Name: "children", Kind: metadata.HasMany, Target: "users", ForeignKey: "parent_id"},
			{Name: "posts", Kind: metadata.HasMany, Target: "posts", ForeignKey: "author_id"},
		},
		Scopes: map[string]string{
			"age":       "COALESCE(users.age, 0)",
			"seniority": "users.created_at",
		},
	})

	posts := mustEntity(metadata.EntityConfig{
		Type:     "posts",
		RouteKey: "slug",
		Attributes: []metadata.Attribute{
			{Name: "slug", Type: metadata.FieldString},
			{Name: "title", Type: metadata.FieldString},
			{Name: "body", Type: metadata.FieldString},
			{Name: "views", Type: metadata.FieldInteger},
			{Name: "rating", Type: metadata.FieldFloat},
			{Name: "published", Type: metadata.FieldBoolean},
			{Name: "published_at", Type: metadata.FieldDateTime},
		},
		Visible: []string{"id", "slug", "title", "views", "rating", "published", "published_at"},
		Relations: []metadata.Relation{
			{Name: "author", Kind: metadata.BelongsTo, Target: "users"},
			{Name: "comments", Kind: metadata.HasMany, Target: "comments", ForeignKey: "post_id"},
		},
		Scopes: map[string]string{
			"popularity": PopularityScope,
		},
	})

	comments := mustEntity(metadata.EntityConfig{
		Type: "comments",
		Attributes: []metadata.Attribute{
			{Name: "body", Type: metadata.FieldString},
			{Name: "approved", Type: metadata.FieldBoolean},
		},
		Relations: []metadata.Relation{
			{Name: "post", Kind: metadata.BelongsTo, Target: "posts"},
			{Name: "author", Kind: metadata.BelongsTo, Target: "users"},
		},
	})

	reg, err := metadata.NewRegistry(users, posts, comments)
	if err != nil {
		panic("testutil: blog registry: " + err.Error())
	}
	return reg
}

// PopularityScope orders posts by comment count.
const PopularityScope = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)"

// BlogEntity returns one entity of the Blog registry.
func BlogEntity(typ string) *metadata.Entity {
	e, ok := Blog().Lookup(typ)
	if !ok {
		panic("testutil: no blog entity " + typ)
	}
	return e
}

func mustEntity(cfg metadata.EntityConfig) *metadata.Entity {
	e, err := metadata.NewEntity(cfg)
	if err != nil {
		panic("testutil: " + err.Error())
	}
	return e
}
