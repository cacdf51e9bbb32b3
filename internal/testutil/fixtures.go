package testutil

// Fixture is one row to insert into a Blog store.
type Fixture struct {
	Type   string
	Values map[string]any
}

// BlogFixtures returns rows for the Blog registry in insertion order, so
// foreign keys always point at rows inserted earlier.
//
//	users     1 alice (30, active)   2 bob (17, pending, parent 1)
//	          3 Carol (no age, active, parent 1)
//	posts     1 hello-world (alice)  2 draft-notes (bob, unpublished)
//	          3 100-percent (alice, title "100% Real")
//	comments  1 on post 1 by bob     2 on post 1 by Carol
//	          3 on post 3 by bob
//
// Carol has no posts; post 2 has no comments.
func BlogFixtures() []Fixture {
	return []Fixture{
		{Type: "users", Values: map[string]any{
			"id": 1, "name": "alice", "email": "alice@example.com", "age": 30, "score": 4.5,
			"status": "active", "active": true, "born_on": "1994-05-01", "created_at": "2024-01-01T10:00:00Z",
		}},
		{Type: "users", Values: map[string]any{
			"id": 2, "name": "bob", "email": "bob@example.com", "age": 17, "score": 3.0,
			"status": "pending", "active": false, "born_on": "2007-02-10", "created_at": "2024-02-01T10:00:00Z",
			"parent_id": 1,
		}},
		{Type: "users", Values: map[string]any{
			"id": 3, "name": "Carol", "email": "carol@example.com", "score": 5.0,
			"status": "Active", "active": true, "created_at": "2024-03-01T10:00:00Z",
			"parent_id": 1,
		}},
		{Type: "posts", Values: map[string]any{
			"id": 1, "slug": "hello-world", "title": "Hello World", "body": "first post",
			"views": 100, "rating": 4.0, "published": true, "published_at": "2024-01-05T09:00:00Z",
			"author_id": 1,
		}},
		{Type: "posts", Values: map[string]any{
			"id": 2, "slug": "draft-notes", "title": "Draft notes", "body": "todo",
			"views": 5, "published": false,
			"author_id": 2,
		}},
		{Type: "posts", Values: map[string]any{
			"id": 3, "slug": "100-percent", "title": "100% Real", "body": "really",
			"views": 50, "rating": 3.5, "published": true, "published_at": "2024-02-05T09:00:00Z",
			"author_id": 1,
		}},
		{Type: "comments", Values: map[string]any{
			"id": 1, "body": "Nice", "approved": true, "post_id": 1, "author_id": 2,
		}},
		{Type: "comments", Values: map[string]any{
			"id": 2, "body": "meh", "approved": false, "post_id": 1, "author_id": 3,
		}},
		{Type: "comments", Values: map[string]any{
			"id": 3, "body": "first!", "approved": true, "post_id": 3, "author_id": 2,
		}},
	}
}
