package api

import (
	"math"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_FirstPage(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/users")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MediaType, rec.Header().Get("Content-Type"))

	data := body.list(t)
	assert.Equal(t, []string{"users/1", "users/2"}, ids(data))
	assert.Empty(t, body.Included)

	require.NotNil(t, body.Meta)
	assert.Equal(t, Pagination{Total: 3, PerPage: 2, CurrentPage: 1, PageCount: 2, From: 1, To: 2}, body.Meta.Pagination)

	require.NotNil(t, body.Links)
	assert.Equal(t, "/users?page=1&perPage=2", body.Links.Self)
	assert.Equal(t, "/users?page=1&perPage=2", body.Links.First)
	assert.Equal(t, "/users?page=2&perPage=2", body.Links.Last)
	assert.Equal(t, "/users?page=2&perPage=2", body.Links.Next)
	assert.Empty(t, body.Links.Prev)
}

func TestList_ResourceShape(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users", "perPage", "1")
	data := body.list(t)
	require.Len(t, data, 1)

	alice := data[0]
	assert.Equal(t, "users", alice.Type)
	assert.Equal(t, "1", alice.ID)
	assert.Equal(t, "alice", alice.Attributes["name"])
	assert.Equal(t, float64(30), alice.Attributes["age"])
	assert.Equal(t, true, alice.Attributes["active"])
	assert.Equal(t, "1994-05-01", alice.Attributes["born_on"])
	assert.NotContains(t, alice.Attributes, "email", "hidden attribute")
	assert.NotContains(t, alice.Attributes, "id")

	require.NotNil(t, alice.Links)
	assert.Equal(t, "/users/1", alice.Links.Self)

	require.Contains(t, alice.Relationships, "posts")
	assert.Equal(t, "/users/1/posts", alice.Relationships["posts"].Links.Related)
	assert.Nil(t, alice.Relationships["posts"].Data, "not included")
}

func TestList_LastPage(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users", "page", "2")

	assert.Equal(t, []string{"users/3"}, ids(body.list(t)))
	assert.Equal(t, Pagination{Total: 3, PerPage: 2, CurrentPage: 2, PageCount: 2, From: 3, To: 3}, body.Meta.Pagination)
	assert.Equal(t, "/users?page=1&perPage=2", body.Links.Prev)
	assert.Empty(t, body.Links.Next)
}

func TestList_PageBeyondEnd(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users", "page", "5")

	assert.Empty(t, body.list(t))
	assert.Equal(t, Pagination{Total: 3, PerPage: 2, CurrentPage: 5, PageCount: 2}, body.Meta.Pagination)
	assert.Equal(t, "/users?page=2&perPage=2", body.Links.Prev)
	assert.Empty(t, body.Links.Next)
}

func TestList_HugePageIsClamped(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/users", "page", strconv.Itoa(math.MaxInt))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, body.list(t))
	p := body.Meta.Pagination
	assert.Equal(t, math.MaxInt/2, p.CurrentPage)
	assert.Equal(t, 2, p.PageCount)
	assert.Zero(t, p.From)
	assert.Equal(t, "/users?page=2&perPage=2", body.Links.Prev)
}

func TestList_PageAndPerPageNormalisation(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"zero page", "0", "", 1, 2},
		{"negative page", "-3", "", 1, 2},
		{"per page above max", "", "10", 1, 3},
		{"zero per page uses default", "", "0", 1, 2},
		{"negative per page uses default", "", "-5", 1, 2},
		{"padded", " 2 ", " 1 ", 2, 1},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var query []string
			if tt.page != "" {
				query = append(query, "page", tt.page)
			}
			if tt.perPage != "" {
				query = append(query, "perPage", tt.perPage)
			}

			rec, body := get(t, s, "/users", query...)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantPage, body.Meta.Pagination.CurrentPage)
			assert.Equal(t, tt.wantPerPage, body.Meta.Pagination.PerPage)
		})
	}
}

func TestList_BadPageParameter(t *testing.T) {
	s := newTestServer(t)

	for _, param := range []string{"page", "perPage"} {
		t.Run(param, func(t *testing.T) {
			rec, body := get(t, s, "/users", param, "two")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, CodeBadParameter, body.Errors[0].Code)
			assert.Equal(t, "400", body.Errors[0].Status)
			assert.Contains(t, body.Errors[0].Detail, param+` must be an integer, got "two"`)
		})
	}
}

func TestList_Filter(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		filter string
		want   []string
	}{
		{"comparison", "/users", "age:>18", []string{"users/1"}},
		{"case insensitive", "/users", "status:active", []string{"users/1", "users/3"}},
		{"or", "/users", "name:alice|name:bob", []string{"users/1", "users/2"}},
		{"relation by route key", "/comments", "post:hello-world", []string{"comments/1", "comments/2"}},
		{"null", "/users", "parent:null", []string{"users/1"}},
		{"dropped leaf", "/users", "email:alice@example.com", []string{"users/1", "users/2", "users/3"}},
		{"literal percent", "/posts", "title:^100%", []string{"posts/100-percent"}},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := get(t, s, tt.path, "filter", tt.filter, "perPage", "3")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, ids(body.list(t)))
			assert.Equal(t, len(tt.want), body.Meta.Pagination.Total)
		})
	}
}

func TestList_FilterErrors(t *testing.T) {
	tests := []struct {
		filter string
		code   string
	}{
		{"name:(a|b", CodeMalformedFilter},
		{":x", CodeMalformedFilter},
		{"name:a,name:b|name:c", CodeAmbiguousExpression},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			rec, body := get(t, s, "/users", "filter", tt.filter)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, body.Data)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.code, body.Errors[0].Code)
			assert.Equal(t, "Bad Request", body.Errors[0].Title)
			assert.Equal(t, rec.Header().Get("X-Request-Id"), body.Errors[0].ID)
		})
	}
}

func TestList_Sort(t *testing.T) {
	tests := []struct {
		sort string
		want []string
	}{
		{"age", []string{"users/3", "users/2", "users/1"}},
		{"-age", []string{"users/1", "users/2", "users/3"}},
		{"-score", []string{"users/3", "users/1", "users/2"}},
		{"unknown,-id", []string{"users/3", "users/2", "users/1"}},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			_, body := get(t, s, "/users", "sort", tt.sort, "perPage", "3")
			assert.Equal(t, tt.want, ids(body.list(t)))
		})
	}
}

func TestList_KeepsQueryInLinks(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users", "sort", "-id")

	assert.Equal(t, "/users?page=2&perPage=2&sort=-id", body.Links.Next)
}

func TestList_UnknownType(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/widgets")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, CodeUnknownType, body.Errors[0].Code)
	assert.Equal(t, `unknown resource type "widgets"`, body.Errors[0].Detail)
}

func TestList_IncludeDeduplicates(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/comments", "include", "author,post.author", "perPage", "3")

	assert.Equal(t, []string{"comments/1", "comments/2", "comments/3"}, ids(body.list(t)))
	assert.Equal(t, []string{
		"users/2", "users/3",
		"posts/hello-world", "posts/100-percent",
		"users/1",
	}, ids(body.Included))
}

func TestList_IncludeExcludesPrimaryResources(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users", "include", "parent", "perPage", "3")

	data := body.list(t)
	require.Len(t, data, 3)
	assert.Empty(t, body.Included, "the only parent is already primary")

	assert.Nil(t, data[0].Relationships["parent"].Data)
	assert.Equal(t, map[string]any{"type": "users", "id": "1"}, data[1].Relationships["parent"].Data)
	assert.Equal(t, map[string]any{"type": "users", "id": "1"}, data[2].Relationships["parent"].Data)
}

func TestList_IncludeRendersNullAndEmptyLinkage(t *testing.T) {
	s := newTestServer(t)

	rec, _ := get(t, s, "/users", "include", "parent,posts", "perPage", "1")

	assert.Contains(t, rec.Body.String(), `"parent":{"data":null,"links":{"related":"/users/1/parent"}}`)

	rec, _ = get(t, s, "/users", "include", "posts", "page", "3", "perPage", "1")

	assert.Contains(t, rec.Body.String(), `"posts":{"data":[],"links":{"related":"/users/3/posts"}}`)
}

func TestShow(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/posts/hello-world")

	require.Equal(t, http.StatusOK, rec.Code)
	post := body.one(t)
	require.NotNil(t, post)
	assert.Equal(t, "hello-world", post.ID)
	assert.Equal(t, "Hello World", post.Attributes["title"])
	assert.NotContains(t, post.Attributes, "body")
	assert.Equal(t, "/posts/hello-world", body.Links.Self)
	assert.Nil(t, body.Meta)
	assert.NotContains(t, rec.Body.String(), `"data":null`)
}

func TestShow_NestedInclude(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/posts/hello-world", "include", "author,comments.author")

	post := body.one(t)
	assert.Equal(t, map[string]any{"type": "users", "id": "1"}, post.Relationships["author"].Data)
	assert.Equal(t, []any{
		map[string]any{"type": "comments", "id": "1"},
		map[string]any{"type": "comments", "id": "2"},
	}, post.Relationships["comments"].Data)

	assert.Equal(t, []string{"users/1", "comments/1", "comments/2", "users/2", "users/3"}, ids(body.Included))

	comment := body.Included[1]
	assert.Equal(t, map[string]any{"type": "users", "id": "2"}, comment.Relationships["author"].Data)
	assert.Nil(t, comment.Relationships["post"].Data, "post was not included below comments")
}

func TestShow_WildcardInclude(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/posts/100-percent", "include", "*")

	assert.Equal(t, []string{"users/1", "comments/3"}, ids(body.Included))
}

func TestShow_NotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/posts/missing", "/users/99", "/users/abc"} {
		t.Run(path, func(t *testing.T) {
			rec, body := get(t, s, path)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, CodeNotFound, body.Errors[0].Code)
		})
	}
}

func TestRelated_BelongsTo(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/posts/draft-notes/author", "include", "parent")

	author := body.one(t)
	require.NotNil(t, author)
	assert.Equal(t, "users/2", author.Type+"/"+author.ID)
	assert.Equal(t, []string{"users/1"}, ids(body.Included))
	assert.Equal(t, "/posts/draft-notes/author?include=parent", body.Links.Self)
}

func TestRelated_BelongsToEmpty(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/users/1/parent")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body.one(t))
	assert.Contains(t, rec.Body.String(), `"data":null`)
}

func TestRelated_HasMany(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users/1/posts")

	assert.Equal(t, []string{"posts/hello-world", "posts/100-percent"}, ids(body.list(t)))
	assert.Equal(t, 2, body.Meta.Pagination.Total)
	assert.Equal(t, "/users/1/posts?page=1&perPage=2", body.Links.Self)
}

func TestRelated_HasManyWithListParameters(t *testing.T) {
	s := newTestServer(t)

	_, body := get(t, s, "/users/1/posts", "filter", "views:>60")
	assert.Equal(t, []string{"posts/hello-world"}, ids(body.list(t)))

	_, body = get(t, s, "/users/1/children", "sort", "-name")
	assert.Equal(t, []string{"users/2", "users/3"}, ids(body.list(t)))

	_, body = get(t, s, "/users/3/posts")
	assert.Empty(t, body.list(t))
	assert.Equal(t, 0, body.Meta.Pagination.Total)
}

func TestRelated_Errors(t *testing.T) {
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/widgets/1/parts", http.StatusNotFound, CodeUnknownType},
		{"/users/1/friends", http.StatusNotFound, CodeUnknownRelation},
		{"/users/99/posts", http.StatusNotFound, CodeNotFound},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec, body := get(t, s, tt.path)

			assert.Equal(t, tt.status, rec.Code)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.code, body.Errors[0].Code)
		})
	}

	t.Run("malformed filter", func(t *testing.T) {
		rec, body := get(t, s, "/users/1/posts", "filter", "title:a)")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, CodeMalformedFilter, body.Errors[0].Code)
	})
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec, body := get(t, s, "/a/b/c/d")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, CodeNotFound, body.Errors[0].Code)
}
