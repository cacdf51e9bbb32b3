package api

import "encoding/json"

// MediaType is the JSON:API content type every response carries.
const MediaType = "application/vnd.api+json"

// Document is a top-level JSON:API response. Data holds a []Resource for
// collections and a *Resource (possibly nil) for single resources.
type Document struct {
	Data     any        `json:"data"`
	Included []Resource `json:"included,omitempty"`
	Links    *Links     `json:"links,omitempty"`
	Meta     *Meta      `json:"meta,omitempty"`
}

// Resource is a JSON:API resource object. ID is the route key.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         *Links                  `json:"links,omitempty"`
}

// Identifier is a resource linkage.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Relationship describes one relation of a resource. Data is set only when
// the relation was included: *Identifier (nil for an empty belongs-to
// link) or []Identifier.
type Relationship struct {
	Data  any    `json:"data,omitempty"`
	Links *Links `json:"links,omitempty"`

	included bool
}

// MarshalJSON keeps a null belongs-to linkage as "data": null when the
// relation was included, and omits data otherwise.
func (r Relationship) MarshalJSON() ([]byte, error) {
	if r.included {
		return json.Marshal(struct {
			Data  any    `json:"data"`
			Links *Links `json:"links,omitempty"`
		}{r.Data, r.Links})
	}
	return json.Marshal(struct {
		Links *Links `json:"links,omitempty"`
	}{r.Links})
}

// Links holds navigation links.
type Links struct {
	Self    string `json:"self,omitempty"`
	Related string `json:"related,omitempty"`
	First   string `json:"first,omitempty"`
	Last    string `json:"last,omitempty"`
	Prev    string `json:"prev,omitempty"`
	Next    string `json:"next,omitempty"`
}

// Meta is top-level metadata for collections.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page a collection response holds. From and To
// are 1-based positions of the first and last record, 0 on an empty page.
type Pagination struct {
	Total       int `json:"total"`
	PerPage     int `json:"per-page"`
	CurrentPage int `json:"current-page"`
	PageCount   int `json:"page-count"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// newPagination computes page metadata for total records.
func newPagination(total, perPage, page, count int) Pagination {
	p := Pagination{Total: total, PerPage: perPage, CurrentPage: page}
	if perPage > 0 {
		p.PageCount = (total + perPage - 1) / perPage
	}
	if count > 0 {
		p.From = (page-1)*perPage + 1
		p.To = p.From + count - 1
	}
	return p
}

// ErrorDocument is a JSON:API error response.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// ErrorObject is one JSON:API error.
type ErrorObject struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}
