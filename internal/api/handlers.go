package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roach88/listq/internal/filter"
	"github.com/roach88/listq/internal/include"
	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/sorting"
	"github.com/roach88/listq/internal/store"
)

// writeJSON writes v with the JSON:API media type.
func writeJSON(c echo.Context, status int, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, MediaType)
	c.Response().WriteHeader(status)
	return json.NewEncoder(c.Response()).Encode(v)
}

func (s *Server) entity(typ string) (*metadata.Entity, error) {
	e, ok := s.reg.Lookup(typ)
	if !ok {
		return nil, newAPIError(http.StatusNotFound, CodeUnknownType, fmt.Sprintf("unknown resource type %q", typ))
	}
	return e, nil
}

// list handles GET /:type.
func (s *Server) list(c echo.Context) error {
	e, err := s.entity(c.Param("type"))
	if err != nil {
		return err
	}
	params, err := s.parseListParams(c)
	if err != nil {
		return err
	}

	pred, err := filter.Compile(params.filter, e)
	if err != nil {
		return err
	}
	return s.renderList(c, e, pred, params)
}

// show handles GET /:type/:id.
func (s *Server) show(c echo.Context) error {
	e, err := s.entity(c.Param("type"))
	if err != nil {
		return err
	}

	rec, err := s.store.Find(c.Request().Context(), e.Type(), c.Param("id"))
	if err != nil {
		return err
	}
	return s.renderOne(c, e, &rec)
}

// related handles GET /:type/:id/:relation. A belongs-to relation renders
// the linked resource or null; a has-many relation renders a list of the
// related resources and accepts the list parameters.
func (s *Server) related(c echo.Context) error {
	e, err := s.entity(c.Param("type"))
	if err != nil {
		return err
	}

	name := metadata.CanonicalKey(c.Param("relation"))
	rel, ok := e.Relation(name)
	if !ok {
		return newAPIError(http.StatusNotFound, CodeUnknownRelation,
			fmt.Sprintf("%s has no relation %q", e.Type(), c.Param("relation")))
	}
	target, err := s.entity(rel.Target)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	parent, err := s.store.Find(ctx, e.Type(), c.Param("id"))
	if err != nil {
		return err
	}

	switch rel.Kind {
	case metadata.BelongsTo:
		fk := parent.Fields[rel.ForeignKey]
		if fk == nil {
			return s.renderOne(c, target, nil)
		}
		recs, err := s.store.FindIn(ctx, target.Type(), metadata.PrimaryKey, []any{fk})
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return s.renderOne(c, target, nil)
		}
		return s.renderOne(c, target, &recs[0])

	case metadata.HasMany:
		params, err := s.parseListParams(c)
		if err != nil {
			return err
		}
		pred, err := filter.Compile(params.filter, target)
		if err != nil {
			return err
		}
		owned := queryir.Comparison{Field: rel.ForeignKey, Op: queryir.OpEq, Value: queryir.Int(parent.ID())}
		if pred == nil {
			pred = owned
		} else {
			pred = queryir.And{Predicates: []queryir.Predicate{owned, pred}}
		}
		return s.renderList(c, target, pred, params)

	default:
		return fmt.Errorf("relation %s.%s: unsupported kind %s", e.Type(), name, rel.Kind)
	}
}

// renderList queries one page of e and writes it as a collection document
// with pagination meta and links.
func (s *Server) renderList(c echo.Context, e *metadata.Entity, pred queryir.Predicate, params listParams) error {
	ctx := c.Request().Context()

	sel := queryir.Select{
		From:   e.Type(),
		Filter: pred,
		Sort:   sorting.Compile(params.sort, e),
	}
	total, err := s.store.Count(ctx, sel)
	if err != nil {
		return err
	}

	sel.Limit = params.perPage
	sel.Offset = params.offset()
	recs, err := s.store.Query(ctx, sel)
	if err != nil {
		return err
	}

	x := newExpander(s.store, s.reg)
	nodes := x.primary(e, recs)
	if err := x.expand(ctx, e, nodes, include.Parse(params.include, e.RelationNames())); err != nil {
		return err
	}

	data := make([]Resource, len(nodes))
	for i, n := range nodes {
		data[i] = *n.res
	}

	pagination := newPagination(total, params.perPage, params.page, len(recs))
	return writeJSON(c, http.StatusOK, Document{
		Data:     data,
		Included: x.Included(),
		Links:    paginationLinks(c.Request().URL, pagination),
		Meta:     &Meta{Pagination: pagination},
	})
}

// renderOne writes a single-resource document. A nil rec renders
// "data": null.
func (s *Server) renderOne(c echo.Context, e *metadata.Entity, rec *store.Record) error {
	doc := Document{Links: &Links{Self: c.Request().URL.RequestURI()}}
	if rec == nil {
		return writeJSON(c, http.StatusOK, doc)
	}

	x := newExpander(s.store, s.reg)
	nodes := x.primary(e, []store.Record{*rec})
	tree := include.Parse(c.QueryParam(ParamInclude), e.RelationNames())
	if err := x.expand(c.Request().Context(), e, nodes, tree); err != nil {
		return err
	}

	doc.Data = nodes[0].res
	doc.Included = x.Included()
	return writeJSON(c, http.StatusOK, doc)
}
