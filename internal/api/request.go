package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Query parameter names.
const (
	ParamFilter  = "filter"
	ParamSort    = "sort"
	ParamInclude = "include"
	ParamPage    = "page"
	ParamPerPage = "perPage"
)

// listParams holds the parsed query parameters of a list request.
type listParams struct {
	filter  string
	sort    string
	include string
	page    int
	perPage int
}

func (p listParams) offset() int {
	return (p.page - 1) * p.perPage
}

// parseListParams reads the list parameters of c.
//
// A missing or non-positive page means page 1, and a page whose offset
// would overflow is clamped. perPage is max(0, n) with 0 meaning the
// server default, and never exceeds the server maximum.
// Non-integer values are rejected.
func (s *Server) parseListParams(c echo.Context) (listParams, error) {
	p := listParams{
		filter:  c.QueryParam(ParamFilter),
		sort:    c.QueryParam(ParamSort),
		include: c.QueryParam(ParamInclude),
		page:    1,
		perPage: s.opts.perPage,
	}

	page, err := intParam(c, ParamPage)
	if err != nil {
		return p, err
	}
	if page > 1 {
		p.page = page
	}

	perPage, err := intParam(c, ParamPerPage)
	if err != nil {
		return p, err
	}
	if perPage = max(0, perPage); perPage > 0 {
		p.perPage = min(perPage, s.opts.maxPerPage)
	}

	// The offset (page-1)*perPage must not overflow.
	if p.perPage > 0 {
		p.page = min(p.page, math.MaxInt/p.perPage)
	}

	return p, nil
}

// intParam returns the integer value of a query parameter, 0 when absent.
func intParam(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &APIError{
			Status: http.StatusBadRequest,
			Code:   CodeBadParameter,
			Detail: fmt.Sprintf("%s must be an integer, got %q", name, raw),
			Err:    err,
		}
	}
	return n, nil
}

// pageURL returns u with its page and perPage parameters replaced. Other
// parameters are kept.
func pageURL(u *url.URL, page, perPage int) string {
	q := u.Query()
	q.Set(ParamPage, strconv.Itoa(page))
	q.Set(ParamPerPage, strconv.Itoa(perPage))
	return u.Path + "?" + q.Encode()
}

// paginationLinks builds the self/first/last/prev/next links of a page.
func paginationLinks(u *url.URL, p Pagination) *Links {
	last := max(p.PageCount, 1)
	links := &Links{
		Self:  pageURL(u, p.CurrentPage, p.PerPage),
		First: pageURL(u, 1, p.PerPage),
		Last:  pageURL(u, last, p.PerPage),
	}
	if p.CurrentPage > 1 {
		links.Prev = pageURL(u, min(p.CurrentPage-1, last), p.PerPage)
	}
	if p.CurrentPage < p.PageCount {
		links.Next = pageURL(u, p.CurrentPage+1, p.PerPage)
	}
	return links
}
