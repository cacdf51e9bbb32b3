package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/listq/internal/filter"
	"github.com/roach88/listq/internal/include"
	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/queryir"
	"github.com/roach88/listq/internal/querysql"
	"github.com/roach88/listq/internal/schema"
	"github.com/roach88/listq/internal/sorting"
	"github.com/roach88/listq/internal/store"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Compile the CUE schema
//  2. Open an in-memory store and seed fixtures, then inline records
//  3. Compile and run each case, recording what it produced
//  4. Check each case against its expectations
//
// A returned error means the scenario could not run at all. Unmet
// expectations are reported in Result.Errors.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	reg, err := schema.LoadDir(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	st, err := store.Open(":memory:", reg)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	records := scenario.Seed
	if scenario.Fixtures != "" {
		fixtures, err := LoadFixtures(scenario.Fixtures)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		records = append(fixtures, records...)
	}
	if _, err := Seed(ctx, st, records); err != nil {
		return nil, err
	}

	h := &harness{store: st, reg: reg, compiler: querysql.NewCompiler(reg)}
	result := NewResult(scenario.Name)
	for _, c := range scenario.Cases {
		cr, err := h.runCase(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}
		result.Cases = append(result.Cases, cr)
		for _, failure := range checkExpect(c, cr) {
			result.AddError(failure.Error())
		}
	}

	slog.Debug("scenario finished", "scenario", scenario.Name, "cases", len(result.Cases), "pass", result.Pass)
	return result, nil
}

// Seed inserts records in order and returns how many rows went into each
// type.
func Seed(ctx context.Context, st *store.Store, records []Record) (map[string]int, error) {
	counts := make(map[string]int)
	for i, r := range records {
		if _, err := st.Insert(ctx, r.Type, r.Values); err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
		counts[r.Type]++
	}
	return counts, nil
}

type harness struct {
	store    *store.Store
	reg      *metadata.Registry
	compiler *querysql.Compiler
}

// runCase compiles one case the way the list endpoint does and runs it.
// Filter errors are results, not failures.
func (h *harness) runCase(ctx context.Context, c Case) (CaseResult, error) {
	cr := CaseResult{Name: c.Name, Type: c.Type, Filter: c.Filter}

	entity, ok := h.reg.Lookup(c.Type)
	if !ok {
		return cr, fmt.Errorf("unknown resource type %q", c.Type)
	}

	pred, err := filter.Compile(c.Filter, entity)
	if err != nil {
		var ferr *filter.Error
		if errors.As(err, &ferr) {
			cr.Error = string(ferr.Code)
			return cr, nil
		}
		return cr, err
	}

	sel := queryir.Select{
		From:   entity.Type(),
		Filter: pred,
		Sort:   sorting.Compile(c.Sort, entity),
	}
	if c.PerPage > 0 {
		sel.Limit = c.PerPage
		sel.Offset = (max(c.Page, 1) - 1) * c.PerPage
	}

	cr.Predicate = queryir.Format(pred)
	cr.Sort = queryir.FormatSort(sel.Sort)
	cr.Include = include.Parse(c.Include, entity.RelationNames()).Paths()

	cr.SQL, cr.Params, err = h.compiler.Compile(sel)
	if err != nil {
		return cr, err
	}

	cr.Total, err = h.store.Count(ctx, sel)
	if err != nil {
		return cr, err
	}
	recs, err := h.store.Query(ctx, sel)
	if err != nil {
		return cr, err
	}
	for _, rec := range recs {
		cr.IDs = append(cr.IDs, rec.Key(entity.RouteKeyName()))
	}

	return cr, nil
}
