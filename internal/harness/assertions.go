package harness

import (
	"fmt"
	"slices"
	"strconv"
)

// AssertionError is returned when a case does not produce what it expects.
type AssertionError struct {
	Case     string // Case name
	Field    string // Expectation that failed
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("case %q: %s: expected %s, got %s", e.Case, e.Field, e.Expected, e.Actual)
}

// checkExpect compares a case result with the case's expectations.
// Unset expectations are not checked.
func checkExpect(c Case, cr CaseResult) []*AssertionError {
	var failures []*AssertionError
	fail := func(field, expected, actual string) {
		failures = append(failures, &AssertionError{Case: c.Name, Field: field, Expected: expected, Actual: actual})
	}

	want := c.Expect
	if want.Error != cr.Error {
		fail("error", orNone(want.Error), orNone(cr.Error))
		return failures
	}
	if cr.Error != "" {
		return failures
	}

	if want.Predicate != "" && want.Predicate != cr.Predicate {
		fail("predicate", want.Predicate, cr.Predicate)
	}
	if want.Sort != "" && want.Sort != cr.Sort {
		fail("sort", want.Sort, cr.Sort)
	}
	if want.Include != nil && !slices.Equal(want.Include, cr.Include) {
		fail("include", fmt.Sprint(want.Include), fmt.Sprint(cr.Include))
	}
	if want.IDs != nil && !slices.Equal(want.IDs, cr.IDs) {
		fail("ids", fmt.Sprint(want.IDs), fmt.Sprint(cr.IDs))
	}
	if want.Total != nil && *want.Total != cr.Total {
		fail("total", strconv.Itoa(*want.Total), strconv.Itoa(cr.Total))
	}

	return failures
}

func orNone(s string) string {
	if s == "" {
		return "no error"
	}
	return s
}
