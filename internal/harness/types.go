package harness

// Result holds the outcome of running a scenario.
type Result struct {
	// Scenario is the scenario name.
	Scenario string

	// Pass is true when every case met its expectations.
	Pass bool

	// Cases holds what each case produced, in scenario order.
	Cases []CaseResult

	// Errors contains the failed expectations. Empty if Pass is true.
	Errors []string
}

// CaseResult is what one list request compiled to and returned.
// Field order is the snapshot order.
type CaseResult struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Filter    string   `json:"filter,omitempty"`
	Error     string   `json:"error,omitempty"`
	Predicate string   `json:"predicate,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Include   []string `json:"include,omitempty"`
	SQL       string   `json:"sql,omitempty"`
	Params    []any    `json:"params,omitempty"`
	IDs       []string `json:"ids,omitempty"`
	Total     int      `json:"total,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Cases:    []CaseResult{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
