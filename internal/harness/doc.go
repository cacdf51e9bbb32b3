// Package harness runs conformance scenarios for list requests.
//
// A scenario names a CUE schema, the records to seed and a list of cases.
// Each case is a list request (type, filter, sort, include, page) with
// what it must produce:
//
//	name: blog
//	description: Filtering and paging the blog fixtures
//	schema: ../schema
//	fixtures: ../seed/blog.yaml
//	cases:
//	  - name: active adults
//	    type: users
//	    filter: "status:active,age:>=18"
//	    expect:
//	      predicate: 'and(status = "active", age >= 18)'
//	      ids: ["1"]
//	      total: 1
//
// Cases go through the same compilers as the HTTP list endpoint and run
// against a fresh in-memory SQLite store, so a scenario checks parsing,
// SQL generation and the rows that come back together.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/blog.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	result, err := harness.RunWithGolden(t, scenario)
//	require.NoError(t, err)
//	assert.True(t, result.Pass, result.Errors)
//
// Golden files hold the compiled predicate, sort, include paths, SQL,
// parameters and returned route keys of every case.
package harness
