package authz

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnMap names the isolation columns of the table a query reads or
// writes. Column names may carry a table alias, e.g. "p.tenant_id".
type ColumnMap struct {
	TenantColumn string
	// StoreColumn is optional; when empty no store predicate is appended
	// even for store-scoped actors.
	StoreColumn string
}

// ScopedQuery is a rewritten query with its bound parameters. The filter
// flags record what the rewriter applied; they exist for tests and auditing
// and must never be used to re-assemble query text.
type ScopedQuery struct {
	Query          string
	Params         []any
	TenantFiltered bool
	StoreFiltered  bool
}

// hasTopLevelWhere reports whether the query carries a WHERE keyword at
// parenthesis depth zero. A WHERE buried in a subquery or a FILTER (WHERE
// ...) aggregate must not count: the appended predicate belongs to the
// outer statement, and gluing it with AND onto a nested WHERE would produce
// invalid SQL. String literals are skipped so quoted text never registers
// as keywords or parentheses.
func hasTopLevelWhere(query string) bool {
	depth := 0
	for i := 0; i < len(query); i++ {
		switch query[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '\'':
			for i++; i < len(query); i++ {
				if query[i] == '\'' {
					if i+1 < len(query) && query[i+1] == '\'' {
						i++
						continue
					}
					break
				}
			}
		default:
			if depth != 0 || len(query)-i < 5 || !strings.EqualFold(query[i:i+5], "WHERE") {
				continue
			}
			boundedLeft := i == 0 || !isWordChar(query[i-1])
			boundedRight := i+5 == len(query) || !isWordChar(query[i+5])
			if boundedLeft && boundedRight {
				return true
			}
		}
	}
	return false
}

func isWordChar(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// ScopeQuery rewrites baseQuery so that it additionally filters by the
// scope's tenant (and store, when cols.StoreColumn is set and the scope has
// a store). Predicates are appended with bound $n placeholders continuing
// after baseParams; scope values are never interpolated into the text.
//
// The unrestricted scope passes the query through untouched. A restricted
// scope without a tenant id is structurally unreachable; if it occurs
// anyway the rewriter fails with ErrInvariantViolation rather than ever
// emitting an unfiltered query.
//
// The predicate is appended at the end of the query, so baseQuery must not
// carry trailing ORDER BY / GROUP BY / LIMIT clauses; repositories append
// those after scoping.
func ScopeQuery(baseQuery string, baseParams []any, scope AccessScope, cols ColumnMap) (ScopedQuery, error) {
	if scope.Unrestricted {
		return ScopedQuery{Query: baseQuery, Params: baseParams}, nil
	}
	if scope.TenantID == "" {
		return ScopedQuery{}, fmt.Errorf("%w: restricted scope without tenant id", ErrInvariantViolation)
	}
	if cols.TenantColumn == "" {
		return ScopedQuery{}, fmt.Errorf("%w: column map without tenant column", ErrInvariantViolation)
	}

	params := make([]any, len(baseParams), len(baseParams)+2)
	copy(params, baseParams)

	var predicates []string
	params = append(params, scope.TenantID)
	predicates = append(predicates, cols.TenantColumn+" = $"+strconv.Itoa(len(params)))

	storeFiltered := false
	if cols.StoreColumn != "" && scope.StoreID != "" {
		params = append(params, scope.StoreID)
		predicates = append(predicates, cols.StoreColumn+" = $"+strconv.Itoa(len(params)))
		storeFiltered = true
	}

	glue := " WHERE "
	if hasTopLevelWhere(baseQuery) {
		glue = " AND "
	}

	return ScopedQuery{
		Query:          baseQuery + glue + strings.Join(predicates, " AND "),
		Params:         params,
		TenantFiltered: true,
		StoreFiltered:  storeFiltered,
	}, nil
}
