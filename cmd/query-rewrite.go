package main

import (
	"regexp"
	"strconv"
	"strings"
)

// rewriting of primo-style queries (free text with embedded facet clauses) into solr terms

const (
	defaultOffset = 0
	defaultLimit  = 5
	maxLimit      = 50
	minLimit      = 1
)

type clauseOperator int

const (
	clauseInclude clauseOperator = iota
	clauseExclude
)

func (o clauseOperator) String() string {
	if o == clauseExclude {
		return "AND NOT"
	}

	return "AND"
}

type facetClause struct {
	operator clauseOperator
	name     string // client facet name, without prefix
	term     string
}

type solrFilter struct {
	field   string
	value   string
	negated bool
}

func (f solrFilter) String() string {
	prefix := ""
	if f.negated == true {
		prefix = "-"
	}

	return prefix + f.field + ":" + f.value
}

type rewrittenQuery struct {
	query            string
	filters          []solrFilter
	clauses          []facetClause
	dropped          []facetClause // clauses naming unknown facets
	sort             string
	offset           int // zero-based
	limit            int
	identifierLookup bool
}

func (r *rewrittenQuery) filterStrings() []string {
	var fqs []string

	for _, f := range r.filters {
		fqs = append(fqs, f.String())
	}

	return fqs
}

// matches the operator that introduces an embedded facet clause
var facetClauseRE = regexp.MustCompile(`(?:^|\s+)(AND NOT|AND)\s+` + facetPrefix)

// splits a raw query into its residual free text and the embedded facet clauses
func tokenizeFacetClauses(raw string) (string, []facetClause) {
	matches := facetClauseRE.FindAllStringSubmatchIndex(raw, -1)

	if len(matches) == 0 {
		return strings.TrimSpace(raw), nil
	}

	residual := strings.TrimSpace(raw[:matches[0][0]])

	var clauses []facetClause

	for i, m := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		op := clauseInclude
		if raw[m[2]:m[3]] == "AND NOT" {
			op = clauseExclude
		}

		if clause, ok := parseFacetClause(op, raw[m[1]:end]); ok == true {
			clauses = append(clauses, clause)
		}
	}

	return residual, clauses
}

// parses "name:term" (term optionally wrapped in one pair of parentheses)
func parseFacetClause(op clauseOperator, text string) (facetClause, bool) {
	name, term, found := strings.Cut(strings.TrimSpace(text), ":")

	if found == false || name == "" {
		return facetClause{}, false
	}

	term = strings.TrimSpace(term)
	term = strings.TrimPrefix(term, "(")
	term = strings.TrimSuffix(term, ")")

	if term == "" {
		return facetClause{}, false
	}

	return facetClause{operator: op, name: name, term: term}, true
}

func contentTypeValue(term string) string {
	if label, ok := contentTypeValues[strings.Trim(term, `"`)]; ok == true {
		return strconv.Quote(label)
	}

	return term
}

func (c facetClause) solrFilter() (solrFilter, bool) {
	field, ok := facetQueryFields[c.name]
	if ok == false {
		return solrFilter{}, false
	}

	value := c.term
	if field == contentTypeField {
		value = contentTypeValue(value)
	}

	return solrFilter{field: field, value: value, negated: c.operator == clauseExclude}, true
}

// recognizes `(("(id)"))` and `(rid:("(id)"))`, returning `id:"(id)"`
func identifierQuery(q string) (string, bool) {
	if strings.HasSuffix(q, "))") == false {
		return "", false
	}

	var inner string

	switch {
	case strings.HasPrefix(q, `(("(`):
		inner = q[2 : len(q)-2]

	case strings.HasPrefix(q, `(rid:("(`):
		inner = q[len("(rid:(") : len(q)-2]

	default:
		return "", false
	}

	if len(inner) < 2 {
		return "", false
	}

	return "id:" + inner, true
}

func sortExpression(key string) string {
	return sortFields[key]
}

func pageOffset(from string) int {
	val, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return defaultOffset
	}

	if val < 1 {
		return defaultOffset
	}

	return val - 1
}

func pageLimit(bulksize string) int {
	val, err := strconv.Atoi(strings.TrimSpace(bulksize))
	if err != nil {
		return defaultLimit
	}

	switch {
	case val > maxLimit:
		return maxLimit
	case val < minLimit:
		return minLimit
	}

	return val
}

// rewriteQuery is a pure function of its inputs and the static vocabulary tables.
// an empty raw query is replaced by defaultQuery.
func rewriteQuery(raw, defaultQuery, sortKey, from, bulksize string) rewrittenQuery {
	r := rewrittenQuery{
		sort:   sortExpression(sortKey),
		offset: pageOffset(from),
		limit:  pageLimit(bulksize),
	}

	q := strings.TrimSpace(raw)
	if q == "" {
		q = defaultQuery
	}

	if id, ok := identifierQuery(q); ok == true {
		r.query = id
		r.identifierLookup = true
		return r
	}

	residual, clauses := tokenizeFacetClauses(q)

	for _, clause := range clauses {
		filter, ok := clause.solrFilter()
		if ok == false {
			r.dropped = append(r.dropped, clause)
			continue
		}

		r.clauses = append(r.clauses, clause)
		r.filters = append(r.filters, filter)
	}

	r.query = queryFieldReplacer.Replace(residual)

	return r
}
