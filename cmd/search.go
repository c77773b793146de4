package main

import (
	"net/http"
)

type searchContext struct {
	pool    *poolContext
	client  *clientContext
	tenant  *tenantConfig
	solrReq *solrRequest
	solrRes *solrResponse
}

type searchResponse struct {
	status int         // http status code
	data   interface{} // data to return as JSON
	err    error       // error, if any
}

type searchParams struct {
	query    string
	from     string
	bulksize string
	sort     string
}

func (s *searchContext) init(p *poolContext, c *clientContext, t *tenantConfig) {
	s.pool = p
	s.client = c
	s.tenant = t
}

func (s *searchContext) log(format string, args ...interface{}) {
	s.client.log(format, args...)
}

func (s *searchContext) err(format string, args ...interface{}) {
	s.client.err(format, args...)
}

func (s *searchContext) performQuery(params searchParams) searchResponse {
	s.log("**********  START SOLR QUERY  **********")

	rq := rewriteQuery(params.query, s.pool.config.Service.DefaultQuery, params.sort, params.from, params.bulksize)

	s.solrReq = s.buildSolrRequest(rq)

	resp := s.solrQuery()

	s.log("**********   END SOLR QUERY   **********")

	if resp.err != nil {
		s.err("query execution error: %s", resp.err.Error())
	}

	return resp
}

func (s *searchContext) buildFacets() []pnxFacet {
	facets := []pnxFacet{}

	for _, rf := range responseFacets {
		facet := pnxFacet{Name: rf.name, Values: []pnxFacetValue{}}

		for _, v := range s.solrRes.facets[rf.field] {
			if v.count <= 0 {
				continue
			}

			if rf.field == languageField && v.value == undefinedLanguage {
				continue
			}

			facet.Values = append(facet.Values, pnxFacetValue{Value: v.value, Count: v.count})
		}

		facets = append(facets, facet)
	}

	return facets
}

func (s *searchContext) buildPNXResponse() *pnxResponse {
	grouped := s.solrRes.Grouped[s.pool.config.Solr.Grouping.Field]

	mapper := newRecordMapper(s.pool.config, s.tenant, s.client)

	res := pnxResponse{
		Docs:   []pnxDocument{},
		Facets: s.buildFacets(),
	}

	for _, group := range grouped.Groups {
		if len(group.DocList.Docs) == 0 {
			continue
		}

		res.Docs = append(res.Docs, mapper.transformGroup(group))
	}

	offset := s.solrReq.json.Params.Start

	res.Info = pnxInfo{
		Total: grouped.NGroups,
		First: offset + 1,
		Last:  offset + len(res.Docs),
	}

	s.log("[PNX] total = %d, first = %d, last = %d, facets = %d", res.Info.Total, res.Info.First, res.Info.Last, len(res.Facets))

	return &res
}

func (s *searchContext) handleSearchRequest(params searchParams) searchResponse {
	if resp := s.performQuery(params); resp.err != nil {
		return searchResponse{status: resp.status, data: pnxError{Error: resp.err.Error()}, err: resp.err}
	}

	return searchResponse{status: http.StatusOK, data: s.buildPNXResponse()}
}
