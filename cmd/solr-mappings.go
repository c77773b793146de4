package main

// functions that map rewritten client queries into solr requests

const matchAllQuery = "*:*"

func (s *searchContext) buildSolrRequest(rq rewrittenQuery) *solrRequest {
	cfg := s.pool.config.Solr

	req := solrRequest{
		meta: solrMeta{
			query: rq,
			url:   s.pool.solrURL(s.tenant),
		},
	}

	q := rq.query
	if q == "" {
		q = matchAllQuery
	}

	p := &req.json.Params

	p.Q = q
	p.Sort = rq.sort
	p.Start = rq.offset
	p.Rows = rq.limit
	p.Fl = cfg.Params.Fl
	p.DefType = cfg.Params.DefType
	p.Qf = cfg.Params.Qf
	p.Mm = cfg.Params.Mm
	p.QOp = cfg.Params.QOp
	p.ShardsTolerant = cfg.Params.ShardsTolerant

	// global exclusions first, then tenant filters, then the client's facet filters
	p.Fq = append(p.Fq, cfg.Params.Fq...)
	p.Fq = append(p.Fq, nonemptyValues(s.tenant.Filters)...)
	p.Fq = append(p.Fq, rq.filterStrings()...)

	p.Facet = true
	p.FacetField = responseFacetFields()
	p.FacetLimit = cfg.Params.FacetLimit
	p.FacetMinCount = 1

	p.Group = true
	p.GroupField = cfg.Grouping.Field
	p.GroupLimit = cfg.Grouping.Limit
	p.GroupNGroups = true

	for _, c := range rq.dropped {
		s.client.debug("[REWRITE] dropped unknown facet clause: %s %s%s:(%s)", c.operator, facetPrefix, c.name, c.term)
	}

	s.log("[REWRITE] q: [%s]  fq: %v  sort: [%s]  start: %d  rows: %d", p.Q, p.Fq, p.Sort, p.Start, p.Rows)

	return &req
}
