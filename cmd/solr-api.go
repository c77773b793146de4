package main

// solr json request api: everything travels in the "params" block

type solrRequestParams struct {
	Q              string   `json:"q,omitempty"`
	Fq             []string `json:"fq,omitempty"`
	Sort           string   `json:"sort,omitempty"`
	Start          int      `json:"start"`
	Rows           int      `json:"rows"`
	Fl             []string `json:"fl,omitempty"`
	DefType        string   `json:"defType,omitempty"`
	Qf             string   `json:"qf,omitempty"`
	Mm             string   `json:"mm,omitempty"`
	QOp            string   `json:"q.op,omitempty"`
	ShardsTolerant bool     `json:"shards.tolerant,omitempty"`

	// facet options
	Facet         bool     `json:"facet,omitempty"`
	FacetField    []string `json:"facet.field,omitempty"`
	FacetLimit    int      `json:"facet.limit,omitempty"`
	FacetMinCount int      `json:"facet.mincount,omitempty"`

	// grouping options
	Group        bool   `json:"group,omitempty"`
	GroupField   string `json:"group.field,omitempty"`
	GroupLimit   int    `json:"group.limit,omitempty"`
	GroupNGroups bool   `json:"group.ngroups,omitempty"`
}

type solrRequestJSON struct {
	Params solrRequestParams `json:"params"`
}

type solrMeta struct {
	query rewrittenQuery
	url   string // endpoint used for this request (tenant override or service default)
}

type solrRequest struct {
	json solrRequestJSON
	meta solrMeta
}

type solrResponseHeader struct {
	Status int `json:"status,omitempty"`
	QTime  int `json:"QTime,omitempty"`
}

type solrDocument struct {
	ID                  string   `json:"id,omitempty"`
	FullRecord          string   `json:"fullrecord,omitempty"`
	MaterialContentType []string `json:"material_content_type,omitempty"`
	Language            []string `json:"language,omitempty"`
	Consortium          []string `json:"consortium,omitempty"`
	InstitutionID       []string `json:"institution_id,omitempty"`
}

type solrDocList struct {
	NumFound int            `json:"numFound"`
	Start    int            `json:"start"`
	Docs     []solrDocument `json:"docs,omitempty"`
}

type solrGroup struct {
	GroupValue string      `json:"groupValue"`
	DocList    solrDocList `json:"doclist"`
}

type solrGroupedField struct {
	Matches int         `json:"matches"`
	NGroups int         `json:"ngroups"`
	Groups  []solrGroup `json:"groups,omitempty"`
}

// facet_fields come back as flat [value, count, value, count, ...] lists
type solrFacetCounts struct {
	FacetFields map[string][]interface{} `mapstructure:"facet_fields"`
}

type solrFacetValue struct {
	value string
	count int
}

type solrError struct {
	Msg  string `json:"msg,omitempty"`
	Code int    `json:"code,omitempty"`
}

// a catch-all for search and ping responses
type solrResponse struct {
	ResponseHeader solrResponseHeader          `json:"responseHeader,omitempty"`
	Grouped        map[string]solrGroupedField `json:"grouped,omitempty"`
	FacetCountsRaw map[string]interface{}      `json:"facet_counts,omitempty"`
	Error          solrError                   `json:"error,omitempty"`
	Status         string                      `json:"status,omitempty"`
	facets         map[string][]solrFacetValue // parsed from FacetCountsRaw
}
