package main

import "strings"

// static vocabulary tables shared (read-only) by all requests

const facetPrefix = "facet_"

const contentTypeField = "material_content_type"

const languageField = "language"

// client facet name (without prefix) -> solr field, for facet clauses embedded in queries
var facetQueryFields = map[string]string{
	"creator":      "author_facet",
	"pfilter":      contentTypeField,
	"rtype":        contentTypeField,
	"lang":         languageField,
	"creationdate": "publish_date",
	"library":      "consortium",
	"tlevel":       "material_access",
	"topic":        "subject_all_facet",
}

// coarse material category keyword -> canonical content type label
var contentTypeValues = map[string]string{
	"books":       "Book",
	"articles":    "Article",
	"journals":    "Journal/Magazine",
	"images":      "Image",
	"audio_video": "Video",
}

type fieldRewrite struct {
	client string
	solr   string
}

// client field names inside the free-text query; order is significant
var queryFieldRewrites = []fieldRewrite{
	{client: "creator", solr: "author_norm"},
	{client: "subject", solr: "subject_all"},
	{client: "Title", solr: "title_slim"},
	{client: "swstitle", solr: "title_slim"},
	{client: "sub", solr: "subject_all"},
}

// a single-pass replacer: replaced text is never rescanned, and
// candidates are tried in table order at each position
var queryFieldReplacer = newQueryFieldReplacer(queryFieldRewrites)

func newQueryFieldReplacer(rewrites []fieldRewrite) *strings.Replacer {
	var pairs []string

	for _, r := range rewrites {
		pairs = append(pairs, r.client+":(", r.solr+":(")
	}

	return strings.NewReplacer(pairs...)
}

// client sort key -> solr sort expression.  unknown keys mean relevance
var sortFields = map[string]string{
	"rank":     "",
	"scdate":   "publish_date_sort desc",
	"date":     "publish_date_sort desc",
	"date2":    "publish_date_sort asc",
	"stitle":   "title_sort asc",
	"title":    "title_sort asc",
	"screator": "author_sort asc",
	"author":   "author_sort asc",
}

type responseFacet struct {
	name  string // client facet name
	field string // solr facet field
}

// facets reported back to the client, in this order
var responseFacets = []responseFacet{
	{name: "creator", field: "author_facet"},
	{name: "tlevel", field: "material_access"},
	{name: "rtype", field: contentTypeField},
	{name: "lang", field: languageField},
	{name: "topic", field: "subject_all_facet"},
	{name: "library", field: "consortium"},
}

const undefinedLanguage = "und"

func responseFacetFields() []string {
	var fields []string

	for _, f := range responseFacets {
		fields = append(fields, f.field)
	}

	return fields
}

// source catalogue isil (as embedded in gvi ids) -> display label
var sourceLabels = map[string]string{
	"DE-576": "SWB",
	"DE-600": "ZDB",
	"DE-601": "GBV",
	"DE-602": "KOBV",
	"DE-603": "HeBIS",
	"DE-604": "BVB",
	"DE-605": "hbz",
	"DE-627": "K10plus",
	"DE-101": "DNB",
}

const genericSourceLabel = "GVI"
