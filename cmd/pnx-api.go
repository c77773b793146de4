package main

// pnx documents and the search envelope returned to the discovery front end.
// every value is a list; empty lists are omitted.

type pnxControl struct {
	SourceID       []string `json:"sourceid,omitempty"`
	RecordID       []string `json:"recordid,omitempty"`
	SourceRecordID []string `json:"sourcerecordid,omitempty"`
	SourceSystem   []string `json:"sourcesystem,omitempty"`
}

type pnxDisplay struct {
	Type         []string `json:"type,omitempty"`
	Source       []string `json:"source,omitempty"`
	Language     []string `json:"language,omitempty"`
	Title        []string `json:"title,omitempty"`
	Creator      []string `json:"creator,omitempty"`
	Subject      []string `json:"subject,omitempty"`
	Contributor  []string `json:"contributor,omitempty"`
	IsPartOf     []string `json:"ispartof,omitempty"`
	Publisher    []string `json:"publisher,omitempty"`
	CreationDate []string `json:"creationdate,omitempty"`
	Identifier   []string `json:"identifier,omitempty"`
	Description  []string `json:"description,omitempty"`
	Coverage     []string `json:"coverage,omitempty"`
	Edition      []string `json:"edition,omitempty"`
}

type pnxDelivery struct {
	Fulltext    []string `json:"fulltext,omitempty"`
	DelCategory []string `json:"delcategory,omitempty"`
}

type pnxLinks struct {
	LinkToRsrc []string `json:"linktorsrc,omitempty"`
	Thumbnail  []string `json:"thumbnail,omitempty"`
	Backlink   []string `json:"backlink,omitempty"`
	OpenURL    []string `json:"openurl,omitempty"`
}

type pnxRecord struct {
	Control  pnxControl  `json:"control"`
	Display  pnxDisplay  `json:"display"`
	Delivery pnxDelivery `json:"delivery"`
	Links    pnxLinks    `json:"links"`
}

type pnxDocument struct {
	PNX pnxRecord `json:"pnx"`
}

const (
	deliveryFulltext   = "fulltext"
	deliveryNoFulltext = "no_fulltext"
)

type pnxInfo struct {
	Total int `json:"total"`
	First int `json:"first"`
	Last  int `json:"last"`
}

type pnxFacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type pnxFacet struct {
	Name   string          `json:"name"`
	Values []pnxFacetValue `json:"values"`
}

type pnxResponse struct {
	Info   pnxInfo       `json:"info"`
	Docs   []pnxDocument `json:"docs"`
	Facets []pnxFacet    `json:"facets"`
}

type pnxError struct {
	Error string `json:"error"`
}
