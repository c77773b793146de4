package main

import (
	"net/url"
	"strings"
)

// typed parameter sets for the generated action links

type illParams struct {
	title     string
	author    string
	place     string
	publisher string
	date      string
	edition   string
	isbn      string
	issn      string
	pages     string
	remark    string
	article   bool // use article key names for title/author
}

func (p illParams) values() url.Values {
	v := url.Values{}

	titleKey, authorKey := "title", "author"
	if p.article == true {
		titleKey, authorKey = "atitle", "aauthor"
	}

	addValue(v, titleKey, p.title)
	addValue(v, authorKey, p.author)
	addValue(v, "place", p.place)
	addValue(v, "publisher", p.publisher)
	addValue(v, "date", p.date)
	addValue(v, "edition", p.edition)
	addValue(v, "isbn", p.isbn)
	addValue(v, "issn", p.issn)
	addValue(v, "pages", p.pages)
	addValue(v, "remark", p.remark)

	return v
}

type acquisitionParams struct {
	title     string
	author    string
	place     string
	publisher string
	date      string
	edition   string
	isbn      string
}

func (p acquisitionParams) values() url.Values {
	v := url.Values{}

	addValue(v, "title", p.title)
	addValue(v, "author", p.author)
	addValue(v, "place", p.place)
	addValue(v, "publisher", p.publisher)
	addValue(v, "date", p.date)
	addValue(v, "edition", p.edition)
	addValue(v, "isbn", p.isbn)

	return v
}

const (
	openURLContextEncoding = "info:ofi/enc:UTF-8"
	openURLContextVersion  = "Z39.88-2004"
	openURLReferrerID      = "info:sid/gvi.kobv.de:gvi"
)

type openURLParams struct {
	title   string
	author  string
	date    string
	edition string
	isbn    string
	issn    string
}

func (p openURLParams) values() url.Values {
	v := url.Values{}

	v.Set("ctx_enc", openURLContextEncoding)
	v.Set("ctx_ver", openURLContextVersion)
	v.Set("rfr_id", openURLReferrerID)

	addValue(v, "rft.title", p.title)
	addValue(v, "rft.au", p.author)
	addValue(v, "rft.date", p.date)
	addValue(v, "rft.edition", p.edition)
	addValue(v, "rft.isbn", p.isbn)
	addValue(v, "rft.issn", p.issn)

	return v
}

func addValue(v url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		v.Set(key, val)
	}
}
