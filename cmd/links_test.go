package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillTemplate(t *testing.T) {
	got := fillTemplate("https://example.org/record?id={id}&t={title}", map[string]string{
		placeholderID:    "(DE-627)123",
		placeholderTitle: "Das Haus & mehr",
	})

	assert.Equal(t, "https://example.org/record?id=%28DE-627%29123&t=Das+Haus+%26+mehr", got)

	assert.Empty(t, fillTemplate("https://example.org/search", map[string]string{placeholderID: "x"}))
}

func TestWithQuery(t *testing.T) {
	params := url.Values{"a": []string{"1"}}

	assert.Equal(t, "https://x.org/p?a=1", withQuery("https://x.org/p", params))
	assert.Equal(t, "https://x.org/p?src=gvi&a=1", withQuery("https://x.org/p?src=gvi", params))
	assert.Equal(t, "https://x.org/p?a=1", withQuery("https://x.org/p?", params))
	assert.Equal(t, "https://x.org/p", withQuery("https://x.org/p", url.Values{}))
}

func TestRenderLink(t *testing.T) {
	assert.Equal(t, "$$Uhttps://x.org$$DLabel", renderLink("https://x.org", "Label"))
	assert.Equal(t, "$$Uhttps://x.org", renderLink("https://x.org", ""))
}

func TestILLParamsArticleKeys(t *testing.T) {
	p := illParams{title: "On Things", author: "Doe, J.", pages: "33-45", remark: "GVI K10plus (DE-627)1", article: true}

	v := p.values()

	assert.Equal(t, "On Things", v.Get("atitle"))
	assert.Equal(t, "Doe, J.", v.Get("aauthor"))
	assert.False(t, v.Has("title"))
	assert.False(t, v.Has("author"))
	assert.False(t, v.Has("isbn"), "blank values are omitted")

	p.article = false
	v = p.values()

	assert.Equal(t, "On Things", v.Get("title"))
	assert.False(t, v.Has("atitle"))
}

func TestOpenURLParams(t *testing.T) {
	v := openURLParams{title: "Haus", isbn: "9783161484100"}.values()

	assert.Equal(t, openURLContextEncoding, v.Get("ctx_enc"))
	assert.Equal(t, openURLContextVersion, v.Get("ctx_ver"))
	assert.Equal(t, openURLReferrerID, v.Get("rfr_id"))
	assert.Equal(t, "Haus", v.Get("rft.title"))
	assert.Equal(t, "9783161484100", v.Get("rft.isbn"))
	assert.False(t, v.Has("rft.au"))
}

func TestAcquisitionParams(t *testing.T) {
	v := acquisitionParams{title: "Haus", publisher: " ", date: "2015"}.values()

	require.Len(t, v, 2)
	assert.Equal(t, "Haus", v.Get("title"))
	assert.Equal(t, "2015", v.Get("date"))
}
