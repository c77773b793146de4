package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSolr serves canned select and ping responses and records the last select request
type fakeSolr struct {
	server   *httptest.Server
	last     solrRequestJSON
	response solrResponse
	status   int
	delay    time.Duration
}

func newFakeSolr(t *testing.T) *fakeSolr {
	t.Helper()

	f := &fakeSolr{response: testSolrResponse(), status: http.StatusOK}

	mux := http.NewServeMux()

	mux.HandleFunc(solrSelectPath, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&f.last); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_ = json.NewEncoder(w).Encode(f.response)
	})

	mux.HandleFunc(solrPingPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"responseHeader":{"status":0,"QTime":1},"status":"OK"}`)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func testSolrResponse() solrResponse {
	return solrResponse{
		ResponseHeader: solrResponseHeader{Status: 0, QTime: 3},
		Grouped: map[string]solrGroupedField{
			"matchkey": {
				Matches: 3,
				NGroups: 42,
				Groups: []solrGroup{
					{
						GroupValue: "k1",
						DocList: solrDocList{NumFound: 2, Docs: []solrDocument{
							{ID: "(DE-602)KOBV1", FullRecord: testBookRecord, MaterialContentType: []string{"Book"}, Consortium: []string{"DE-602"}, InstitutionID: []string{"DE-83"}},
							{ID: "(DE-601)GBV1", Consortium: []string{"DE-601"}},
						}},
					},
					{
						GroupValue: "k2",
						DocList: solrDocList{NumFound: 1, Docs: []solrDocument{
							{ID: "(DE-604)BV1", FullRecord: testArticleRecord, MaterialContentType: []string{"Article"}, Consortium: []string{"DE-604"}},
						}},
					},
					{GroupValue: "empty"},
				},
			},
		},
		FacetCountsRaw: map[string]interface{}{
			"facet_queries": map[string]interface{}{},
			"facet_fields": map[string]interface{}{
				"author_facet":          []interface{}{"Smith, Jane", 2},
				"language":              []interface{}{"ger", 12, "und", 4, "eng", 0},
				"material_content_type": []interface{}{"Book", 1, "Article", 1},
			},
		},
	}
}

func newTestSearch(t *testing.T, p *poolContext, target, token string) *searchContext {
	t.Helper()

	s := searchContext{}
	s.init(p, newGinClient(p, target), testTenant(t, p, token))

	return &s
}

func TestSolrStatus(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, solrStatus(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.Equal(t, http.StatusGatewayTimeout, solrStatus(&net.DNSError{IsTimeout: true}))

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}}
	assert.Equal(t, http.StatusServiceUnavailable, solrStatus(refused))

	assert.Equal(t, http.StatusInternalServerError, solrStatus(errors.New("boom")))
}

func TestConvertFacetCounts(t *testing.T) {
	facets, err := convertFacetCounts(map[string]interface{}{
		"facet_fields": map[string]interface{}{
			"language": []interface{}{"ger", float64(12), "eng", float64(3), "dangling"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []solrFacetValue{{value: "ger", count: 12}, {value: "eng", count: 3}}, facets["language"])

	facets, err = convertFacetCounts(nil)
	require.NoError(t, err)
	assert.Empty(t, facets)
}

func TestSolrRequestParams(t *testing.T) {
	solr := newFakeSolr(t)
	p := newTestPool(t, solr.server.URL)

	s := newTestSearch(t, p, "/json", "secret-fu")

	tenant := *s.tenant
	tenant.Filters = []string{"-institution_id:DE-999"}
	s.tenant = &tenant

	resp := s.performQuery(searchParams{
		query:    `(sea) AND facet_lang:(fre)`,
		from:     "6",
		bulksize: "5",
		sort:     "date",
	})
	require.NoError(t, resp.err)

	params := solr.last.Params

	assert.Equal(t, "(sea)", params.Q)
	assert.Equal(t, 5, params.Start)
	assert.Equal(t, 5, params.Rows)
	assert.Equal(t, "publish_date_sort desc", params.Sort)
	assert.Equal(t, "edismax", params.DefType)
	assert.Equal(t, "AND", params.QOp)
	assert.True(t, params.ShardsTolerant)

	// global exclusions, then tenant filters, then facet filters
	want := append(append([]string{}, p.config.Solr.Params.Fq...), "-institution_id:DE-999", "language:fre")
	assert.Equal(t, want, params.Fq)

	assert.True(t, params.Group)
	assert.Equal(t, "matchkey", params.GroupField)
	assert.True(t, params.GroupNGroups)
	assert.True(t, params.Facet)
	assert.Equal(t, responseFacetFields(), params.FacetField)
}

func TestSolrRequestUsesTenantEndpoint(t *testing.T) {
	solr := newFakeSolr(t)
	p := newTestPool(t, "http://127.0.0.1:1/solr/unused")

	s := newTestSearch(t, p, "/json", "secret-fu")

	tenant := *s.tenant
	tenant.SolrURL = solr.server.URL + "/"
	s.tenant = &tenant

	resp := s.performQuery(searchParams{query: "x"})
	require.NoError(t, resp.err)
	assert.Equal(t, "x", solr.last.Params.Q)
}

func TestSolrQueryTimeout(t *testing.T) {
	solr := newFakeSolr(t)
	solr.delay = 2 * time.Second

	p := newTestPool(t, solr.server.URL)
	p.solr.readTimeout = 50 * time.Millisecond

	resp := newTestSearch(t, p, "/json", "secret-fu").performQuery(searchParams{query: "x"})

	require.Error(t, resp.err)
	assert.Equal(t, http.StatusGatewayTimeout, resp.status)
}

func TestSolrQueryRefused(t *testing.T) {
	solr := newFakeSolr(t)
	url := solr.server.URL
	solr.server.Close()

	p := newTestPool(t, url)

	resp := newTestSearch(t, p, "/json", "secret-fu").performQuery(searchParams{query: "x"})

	require.Error(t, resp.err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.status)
	assert.Contains(t, resp.err.Error(), "refused connection")
}

func TestSolrQueryBackendError(t *testing.T) {
	solr := newFakeSolr(t)
	solr.status = http.StatusBadRequest
	solr.response = solrResponse{
		ResponseHeader: solrResponseHeader{Status: 400},
		Error:          solrError{Code: 400, Msg: "undefined field foo"},
	}

	p := newTestPool(t, solr.server.URL)

	resp := newTestSearch(t, p, "/json", "secret-fu").performQuery(searchParams{query: "foo:bar"})

	require.Error(t, resp.err)
	assert.Equal(t, http.StatusInternalServerError, resp.status)
	assert.Contains(t, resp.err.Error(), "undefined field foo")
}

func TestSolrPing(t *testing.T) {
	solr := newFakeSolr(t)
	p := newTestPool(t, solr.server.URL)

	assert.NoError(t, p.solrPing(context.Background()))

	solr.server.Close()
	assert.Error(t, p.solrPing(context.Background()))
}

func TestBuildPNXResponse(t *testing.T) {
	solr := newFakeSolr(t)
	p := newTestPool(t, solr.server.URL)

	s := newTestSearch(t, p, "/json?lang=en", "secret-fu")

	resp := s.handleSearchRequest(searchParams{query: "Haus", from: "11", bulksize: "3"})
	require.NoError(t, resp.err)
	require.Equal(t, http.StatusOK, resp.status)

	res, ok := resp.data.(*pnxResponse)
	require.True(t, ok)

	// the empty group is skipped
	require.Len(t, res.Docs, 2)
	assert.Equal(t, pnxInfo{Total: 42, First: 11, Last: 12}, res.Info)

	var names []string
	for _, f := range res.Facets {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"creator", "tlevel", "rtype", "lang", "topic", "library"}, names)
	assert.Equal(t, []pnxFacetValue{{Value: "Smith, Jane", Count: 2}}, res.Facets[0].Values)
	assert.Equal(t, []pnxFacetValue{}, res.Facets[1].Values)
	assert.Equal(t, []pnxFacetValue{{Value: "ger", Count: 12}}, res.Facets[3].Values, "zero counts and und are dropped")

	// the first group belongs to the consortium, but fu-berlin holds nothing there
	assert.Contains(t, res.Docs[0].PNX.Links.LinkToRsrc, "$$Uhttps://portal.kobv.de/uid.do?query=KOBV1&plv=2$$DHoldings in the region")
	assert.Equal(t, []string{"article"}, res.Docs[1].PNX.Display.Type)
}
