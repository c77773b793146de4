package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/mitchellh/mapstructure"
)

const (
	solrSelectPath = "/select"
	solrPingPath   = "/admin/ping"
)

// solrStatus maps transport failures onto the status reported to the client
func solrStatus(err error) int {
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout

	case errors.Is(err, syscall.ECONNREFUSED):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func convertFacetCounts(raw map[string]interface{}) (map[string][]solrFacetValue, error) {
	// classic facet output comes back as flat lists, e.g.
	//
	// '{ "facet_fields": { "language": [ "ger", 12, "eng", 3 ] }, "facet_queries": {}, ... }'
	//
	// which cannot be decoded into typed pairs directly, so we decode the block
	// generically and then walk each list two entries at a time.

	var counts solrFacetCounts

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &counts,
	}

	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode solr facet counts: %w", err)
	}

	facets := make(map[string][]solrFacetValue)

	for field, list := range counts.FacetFields {
		var values []solrFacetValue

		for i := 0; i+1 < len(list); i += 2 {
			val, ok := list[i].(string)
			if ok == false {
				continue
			}

			var count int

			switch n := list[i+1].(type) {
			case float64:
				count = int(n)
			case int:
				count = n
			case json.Number:
				c, _ := n.Int64()
				count = int(c)
			}

			values = append(values, solrFacetValue{value: val, count: count})
		}

		facets[field] = values
	}

	return facets, nil
}

// solrQuery executes the request built for this search context
func (s *searchContext) solrQuery() searchResponse {
	jsonBytes, err := json.Marshal(s.solrReq.json)
	if err != nil {
		s.err("Marshal() failed: %s", err.Error())
		return searchResponse{status: http.StatusInternalServerError, err: fmt.Errorf("failed to marshal solr json: %w", err)}
	}

	url := s.solrReq.meta.url + solrSelectPath

	ctx, cancel := context.WithTimeout(s.client.ginCtx.Request.Context(), s.pool.solr.readTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		s.err("NewRequest() failed: %s", err.Error())
		return searchResponse{status: http.StatusInternalServerError, err: fmt.Errorf("failed to create solr request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")

	if s.client.opts.verbose == true {
		s.log("[SOLR] req: [%s]", string(jsonBytes))
	} else {
		s.log("[SOLR] req: [%s]", s.solrReq.json.Params.Q)
	}

	start := time.Now()
	res, err := s.pool.solr.searchClient.Do(req)
	elapsed := time.Since(start)
	elapsedMS := elapsed.Milliseconds()

	// external service failure logging (scenario 1)

	if err != nil {
		status := solrStatus(err)

		errMsg := err.Error()
		switch status {
		case http.StatusGatewayTimeout:
			errMsg = fmt.Sprintf("%s timed out", url)
		case http.StatusServiceUnavailable:
			errMsg = fmt.Sprintf("%s refused connection", url)
		}

		s.pool.metrics.observeSolr("search", status, elapsed)
		s.err("Failed response from GET %s - %d:%s. Elapsed Time: %d (ms)", url, status, err.Error(), elapsedMS)
		return searchResponse{status: status, err: errors.New(errMsg)}
	}

	defer res.Body.Close()

	var solrRes solrResponse

	// external service failure logging (scenario 2)

	if err := json.NewDecoder(res.Body).Decode(&solrRes); err != nil {
		s.pool.metrics.observeSolr("search", http.StatusInternalServerError, elapsed)
		s.err("Failed response from GET %s - %d:%s. Elapsed Time: %d (ms)", url, res.StatusCode, err.Error(), elapsedMS)
		return searchResponse{status: http.StatusInternalServerError, err: fmt.Errorf("failed to decode solr response: %w", err)}
	}

	logHeader := fmt.Sprintf("[SOLR] res: header: { status = %d, QTime = %d }", solrRes.ResponseHeader.Status, solrRes.ResponseHeader.QTime)

	if res.StatusCode != http.StatusOK || solrRes.ResponseHeader.Status != 0 {
		s.pool.metrics.observeSolr("search", http.StatusInternalServerError, elapsed)
		s.err("%s, error: { http = %d, code = %d, msg = %s }", logHeader, res.StatusCode, solrRes.Error.Code, solrRes.Error.Msg)
		return searchResponse{status: http.StatusInternalServerError, err: fmt.Errorf("solr error %d: %s", solrRes.Error.Code, strings.TrimSpace(solrRes.Error.Msg))}
	}

	facets, err := convertFacetCounts(solrRes.FacetCountsRaw)
	if err != nil {
		s.pool.metrics.observeSolr("search", http.StatusInternalServerError, elapsed)
		s.err("%s, facet error: %s", logHeader, err.Error())
		return searchResponse{status: http.StatusInternalServerError, err: err}
	}

	solrRes.facets = facets

	// external service success logging

	s.pool.metrics.observeSolr("search", http.StatusOK, elapsed)
	s.log("Successful Solr response from GET %s. Elapsed Time: %d (ms)", url, elapsedMS)

	grouped := solrRes.Grouped[s.pool.config.Solr.Grouping.Field]
	s.log("%s, body: { matches = %d, ngroups = %d, groups = %d }", logHeader, grouped.Matches, grouped.NGroups, len(grouped.Groups))

	s.solrRes = &solrRes

	return searchResponse{status: http.StatusOK}
}

// solrPing checks the service-level solr endpoint
func (p *poolContext) solrPing(ctx context.Context) error {
	url := p.solr.url + solrPingPath + "?wt=json"

	ctx, cancel := context.WithTimeout(ctx, p.solr.pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create solr ping request: %w", err)
	}

	start := time.Now()
	res, err := p.solr.healthClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		status := solrStatus(err)
		p.metrics.observeSolr("ping", status, elapsed)
		return fmt.Errorf("solr ping failed (%d): %w", status, err)
	}

	defer res.Body.Close()

	var solrRes solrResponse

	if err := json.NewDecoder(res.Body).Decode(&solrRes); err != nil {
		p.metrics.observeSolr("ping", http.StatusInternalServerError, elapsed)
		return fmt.Errorf("failed to decode solr ping response: %w", err)
	}

	if res.StatusCode != http.StatusOK || solrRes.ResponseHeader.Status != 0 || solrRes.Status != "OK" {
		p.metrics.observeSolr("ping", http.StatusInternalServerError, elapsed)
		return fmt.Errorf("solr ping status: [%s] (http %d)", solrRes.Status, res.StatusCode)
	}

	p.metrics.observeSolr("ping", http.StatusOK, elapsed)

	return nil
}
