package main

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tenantKey = "tenant"

func searchParamsFromQuery(c *gin.Context) searchParams {
	return searchParams{
		query:    c.Query("query"),
		from:     c.Query("from"),
		bulksize: c.Query("bulksize"),
		sort:     c.Query("sort"),
	}
}

func (p *poolContext) runSearch(c *gin.Context) searchResponse {
	cl := clientContext{}
	cl.init(p, c)

	s := searchContext{}
	s.init(p, &cl, c.MustGet(tenantKey).(*tenantConfig))

	cl.logRequest()
	resp := s.handleSearchRequest(searchParamsFromQuery(c))
	cl.logResponse(resp)

	return resp
}

func (p *poolContext) jsonHandler(c *gin.Context) {
	resp := p.runSearch(c)

	c.JSON(resp.status, resp.data)
}

func (p *poolContext) plainHandler(c *gin.Context) {
	resp := p.runSearch(c)

	out, err := json.MarshalIndent(resp.data, "", "  ")
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(resp.status, "text/plain; charset=utf-8", out)
}

func (p *poolContext) ignoreHandler(c *gin.Context) {
}

func (p *poolContext) versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, p.version)
}

func (p *poolContext) healthCheckHandler(c *gin.Context) {
	err := p.solrPing(c.Request.Context())

	// build response

	type hcResp struct {
		Healthy bool   `json:"healthy"`
		Message string `json:"message,omitempty"`
	}

	hcSolr := hcResp{Healthy: true}
	if err != nil {
		p.logger.Warn("[HEALTH] solr unhealthy", zap.Error(err))
		hcSolr = hcResp{Healthy: false, Message: err.Error()}
	}

	hcTenants := hcResp{Healthy: true}
	if p.tenants.snapshot() == nil {
		hcTenants = hcResp{Healthy: false, Message: "no tenants loaded"}
	}

	hcMap := make(map[string]hcResp)
	hcMap["solr"] = hcSolr
	hcMap["tenants"] = hcTenants

	hcStatus := http.StatusOK
	if hcSolr.Healthy == false || hcTenants.Healthy == false {
		hcStatus = http.StatusInternalServerError
	}

	c.JSON(hcStatus, hcMap)
}

// authenticateHandler resolves the tenant owning the token query parameter
func (p *poolContext) authenticateHandler(c *gin.Context) {
	tenant, ok := p.tenants.lookup(c.Query("token"))

	if ok == false {
		p.metrics.rejectToken()
		p.logger.Warn("[AUTH] rejected request with missing or unknown token", zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusUnauthorized, pnxError{Error: "unauthorized"})
		return
	}

	c.Set(tenantKey, tenant)
}
