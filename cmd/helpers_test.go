package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTenants = `
tenants:
  - name: fu-berlin
    token: secret-fu
    link_templates:
      - template: "https://example.org/record?id={id}"
        label: Catalogue
    institutions:
      - id: DE-188
        label: FU Berlin
  - name: home
    token: secret-home
    debug: true
    delcategory: Alma-P
    institutions:
      - id: DE-B1533
        label: Home Library
    ill:
      template: "https://ill.example.org/order"
      label: Fernleihe
    acquisition:
      template: "https://acq.example.org/suggest?src=gvi"
      label: Anschaffungsvorschlag
`

func writeTenants(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tenants.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func newTestPool(t *testing.T, solrURL string) *poolContext {
	t.Helper()

	cfg := defaultConfig()
	cfg.Solr.URL = solrURL

	tenants, err := newTenantStore(writeTenants(t, testTenants), zap.NewNop())
	require.NoError(t, err)

	p, err := initializePool(&cfg, tenants, prometheus.NewRegistry(), zap.NewNop())
	require.NoError(t, err)

	return p
}

// a client context that is not bound to a gin request
func newTestClient(p *poolContext, lang string) *clientContext {
	return &clientContext{
		reqID:     "test",
		localizer: i18n.NewLocalizer(p.translations.bundle, lang),
		logger:    zap.NewNop().Sugar(),
	}
}

func newGinClient(p *poolContext, target string) *clientContext {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)

	cl := clientContext{}
	cl.init(p, c)

	return &cl
}

func testTenant(t *testing.T, p *poolContext, token string) *tenantConfig {
	t.Helper()

	tenant, ok := p.tenants.lookup(token)
	require.True(t, ok, "tenant for token %s", token)

	return tenant
}
