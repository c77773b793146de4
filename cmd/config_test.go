package main

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBase64(t *testing.T, s string) string {
	t.Helper()

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestLoadConfigLayersFragments(t *testing.T) {
	t.Setenv(envPrefix+"JSON_01", `{"solr":{"url":"http://solr:8983/solr/gvi","grouping":{"limit":5}}}`)
	t.Setenv(envPrefix+"JSON_02", gzipBase64(t, `{"service":{"port":"9090"},"solr":{"params":{"fq":["-consortium:DE-101"]}}}`))

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Service.Port)
	assert.Equal(t, "http://solr:8983/solr/gvi", cfg.Solr.URL)
	assert.Equal(t, 5, cfg.Solr.Grouping.Limit)
	assert.Equal(t, "matchkey", cfg.Solr.Grouping.Field, "defaults survive")
	assert.Equal(t, []string{"-consortium:DE-101"}, cfg.Solr.Params.Fq)
	assert.Equal(t, "Bauhaus Möbel", cfg.Service.DefaultQuery)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv(envPrefix+"JSON_01", `{"solr":{"url":"http://solr:8983/solr/gvi"}}`)
	t.Setenv(envPrefix+"SOLR_URL", "http://other:8983/solr/gvi")
	t.Setenv(envPrefix+"TENANTS_FILE", "/etc/gvi/tenants.yml")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://other:8983/solr/gvi", cfg.Solr.URL)
	assert.Equal(t, "/etc/gvi/tenants.yml", cfg.Service.TenantsFile)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	t.Setenv(envPrefix+"JSON_01", `{"solr":{"url":"http://solr:8983/solr/gvi","cores":2}}`)

	_, err := loadConfig()
	assert.ErrorContains(t, err, envPrefix+"JSON_01")
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	t.Setenv(envPrefix+"JSON_01", "%%%")

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigValidates(t *testing.T) {
	t.Setenv(envPrefix+"JSON_01", `{"url_templates":{"local_search":{"template":"https://x.org/search"}}}`)

	_, err := loadConfig()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "solr url")
	assert.Contains(t, err.Error(), "local search template")
}

func TestDecodeConfigValue(t *testing.T) {
	raw, err := decodeConfigValue(`  {"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(raw))

	raw, err = decodeConfigValue(gzipBase64(t, `{"b":2}`))
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(raw))

	_, err = decodeConfigValue(base64.StdEncoding.EncodeToString([]byte("plain")))
	assert.Error(t, err)
}
