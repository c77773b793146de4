package main

import (
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// git commit used for this build; supplied at compile time
var gitCommit string

type poolVersion struct {
	BuildVersion string `json:"build,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
	GitCommit    string `json:"git_commit,omitempty"`
}

type poolSolr struct {
	searchClient *http.Client
	healthClient *http.Client
	url          string // core url; select/ping paths are appended
	readTimeout  time.Duration
	pingTimeout  time.Duration
}

type poolContext struct {
	config       *poolConfig
	tenants      *tenantStore
	translations poolTranslations
	version      poolVersion
	solr         poolSolr
	metrics      *poolMetrics
	logger       *zap.Logger
}

func (p *poolContext) initVersion() {
	buildVersion := "unknown"
	files, _ := filepath.Glob("buildtag.*")
	if len(files) == 1 {
		buildVersion = strings.Replace(files[0], "buildtag.", "", 1)
	}

	p.version = poolVersion{
		BuildVersion: buildVersion,
		GoVersion:    fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		GitCommit:    gitCommit,
	}

	p.logger.Info("[POOL] version",
		zap.String("build", p.version.BuildVersion),
		zap.String("go", p.version.GoVersion),
		zap.String("commit", p.version.GitCommit))
}

func newSolrClient(connTimeout, readTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   connTimeout,
				KeepAlive: 60 * time.Second,
			}).DialContext,
			MaxIdleConns:        100, // we are mostly hitting one solr host, so
			MaxIdleConnsPerHost: 100, // these two values can be the same
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func (p *poolContext) initSolr() {
	connTimeout := time.Duration(integerWithMinimum(p.config.Solr.ConnTimeout, 1)) * time.Second
	readTimeout := time.Duration(integerWithMinimum(p.config.Solr.ReadTimeout, 1)) * time.Second
	pingTimeout := time.Duration(integerWithMinimum(p.config.Solr.PingTimeout, 1)) * time.Second

	p.solr = poolSolr{
		searchClient: newSolrClient(connTimeout, readTimeout),
		healthClient: newSolrClient(connTimeout, pingTimeout),
		url:          strings.TrimSuffix(p.config.Solr.URL, "/"),
		readTimeout:  readTimeout,
		pingTimeout:  pingTimeout,
	}

	p.logger.Info("[POOL] solr",
		zap.String("url", p.solr.url),
		zap.Duration("read_timeout", readTimeout),
		zap.Duration("ping_timeout", pingTimeout))
}

func (p *poolContext) initTranslations() error {
	t, err := loadTranslations(p.config.Service.DefaultLanguage)
	if err != nil {
		return err
	}

	p.translations = t

	p.logger.Info("[POOL] supported languages", zap.Strings("languages", t.langs))

	return nil
}

// solrURL returns the endpoint for a tenant, honoring its optional override
func (p *poolContext) solrURL(t *tenantConfig) string {
	if t != nil && t.SolrURL != "" {
		return strings.TrimSuffix(t.SolrURL, "/")
	}

	return p.solr.url
}

func initializePool(cfg *poolConfig, tenants *tenantStore, reg prometheus.Registerer, log *zap.Logger) (*poolContext, error) {
	p := poolContext{
		config:  cfg,
		tenants: tenants,
		logger:  log,
		metrics: newPoolMetrics(reg),
	}

	p.initVersion()
	p.initSolr()

	if err := p.initTranslations(); err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	return &p, nil
}
