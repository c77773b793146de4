package main

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const envPrefix = "GVI_PNX_WS_"

type poolConfigService struct {
	Port            string `json:"port,omitempty"`
	TenantsFile     string `json:"tenants_file,omitempty"`
	DefaultQuery    string `json:"default_query,omitempty"`
	DefaultLanguage string `json:"default_language,omitempty"`
	LogLevel        string `json:"log_level,omitempty"`
	Pprof           bool   `json:"pprof,omitempty"`
}

type poolConfigSolrParams struct {
	DefType        string   `json:"deftype,omitempty"`
	Qf             string   `json:"qf,omitempty"`
	Mm             string   `json:"mm,omitempty"`
	QOp            string   `json:"q_op,omitempty"`
	Fl             []string `json:"fl,omitempty"`
	Fq             []string `json:"fq,omitempty"` // global exclusions, applied to every search
	FacetLimit     int      `json:"facet_limit,omitempty"`
	ShardsTolerant bool     `json:"shards_tolerant,omitempty"`
}

type poolConfigSolrGrouping struct {
	Field string `json:"field,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type poolConfigSolr struct {
	URL         string                 `json:"url,omitempty"`
	ConnTimeout string                 `json:"conn_timeout,omitempty"`
	ReadTimeout string                 `json:"read_timeout,omitempty"`
	PingTimeout string                 `json:"ping_timeout,omitempty"`
	Params      poolConfigSolrParams   `json:"params,omitempty"`
	Grouping    poolConfigSolrGrouping `json:"grouping,omitempty"`
}

type poolConfigConsortium struct {
	ID           string `json:"id,omitempty"`
	RecordPrefix string `json:"record_prefix,omitempty"`
	HomeLibrary  string `json:"home_library,omitempty"`
}

type poolConfigURLTemplates struct {
	RegionalHoldings poolConfigURLTemplate `json:"regional_holdings,omitempty"`
	LocalSearch      poolConfigURLTemplate `json:"local_search,omitempty"`
	Backlink         poolConfigURLTemplate `json:"backlink,omitempty"`
}

type poolConfig struct {
	Service      poolConfigService      `json:"service,omitempty"`
	Solr         poolConfigSolr         `json:"solr,omitempty"`
	Consortium   poolConfigConsortium   `json:"consortium,omitempty"`
	URLTemplates poolConfigURLTemplates `json:"url_templates,omitempty"`
}

func defaultConfig() poolConfig {
	return poolConfig{
		Service: poolConfigService{
			Port:            "8080",
			TenantsFile:     "tenants.yml",
			DefaultQuery:    "Bauhaus Möbel",
			DefaultLanguage: "de",
			LogLevel:        "info",
		},
		Solr: poolConfigSolr{
			ConnTimeout: "5",
			ReadTimeout: "10",
			PingTimeout: "5",
			Params: poolConfigSolrParams{
				DefType: "edismax",
				Qf:      "title_slim^400 author_norm^300 author_unstemmed^50 subject_worktitle^50 subject_topic^50 subject_geogname^100 subject_genre^50 subject_persname^100 subject_corpname^100 subject_meetname^100 subject_chrono^100 subject_all_norm^50 publish_date^200 publisher^50 allfields_unstemmed^10 summary^10 isbn^500 isbn_related^400",
				Mm:      "0%",
				QOp:     "AND",
				Fl:      []string{"id", "fullrecord", "material_content_type", "language", "consortium", "institution_id"},
				Fq: []string{
					"-consortium:DE-101",
					"-consortium:DE-600",
					"-consortium:DE-627",
					"-consortium:UNDEFINED",
					"-allfields_unstemmed:Safari",
				},
				FacetLimit:     10,
				ShardsTolerant: true,
			},
			Grouping: poolConfigSolrGrouping{
				Field: "matchkey",
				Limit: 20,
			},
		},
		Consortium: poolConfigConsortium{
			ID:           "DE-602",
			RecordPrefix: "(DE-602)",
			HomeLibrary:  "DE-B1533",
		},
		URLTemplates: poolConfigURLTemplates{
			RegionalHoldings: poolConfigURLTemplate{
				Template: "https://portal.kobv.de/uid.do?query={id}&plv=2",
			},
			LocalSearch: poolConfigURLTemplate{
				Template: "https://portal.kobv.de/uid.do?query={id}&plv=2&library={institution}",
			},
			Backlink: poolConfigURLTemplate{
				Template: "https://portal.kobv.de/uid.do?index=gvi&query={id}",
				Label:    "KOBV-Portal",
			},
		},
	}
}

func getSortedJSONEnvVars() []string {
	var keys []string

	for _, keyval := range os.Environ() {
		key := strings.Split(keyval, "=")[0]
		if strings.HasPrefix(key, envPrefix+"JSON_") {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}

// decodeConfigValue accepts plain json, or base64-encoded gzipped json as written by setup
func decodeConfigValue(val string) ([]byte, error) {
	trimmed := strings.TrimSpace(val)

	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), nil
	}

	raw, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("value is neither json nor base64: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("value is not gzipped: %w", err)
	}

	defer gz.Close()

	return io.ReadAll(gz)
}

func applyConfigJSON(cfg *poolConfig, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	return dec.Decode(cfg)
}

func loadConfig() (*poolConfig, error) {
	cfg := defaultConfig()

	var errs []error

	for _, env := range getSortedJSONEnvVars() {
		logger.Info(fmt.Sprintf("[CONFIG] loading %s ...", env))

		val := os.Getenv(env)
		if val == "" {
			continue
		}

		data, err := decodeConfigValue(val)
		if err == nil {
			err = applyConfigJSON(&cfg, data)
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("error decoding %s: %w", env, err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// optional convenience overrides to simplify deployment config
	if url := os.Getenv(envPrefix + "SOLR_URL"); url != "" {
		cfg.Solr.URL = url
	}

	if file := os.Getenv(envPrefix + "TENANTS_FILE"); file != "" {
		cfg.Service.TenantsFile = file
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	bytes, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("error encoding pool config json: %w", err)
	}

	logger.Info("[CONFIG] composite json: " + string(bytes))

	return &cfg, nil
}

func (cfg *poolConfig) validate() error {
	var v stringValidator

	v.requireValue(cfg.Service.Port, "service port")
	v.requireValue(cfg.Service.TenantsFile, "tenants file")
	v.requireValue(cfg.Service.DefaultQuery, "default query")
	v.requireURL(cfg.Solr.URL, "solr url")
	v.requireValue(cfg.Solr.Params.DefType, "solr param deftype")
	v.requireValue(cfg.Solr.Grouping.Field, "solr grouping field")
	v.requireValue(cfg.Consortium.ID, "consortium id")
	v.requireValue(cfg.Consortium.RecordPrefix, "consortium record prefix")
	v.requireValue(cfg.Consortium.HomeLibrary, "home library")
	v.requireTemplate(cfg.URLTemplates.RegionalHoldings.Template, "regional holdings template")
	v.requireTemplate(cfg.URLTemplates.LocalSearch.Template, "local search template")

	if cfg.URLTemplates.Backlink.Template != "" {
		v.requireTemplate(cfg.URLTemplates.Backlink.Template, "backlink template")
	}

	if cfg.Solr.Grouping.Limit < 1 {
		v.fail("solr grouping limit must be positive")
	}

	if v.Invalid() == true {
		return fmt.Errorf("invalid configuration: %s", strings.Join(v.Problems(), "; "))
	}

	return nil
}
