package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const defaultDelCategory = "Remote Search Resource"

type tenantInstitution struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type tenantConfig struct {
	Name          string                  `yaml:"name"`
	Token         string                  `yaml:"token"`
	DelCategory   string                  `yaml:"delcategory"`
	Debug         bool                    `yaml:"debug"`
	SolrURL       string                  `yaml:"solr_url"` // optional endpoint override
	Filters       []string                `yaml:"filters"`
	LinkTemplates []poolConfigURLTemplate `yaml:"link_templates"`
	OpenURLs      []poolConfigURLTemplate `yaml:"openurl_templates"`
	Institutions  []tenantInstitution     `yaml:"institutions"`
	ILL           *poolConfigURLTemplate  `yaml:"ill"`
	Acquisition   *poolConfigURLTemplate  `yaml:"acquisition"`
}

func (t *tenantConfig) knowsInstitution(id string) bool {
	for _, inst := range t.Institutions {
		if inst.ID == id {
			return true
		}
	}

	return false
}

type tenantFile struct {
	Tenants []tenantConfig `yaml:"tenants"`
}

// tenantSnapshot is immutable once published
type tenantSnapshot struct {
	byToken map[string]*tenantConfig
	names   []string
	loaded  time.Time
}

func parseTenants(data []byte) (*tenantSnapshot, error) {
	var tf tenantFile

	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse tenants: %w", err)
	}

	snap := tenantSnapshot{
		byToken: make(map[string]*tenantConfig),
		loaded:  time.Now(),
	}

	for i := range tf.Tenants {
		t := &tf.Tenants[i]

		if t.Name == "" {
			return nil, fmt.Errorf("tenant %d: missing name", i)
		}

		if t.Token == "" {
			return nil, fmt.Errorf("tenant %s: missing token", t.Name)
		}

		if _, dup := snap.byToken[t.Token]; dup == true {
			return nil, fmt.Errorf("tenant %s: duplicate token", t.Name)
		}

		if t.DelCategory == "" {
			t.DelCategory = defaultDelCategory
		}

		if t.SolrURL != "" && isValidURL(t.SolrURL) == false {
			return nil, fmt.Errorf("tenant %s: invalid solr url [%s]", t.Name, t.SolrURL)
		}

		snap.byToken[t.Token] = t
		snap.names = append(snap.names, t.Name)
	}

	return &snap, nil
}

type tenantStore struct {
	path    string
	current atomic.Pointer[tenantSnapshot]
	logger  *zap.Logger
}

func newTenantStore(path string, logger *zap.Logger) (*tenantStore, error) {
	ts := tenantStore{path: path, logger: logger}

	if err := ts.reload(); err != nil {
		return nil, err
	}

	return &ts, nil
}

func (ts *tenantStore) reload() error {
	data, err := os.ReadFile(filepath.Clean(ts.path))
	if err != nil {
		return fmt.Errorf("failed to read tenants file %s: %w", ts.path, err)
	}

	snap, err := parseTenants(data)
	if err != nil {
		return err
	}

	ts.current.Store(snap)

	ts.logger.Info("[TENANTS] loaded", zap.String("path", ts.path), zap.Strings("tenants", snap.names))

	return nil
}

func (ts *tenantStore) snapshot() *tenantSnapshot {
	return ts.current.Load()
}

// lookup returns the tenant owning the token from the current snapshot
func (ts *tenantStore) lookup(token string) (*tenantConfig, bool) {
	if token == "" {
		return nil, false
	}

	snap := ts.snapshot()
	if snap == nil {
		return nil, false
	}

	t, ok := snap.byToken[token]

	return t, ok
}

// watch reloads the tenants file whenever it changes, until ctx is cancelled.
// the parent directory is watched so that editors replacing the file are noticed.
// a file that fails to parse leaves the previous snapshot in place.
func (ts *tenantStore) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(ts.path)

	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(ts.path)

	go func() {
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if ok == false {
					return
				}

				if filepath.Clean(ev.Name) != target {
					continue
				}

				if ev.Has(fsnotify.Write) == false && ev.Has(fsnotify.Create) == false {
					continue
				}

				if err := ts.reload(); err != nil {
					ts.logger.Warn("[TENANTS] reload failed; keeping previous tenants", zap.Error(err))
				}

			case err, ok := <-w.Errors:
				if ok == false {
					return
				}

				if err != nil {
					ts.logger.Warn("[TENANTS] watcher error", zap.Error(err))
				}
			}
		}
	}()

	return nil
}
