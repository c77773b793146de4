package main

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const envPrefix = "GVI_PNX_WS_"

// fragment numbers are two digits; the last one is reserved for the port fragment
const (
	portFragment = 99
	maxFragments = portFragment - 1
)

type setupOptions struct {
	dir         string
	out         string
	solrURL     string
	tenantsFile string
	port        string
}

// encodeFragment gzips and base64-encodes a json config fragment
func encodeFragment(data []byte) (string, error) {
	if json.Valid(data) == false {
		return "", fmt.Errorf("not valid json")
	}

	var gzBuf bytes.Buffer

	gz := gzip.NewWriter(&gzBuf)

	if _, err := gz.Write(data); err != nil {
		return "", err
	}

	if err := gz.Close(); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(gzBuf.Bytes()), nil
}

// fragments are numbered in argument order, which is also the order the service applies them
func buildEnvScript(opts setupOptions, files []string) (string, error) {
	if len(files) > maxFragments {
		return "", fmt.Errorf("too many config fragments: %d (at most %d)", len(files), maxFragments)
	}

	var lines []string

	lines = append(lines, "#!/bin/bash", "")

	if opts.solrURL != "" {
		lines = append(lines, fmt.Sprintf("export %sSOLR_URL=%s", envPrefix, opts.solrURL))
	}

	if opts.tenantsFile != "" {
		lines = append(lines, fmt.Sprintf("export %sTENANTS_FILE=%s", envPrefix, opts.tenantsFile))
	}

	for i, f := range files {
		path := f
		if opts.dir != "" && filepath.IsAbs(f) == false {
			path = filepath.Join(opts.dir, f)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}

		enc, err := encodeFragment(data)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}

		lines = append(lines, fmt.Sprintf("export %sJSON_%02d=%s", envPrefix, i+1, enc))
	}

	if opts.port != "" {
		enc, err := encodeFragment([]byte(fmt.Sprintf(`{"service":{"port":%q}}`, opts.port)))
		if err != nil {
			return "", err
		}

		lines = append(lines, fmt.Sprintf("export %sJSON_%02d=%s", envPrefix, portFragment, enc))
	}

	return strings.Join(lines, "\n") + "\n", nil
}

func newRootCommand() *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup [flags] config.json...",
		Short: "Generate the environment script for gvi-pnx-ws",
		Long:  "Packs JSON configuration fragments into the GVI_PNX_WS_JSON_* environment variables read by the service.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := buildEnvScript(opts, args)
			if err != nil {
				return err
			}

			if opts.out == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), script)
				return err
			}

			if err := os.WriteFile(opts.out, []byte(script), 0o755); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d fragments)\n", opts.out, len(args))

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "directory that relative config paths are resolved against")
	cmd.Flags().StringVar(&opts.out, "out", "setup_env.sh", "output script, or - for stdout")
	cmd.Flags().StringVar(&opts.solrURL, "solr-url", "", "solr core url override")
	cmd.Flags().StringVar(&opts.tenantsFile, "tenants-file", "", "tenants file override")
	cmd.Flags().StringVar(&opts.port, "port", "", "port to run the service on")

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
