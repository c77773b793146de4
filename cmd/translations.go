package main

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed i18n/*.toml
var messageFiles embed.FS

// message ids for the fixed labels used in generated links
const (
	msgFullText         = "FullTextLabel"
	msgRegionalHoldings = "RegionalHoldingsLabel"
	msgDebug            = "DebugLabel"
)

var requiredMessageIDs = []string{msgFullText, msgRegionalHoldings, msgDebug}

type poolTranslations struct {
	bundle *i18n.Bundle
	langs  []string
}

func loadTranslations(defaultLang string) (poolTranslations, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		tag = language.German
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(messageFiles, "i18n/*.toml")
	if err != nil {
		return poolTranslations{}, err
	}

	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(messageFiles, f); err != nil {
			return poolTranslations{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var langs []string

	// every language must carry every label
	for _, t := range bundle.LanguageTags() {
		localizer := i18n.NewLocalizer(bundle, t.String())

		for _, id := range requiredMessageIDs {
			if _, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: id}); err != nil {
				return poolTranslations{}, fmt.Errorf("language %s: %w", t.String(), err)
			}
		}

		langs = append(langs, t.String())
	}

	return poolTranslations{bundle: bundle, langs: langs}, nil
}
