package main

import (
	"net/url"
	"strings"
)

type poolConfigURLTemplate struct {
	Template string `json:"template,omitempty" yaml:"template"`
	Label    string `json:"label,omitempty" yaml:"label"`
}

// template placeholders
const (
	placeholderID          = "{id}"
	placeholderTitle       = "{title}"
	placeholderISBN        = "{isbn}"
	placeholderInstitution = "{institution}"
)

// fillTemplate substitutes each placeholder with its query-escaped value.
// templates without an {id} placeholder are considered unusable.
func fillTemplate(t string, values map[string]string) string {
	if strings.Contains(t, placeholderID) == false {
		return ""
	}

	var pairs []string

	for placeholder, val := range values {
		pairs = append(pairs, placeholder, url.QueryEscape(val))
	}

	return strings.NewReplacer(pairs...).Replace(t)
}

// withQuery appends encoded parameters to a base url,
// respecting any query string it already carries
func withQuery(base string, params url.Values) string {
	encoded := params.Encode()

	if encoded == "" {
		return base
	}

	sep := "?"
	if strings.Contains(base, "?") == true {
		sep = "&"
		if strings.HasSuffix(base, "?") == true || strings.HasSuffix(base, "&") == true {
			sep = ""
		}
	}

	return base + sep + encoded
}

// pnx link notation: $$U<url>$$D<label>
func renderLink(target, label string) string {
	if label == "" {
		return "$$U" + target
	}

	return "$$U" + target + "$$D" + label
}
