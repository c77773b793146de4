package main

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// miscellaneous utility functions

func firstElementOf(s []string) string {
	// return first element of slice, or blank string if empty
	val := ""

	if len(s) > 0 {
		val = s[0]
	}

	return val
}

func sliceContainsString(haystack []string, needle string, insensitive bool) bool {
	if len(haystack) == 0 {
		return false
	}

	for _, item := range haystack {
		a := item
		b := needle

		if insensitive == true {
			a = strings.ToLower(item)
			b = strings.ToLower(needle)
		}

		if a == b {
			return true
		}
	}

	return false
}

func nonemptyValues(val []string) []string {
	res := []string{}

	for _, s := range val {
		if s != "" {
			res = append(res, s)
		}
	}

	return res
}

func integerWithMinimum(str string, min int) int {
	val, err := strconv.Atoi(str)

	// fallback for invalid or nonsensical values
	if err != nil || val < min {
		val = min
	}

	return val
}

func isValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// orderedSet keeps the first occurrence of each exact value, in insertion order
type orderedSet struct {
	values []string
	seen   map[string]bool
}

func (o *orderedSet) add(val string) bool {
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}

	if o.seen[val] == true {
		return false
	}

	o.seen[val] = true
	o.values = append(o.values, val)

	return true
}

func (o *orderedSet) contains(val string) bool {
	return o.seen[val]
}

func (o *orderedSet) sorted() []string {
	vals := append([]string{}, o.values...)
	sort.Strings(vals)
	return vals
}

func (o *orderedSet) len() int {
	return len(o.values)
}
