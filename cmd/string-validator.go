package main

import (
	"fmt"
	"strings"
)

// collects missing/invalid configuration values so they can all be reported at once
type stringValidator struct {
	problems []string
}

func (v *stringValidator) fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("[VALIDATE] " + msg)
	v.problems = append(v.problems, msg)
}

func (v *stringValidator) requireValue(value string, label string) {
	if value == "" {
		v.fail("missing %s", label)
	}
}

func (v *stringValidator) requireURL(value string, label string) {
	if isValidURL(value) == false {
		v.fail("missing or invalid %s: [%s]", label, value)
	}
}

func (v *stringValidator) requireTemplate(value string, label string) {
	if strings.Contains(value, placeholderID) == false {
		v.fail("%s lacks an %s placeholder: [%s]", label, placeholderID, value)
	}
}

func (v *stringValidator) Problems() []string {
	return v.problems
}

func (v *stringValidator) Invalid() bool {
	return len(v.problems) > 0
}
