package main

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
)

type marcSubField struct {
	XMLName xml.Name `xml:"subfield"`
	Code    string   `xml:"code,attr"`
	Value   string   `xml:",chardata"`
}

type marcControlField struct {
	XMLName xml.Name `xml:"controlfield"`
	Tag     string   `xml:"tag,attr"`
	Value   string   `xml:",chardata"`
}

type marcDataField struct {
	XMLName   xml.Name       `xml:"datafield"`
	Tag       string         `xml:"tag,attr"`
	Ind1      string         `xml:"ind1,attr"`
	Ind2      string         `xml:"ind2,attr"`
	SubFields []marcSubField `xml:"subfield"`
}

type marcRecord struct {
	XMLName       xml.Name           `xml:"record"`
	Leader        string             `xml:"leader"`
	ControlFields []marcControlField `xml:"controlfield"`
	DataFields    []marcDataField    `xml:"datafield"`
}

type marcCollection struct {
	XMLName xml.Name     `xml:"collection"`
	Record  []marcRecord `xml:"record"`
}

var errNoMarcRecord = errors.New("no MARC record found")

// parseMarcXML accepts either a <collection> wrapper or a bare <record>,
// returning the first record found
func parseMarcXML(marcXML string) (*marcRecord, error) {
	s := strings.TrimSpace(marcXML)

	if s == "" {
		return nil, errNoMarcRecord
	}

	// namespaces (marc:record etc.) are ignored by the local-name matching below
	dec := xml.NewDecoder(strings.NewReader(s))

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("MARC XML parsing error: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if ok == false {
			continue
		}

		switch start.Name.Local {
		case "collection":
			var c marcCollection
			if err := dec.DecodeElement(&c, &start); err != nil {
				return nil, fmt.Errorf("MARC XML parsing error: %w", err)
			}

			if len(c.Record) == 0 {
				return nil, errNoMarcRecord
			}

			return &c.Record[0], nil

		case "record":
			var r marcRecord
			if err := dec.DecodeElement(&r, &start); err != nil {
				return nil, fmt.Errorf("MARC XML parsing error: %w", err)
			}

			return &r, nil
		}
	}
}

// subfield returns the first value for the given code, if present
func (f *marcDataField) subfield(code string) (string, bool) {
	for _, sf := range f.SubFields {
		if sf.Code == code {
			return sf.Value, true
		}
	}

	return "", false
}

// subfields returns all values for the given code, in field order
func (f *marcDataField) subfields(code string) []string {
	var values []string

	for _, sf := range f.SubFields {
		if sf.Code == code {
			values = append(values, sf.Value)
		}
	}

	return values
}

// formatField renders the subfield values as display text
func (f *marcDataField) formatField(skip ...string) string {
	var parts []string

	for _, sf := range f.SubFields {
		if sliceContainsString(skip, sf.Code, false) == true {
			continue
		}

		if v := strings.TrimSpace(sf.Value); v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, " ")
}

func (r *marcRecord) fields(tags ...string) []*marcDataField {
	var res []*marcDataField

	for i := range r.DataFields {
		df := &r.DataFields[i]
		if sliceContainsString(tags, df.Tag, false) == true {
			res = append(res, df)
		}
	}

	return res
}

// firstSubfield returns the first value of code in the first field with tag that has it
func (r *marcRecord) firstSubfield(tag, code string) (string, bool) {
	for _, df := range r.fields(tag) {
		if v, ok := df.subfield(code); ok == true && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}

	return "", false
}

// firstFormatted returns the formatted text of the first field with tag
func (r *marcRecord) firstFormatted(tag string) (string, bool) {
	for _, df := range r.fields(tag) {
		if v := df.formatField(); v != "" {
			return v, true
		}
	}

	return "", false
}
