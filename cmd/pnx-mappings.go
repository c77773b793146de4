package main

import (
	"fmt"
	"net/url"
	"strings"
)

// functions that map grouped solr results into pnx documents

const (
	defaultRecordType = "other"
	articleType       = "article"
	gviSourceID       = "GVI"
)

type recordMapper struct {
	config *poolConfig
	tenant *tenantConfig
	client *clientContext
}

func newRecordMapper(cfg *poolConfig, tenant *tenantConfig, client *clientContext) *recordMapper {
	return &recordMapper{config: cfg, tenant: tenant, client: client}
}

// gvi ids look like "(DE-627)1234567": isil in parentheses, then the source record id
type gviIdentifier struct {
	id             string
	sourceSystem   string
	sourceRecordID string
	recordID       string
}

func splitGVIIdentifier(id string) gviIdentifier {
	g := gviIdentifier{id: id, sourceSystem: gviSourceID, sourceRecordID: id}

	if len(id) > 8 {
		g.sourceSystem = id[1:3] + id[4:7]
		g.sourceRecordID = id[8:]
	}

	g.recordID = g.sourceSystem + "_" + g.sourceRecordID

	return g
}

func sourceLabel(id string) string {
	if len(id) >= 7 {
		if label, ok := sourceLabels[id[1:7]]; ok == true {
			return label
		}
	}

	return genericSourceLabel
}

// cleanCreatorName strips authority suffixes such as " (DE-588)..." and " Verfasser..."
func cleanCreatorName(s string) string {
	for _, marker := range []string{" (DE-", " Verfasser"} {
		if i := strings.Index(s, marker); i >= 0 {
			s = s[:i]
		}
	}

	return strings.TrimSpace(s)
}

// removeNonsortCharacters drops the marc non-sorting delimiters
func removeNonsortCharacters(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\u0098' || r == '\u009c' {
			return -1
		}
		return r
	}, s)
}

// trims isbd punctuation left over at the end of subfields
func trimPunctuation(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), " :;,/="))
}

func recordType(doc solrDocument) string {
	if t := strings.ToLower(strings.TrimSpace(firstElementOf(doc.MaterialContentType))); t != "" {
		return t
	}

	return defaultRecordType
}

type marcExtract struct {
	languages    []string // repeated values are kept
	titles       []string
	title        string // "a: b", for link parameters
	creator      string
	subjects     orderedSet
	contributors []string
	isPartOf     []string
	place        string
	publisher    string
	date         string
	pages        string
	edition      string
	isbn         string
	issn         string
	descriptions []string
	coverage     string
	thumbnail    string
	fulltext     orderedSet
}

func (e *marcExtract) publisherDisplay() string {
	switch {
	case e.place != "" && e.publisher != "":
		return e.place + " : " + e.publisher
	case e.place != "":
		return e.place
	}

	return e.publisher
}

func (e *marcExtract) identifier() string {
	switch {
	case e.isbn != "" && e.issn != "":
		return e.isbn + " ISSN " + e.issn
	case e.isbn != "":
		return e.isbn
	case e.issn != "":
		return "ISSN " + e.issn
	}

	return ""
}

func (m *recordMapper) extractFields(rec *marcRecord, recType string) marcExtract {
	var e marcExtract

	// 264 supersedes 260 for publication details
	pub := rec.fields("264")
	if len(pub) == 0 {
		pub = rec.fields("260")
	}

	if len(pub) > 0 {
		if v, ok := pub[0].subfield("a"); ok == true {
			e.place = trimPunctuation(v)
		}

		if v, ok := pub[0].subfield("b"); ok == true {
			e.publisher = trimPunctuation(v)
		}

		if v, ok := pub[0].subfield("c"); ok == true {
			e.date = strings.TrimRight(strings.TrimSpace(v), " .,;")
		}
	}

	for i := range rec.DataFields {
		f := &rec.DataFields[i]

		switch f.Tag {
		case "041":
			for _, v := range f.subfields("a") {
				if v = strings.TrimSpace(v); v != "" {
					e.languages = append(e.languages, v)
				}
			}

		case "100":
			if v, ok := f.subfield("a"); ok == true && e.creator == "" {
				e.creator = cleanCreatorName(v)
			}

		case "245":
			a, ok := f.subfield("a")
			if ok == false {
				continue
			}

			a = strings.TrimSpace(removeNonsortCharacters(a))
			e.titles = append(e.titles, a)
			title := a

			if b, ok := f.subfield("b"); ok == true {
				b = strings.TrimSpace(removeNonsortCharacters(b))
				e.titles = append(e.titles, b)
				title = fmt.Sprintf("%s: %s", a, b)
			}

			if e.title == "" {
				e.title = title
			}

		case "246":
			if v, ok := f.subfield("a"); ok == true {
				e.titles = append(e.titles, strings.TrimSpace(removeNonsortCharacters(v)))
			}

		case "300":
			if v, ok := f.subfield("a"); ok == true && e.pages == "" {
				e.pages = trimPunctuation(v)
			}

		case "650", "655", "689":
			if v, ok := f.subfield("a"); ok == true && strings.TrimSpace(v) != "" {
				e.subjects.add(strings.TrimSpace(v))
			}

		case "700":
			v, ok := f.subfield("a")
			if ok == false {
				continue
			}

			if role, ok := f.subfield("e"); ok == true {
				v = fmt.Sprintf("%s (%s)", v, role)
			}

			e.contributors = append(e.contributors, v)

		case "773":
			m.extractIsPartOf(f, recType, &e)

		case "856":
			m.extractElectronicLocation(f, &e)
		}
	}

	for _, tag := range []string{"520", "502"} {
		for _, f := range rec.fields(tag) {
			if v := f.formatField(); v != "" {
				e.descriptions = append(e.descriptions, v)
			}
		}
	}

	e.coverage, _ = rec.firstFormatted("362")
	e.edition, _ = rec.firstSubfield("250", "a")
	e.isbn, _ = rec.firstSubfield("020", "a")
	e.issn, _ = rec.firstSubfield("022", "a")

	return e
}

func (m *recordMapper) extractIsPartOf(f *marcDataField, recType string, e *marcExtract) {
	rel, _ := f.subfield("i")

	if recType != articleType && strings.TrimSpace(rel) != "In" {
		return
	}

	var parts []string

	for _, sf := range f.SubFields {
		v := strings.TrimSpace(sf.Value)
		if v == "" {
			continue
		}

		switch sf.Code {
		case "i", "w":
			// relationship and record control numbers are not displayed
			continue

		case "g":
			if strings.HasPrefix(v, "pages:") == true {
				e.pages = strings.TrimSpace(strings.TrimPrefix(v, "pages:"))
				continue
			}
		}

		parts = append(parts, v)
	}

	if len(parts) > 0 {
		e.isPartOf = append(e.isPartOf, strings.Join(parts, ", "))
	}
}

func (m *recordMapper) extractElectronicLocation(f *marcDataField, e *marcExtract) {
	target, ok := f.subfield("u")
	if ok == false || strings.TrimSpace(target) == "" {
		return
	}

	target = strings.TrimSpace(target)

	mime, _ := f.subfield("q")
	material, hasMaterial := f.subfield("3")

	if mime == "image/gif" && strings.Contains(material, "Katalogkarte") == true {
		if e.thumbnail == "" {
			e.thumbnail = renderLink(target, "")
		}
		return
	}

	note, _ := f.subfield("z")
	if note == "" {
		note, _ = f.subfield("x")
	}

	if strings.TrimSpace(note) != "kostenfrei" {
		return
	}

	label := strings.TrimSpace(material)
	if hasMaterial == false || label == "" {
		label = m.client.localize(msgFullText)
	}

	e.fulltext.add(renderLink(target, label))
}

func (m *recordMapper) remark(g gviIdentifier, e *marcExtract) string {
	remark := fmt.Sprintf("GVI %s %s", sourceLabel(g.id), g.id)

	if len(e.isPartOf) > 0 {
		remark = remark + " In: " + strings.Join(e.isPartOf, "; ")
	}

	return remark
}

func (m *recordMapper) debugLink(set *orderedSet, count int) string {
	label := fmt.Sprintf("%s: %d records; institutions: %s", m.client.localize(msgDebug), count, strings.Join(set.sorted(), " "))
	return renderLink("#", label)
}

// transformGroup converts the primary record of a group into a pnx document.
// marc problems only affect the fields they would have produced.
func (m *recordMapper) transformGroup(group solrGroup) pnxDocument {
	doc := group.DocList.Docs[0]

	g := splitGVIIdentifier(doc.ID)
	recType := recordType(doc)
	label := sourceLabel(doc.ID)

	rec, err := parseMarcXML(doc.FullRecord)
	if err != nil {
		m.client.err("record %s: %s", doc.ID, err.Error())
		rec = &marcRecord{}
	}

	e := m.extractFields(rec, recType)

	var out pnxDocument

	out.PNX.Control = pnxControl{
		SourceID:       []string{gviSourceID},
		RecordID:       []string{g.recordID},
		SourceRecordID: []string{g.sourceRecordID},
		SourceSystem:   []string{g.sourceSystem},
	}

	d := &out.PNX.Display

	d.Type = []string{recType}
	d.Source = []string{label}
	d.Language = e.languages
	if len(d.Language) == 0 {
		d.Language = nonemptyValues(doc.Language)
	}
	d.Title = nonemptyValues(e.titles)
	d.Subject = e.subjects.values
	d.Contributor = e.contributors
	d.IsPartOf = e.isPartOf
	d.Description = e.descriptions
	d.Creator = optionalValue(e.creator)
	d.Publisher = optionalValue(e.publisherDisplay())
	d.CreationDate = optionalValue(e.date)
	d.Identifier = optionalValue(e.identifier())
	d.Coverage = optionalValue(e.coverage)
	d.Edition = optionalValue(e.edition)

	out.PNX.Delivery = pnxDelivery{
		Fulltext:    []string{deliveryNoFulltext},
		DelCategory: []string{m.tenant.DelCategory},
	}

	if e.fulltext.len() > 0 {
		out.PNX.Delivery.Fulltext = []string{deliveryFulltext}
	}

	ill := illParams{
		title:     e.title,
		author:    e.creator,
		place:     e.place,
		publisher: e.publisher,
		date:      e.date,
		edition:   e.edition,
		isbn:      e.isbn,
		issn:      e.issn,
		pages:     e.pages,
		remark:    m.remark(g, &e),
		article:   recType == articleType,
	}

	acq := acquisitionParams{
		title:     e.title,
		author:    e.creator,
		place:     e.place,
		publisher: e.publisher,
		date:      e.date,
		edition:   e.edition,
		isbn:      e.isbn,
	}

	ourl := openURLParams{
		title:   e.title,
		author:  e.creator,
		date:    e.date,
		edition: e.edition,
		isbn:    e.isbn,
		issn:    e.issn,
	}

	l := &out.PNX.Links

	for _, t := range m.tenant.LinkTemplates {
		target := fillTemplate(t.Template, map[string]string{
			placeholderID:    doc.ID,
			placeholderTitle: e.title,
			placeholderISBN:  e.isbn,
		})

		if target != "" {
			l.LinkToRsrc = append(l.LinkToRsrc, renderLink(target, t.Label))
		}
	}

	for _, base := range m.tenant.OpenURLs {
		if base.Template == "" {
			continue
		}

		l.LinkToRsrc = append(l.LinkToRsrc, renderLink(withQuery(base.Template, ourl.values()), base.Label))
	}

	l.LinkToRsrc = append(l.LinkToRsrc, e.fulltext.values...)

	institutions := groupInstitutions(group, m.config.Consortium.ID)

	l.LinkToRsrc = append(l.LinkToRsrc, m.institutionLinks(institutions, ill, acq)...)

	if m.tenant.Debug == true {
		count := group.DocList.NumFound
		if count == 0 {
			count = len(group.DocList.Docs)
		}

		l.LinkToRsrc = append(l.LinkToRsrc, m.debugLink(institutions, count))
	}

	if e.thumbnail != "" {
		l.Thumbnail = []string{e.thumbnail}
	}

	bl := m.config.URLTemplates.Backlink
	if target := fillTemplate(bl.Template, map[string]string{placeholderID: doc.ID}); target != "" {
		l.Backlink = []string{renderLink(target, bl.Label)}
	}

	l.OpenURL = []string{url.Values{"rft_id": []string{"info:gviid/" + doc.ID}}.Encode()}

	return out
}

func optionalValue(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}

	return []string{s}
}
