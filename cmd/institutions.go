package main

import "strings"

// groupInstitutions aggregates consortium codes, institution ids and record ids
// across all records of a group.  the set stays empty unless some record
// belongs to the designated consortium.
func groupInstitutions(group solrGroup, consortiumID string) *orderedSet {
	set := &orderedSet{}

	member := false

	for _, doc := range group.DocList.Docs {
		if sliceContainsString(doc.Consortium, consortiumID, false) == true {
			member = true
			break
		}
	}

	if member == false {
		return set
	}

	for _, doc := range group.DocList.Docs {
		for _, c := range doc.Consortium {
			set.add(c)
		}

		for _, i := range doc.InstitutionID {
			set.add(i)
		}

		if doc.ID != "" {
			set.add(doc.ID)
		}
	}

	return set
}

// consortiumRecordID returns the id of the group's consortium record, if any
func consortiumRecordID(set *orderedSet, consortiumID, recordPrefix string) (string, bool) {
	if set.contains(consortiumID) == false {
		return "", false
	}

	for _, val := range set.values {
		if strings.HasPrefix(val, recordPrefix) == false {
			continue
		}

		if id := strings.TrimPrefix(val, recordPrefix); id != "" {
			return id, true
		}
	}

	return "", false
}

// institutionLinks decides between local catalogue links, a regional holdings link,
// and loan/acquisition request links
func (m *recordMapper) institutionLinks(set *orderedSet, ill illParams, acq acquisitionParams) []string {
	var links []string

	cfg := m.config

	localMatch := false

	recordID, found := consortiumRecordID(set, cfg.Consortium.ID, cfg.Consortium.RecordPrefix)

	if found == true {
		for _, inst := range m.tenant.Institutions {
			if set.contains(inst.ID) == false {
				continue
			}

			target := fillTemplate(cfg.URLTemplates.LocalSearch.Template, map[string]string{
				placeholderID:          recordID,
				placeholderInstitution: inst.ID,
			})

			if target == "" {
				continue
			}

			links = append(links, renderLink(target, inst.Label))
			localMatch = true
		}

		if localMatch == false {
			target := fillTemplate(cfg.URLTemplates.RegionalHoldings.Template, map[string]string{
				placeholderID: recordID,
			})

			if target != "" {
				label := cfg.URLTemplates.RegionalHoldings.Label
				if label == "" {
					label = m.client.localize(msgRegionalHoldings)
				}

				links = append(links, renderLink(target, label))
			}
		}
	}

	if localMatch == true || m.tenant.knowsInstitution(cfg.Consortium.HomeLibrary) == false {
		return links
	}

	if t := m.tenant.ILL; t != nil && t.Template != "" {
		links = append(links, renderLink(withQuery(t.Template, ill.values()), t.Label))
	}

	if t := m.tenant.Acquisition; t != nil && t.Template != "" {
		links = append(links, renderLink(withQuery(t.Template, acq.values()), t.Label))
	}

	return links
}
