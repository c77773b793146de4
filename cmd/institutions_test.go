package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consortiumGroup() solrGroup {
	return solrGroup{
		GroupValue: "k",
		DocList: solrDocList{
			NumFound: 2,
			Docs: []solrDocument{
				{ID: "(DE-627)1", Consortium: []string{"DE-627"}, InstitutionID: []string{"DE-188"}},
				{ID: "(DE-602)KOBV123", Consortium: []string{"DE-602"}, InstitutionID: []string{"DE-83"}},
			},
		},
	}
}

func TestGroupInstitutions(t *testing.T) {
	set := groupInstitutions(consortiumGroup(), "DE-602")

	assert.Equal(t, []string{"DE-627", "DE-188", "(DE-627)1", "DE-602", "DE-83", "(DE-602)KOBV123"}, set.values)

	empty := groupInstitutions(singleDocGroup(solrDocument{ID: "(DE-627)1", Consortium: []string{"DE-627"}, InstitutionID: []string{"DE-188"}}), "DE-602")
	assert.Equal(t, 0, empty.len())
}

func TestConsortiumRecordID(t *testing.T) {
	set := groupInstitutions(consortiumGroup(), "DE-602")

	id, ok := consortiumRecordID(set, "DE-602", "(DE-602)")
	assert.True(t, ok)
	assert.Equal(t, "KOBV123", id)

	set = &orderedSet{}
	set.add("DE-602")
	set.add("DE-83")

	_, ok = consortiumRecordID(set, "DE-602", "(DE-602)")
	assert.False(t, ok)
}

func TestInstitutionLinksRegionalHoldings(t *testing.T) {
	p := newTestPool(t, "http://solr.example.org/solr/gvi")

	// known institution DE-188 is not among the consortium holdings here
	group := consortiumGroup()
	group.DocList.Docs = group.DocList.Docs[1:]

	m := newRecordMapper(p.config, testTenant(t, p, "secret-fu"), newTestClient(p, "en"))

	links := m.institutionLinks(groupInstitutions(group, "DE-602"), illParams{}, acquisitionParams{})

	require.Len(t, links, 1)
	assert.Equal(t, "$$Uhttps://portal.kobv.de/uid.do?query=KOBV123&plv=2$$DHoldings in the region", links[0])
}

func TestInstitutionLinksLocalCatalogue(t *testing.T) {
	p := newTestPool(t, "http://solr.example.org/solr/gvi")

	tenant := *testTenant(t, p, "secret-home")
	tenant.Institutions = append(tenant.Institutions, tenantInstitution{ID: "DE-83", Label: "TU Berlin"})

	m := newRecordMapper(p.config, &tenant, newTestClient(p, "de"))

	links := m.institutionLinks(groupInstitutions(consortiumGroup(), "DE-602"), illParams{title: "x"}, acquisitionParams{title: "x"})

	// a local match suppresses both the regional holdings and the loan links
	require.Len(t, links, 1)
	assert.Equal(t, "$$Uhttps://portal.kobv.de/uid.do?query=KOBV123&plv=2&library=DE-83$$DTU Berlin", links[0])
}

func TestInstitutionLinksHomeLibraryWithoutConsortium(t *testing.T) {
	p := newTestPool(t, "http://solr.example.org/solr/gvi")
	m := newRecordMapper(p.config, testTenant(t, p, "secret-home"), newTestClient(p, "de"))

	links := m.institutionLinks(&orderedSet{}, illParams{title: "Haus"}, acquisitionParams{title: "Haus"})

	require.Len(t, links, 2)
	assert.Equal(t, "$$Uhttps://ill.example.org/order?title=Haus$$DFernleihe", links[0])
	assert.Equal(t, "$$Uhttps://acq.example.org/suggest?src=gvi&title=Haus$$DAnschaffungsvorschlag", links[1])
}

func TestInstitutionLinksRegionalAndLoan(t *testing.T) {
	p := newTestPool(t, "http://solr.example.org/solr/gvi")

	tenant := *testTenant(t, p, "secret-home")
	tenant.Acquisition = nil

	m := newRecordMapper(p.config, &tenant, newTestClient(p, "de"))

	links := m.institutionLinks(groupInstitutions(consortiumGroup(), "DE-602"), illParams{title: "Haus"}, acquisitionParams{})

	require.Len(t, links, 2)
	assert.Equal(t, "$$Uhttps://portal.kobv.de/uid.do?query=KOBV123&plv=2$$DBestand in der Region", links[0])
	assert.Equal(t, "$$Uhttps://ill.example.org/order?title=Haus$$DFernleihe", links[1])
}

func TestInstitutionLinksNothingApplies(t *testing.T) {
	p := newTestPool(t, "http://solr.example.org/solr/gvi")
	m := newRecordMapper(p.config, testTenant(t, p, "secret-fu"), newTestClient(p, "en"))

	assert.Empty(t, m.institutionLinks(&orderedSet{}, illParams{}, acquisitionParams{}))
}
