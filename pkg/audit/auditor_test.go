package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const auditOSM = `<osm>
  <node id="1" lat="31.2" lon="121.4">
    <tag k="addr:street" v="North Lincoln Rd."/>
    <tag k="contact:phone" v="+86 21 6888 8888"/>
    <tag k="addr:postcode" v="2000"/>
  </node>
  <node id="2" lat="31.2" lon="121.4">
    <tag k="addr:street" v="Huaihai Road"/>
    <tag k="addr:street" v="Fuxing Rd."/>
    <tag k="addr:city" v="Beijing"/>
    <tag v="no key"/>
  </node>
  <way id="3">
    <nd ref="1"/>
    <tag k="addr:street" v="Xinzha lu"/>
    <tag k="addr:postcode" v="200031"/>
    <tag k="addr:city" v="上海"/>
  </way>
  <relation id="4">
    <tag k="addr:street" v="Ignored St"/>
  </relation>
</osm>`

func runAudit(t *testing.T) (*Auditor, *Findings) {
	t.Helper()
	a := NewAuditor(cleaner.DefaultConfig())
	f, err := a.Audit(context.Background(), geo.NewXMLScanner(strings.NewReader(auditOSM)))
	require.NoError(t, err)
	return a, f
}

func TestAudit(t *testing.T) {
	_, f := runAudit(t)

	assert.Equal(t, 3, f.Elements)
	assert.Equal(t, 1, f.MalformedTags)

	t.Run("unexpected street types", func(t *testing.T) {
		assert.Equal(t, map[string]map[string]struct{}{
			"Rd.": {"North Lincoln Rd.": {}, "Fuxing Rd.": {}},
			"lu":  {"Xinzha lu": {}},
		}, f.StreetTypes)
	})

	t.Run("phones", func(t *testing.T) {
		assert.Equal(t, map[string]string{"+86 21 6888 8888": "62168888888"}, f.Phones)
	})

	t.Run("postcodes and cities", func(t *testing.T) {
		assert.Equal(t, map[string]int{"2000": 1}, f.InvalidPostcodes)
		assert.Equal(t, map[string]int{"Beijing": 1}, f.NotInRegion)
	})
}

func TestWriteReport(t *testing.T) {
	a, f := runAudit(t)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, f, a.Normalizer()))
	out := buf.String()

	assert.Contains(t, out, "North Lincoln Rd. => North Lincoln Road\n")
	assert.Contains(t, out, "Xinzha lu => Xinzha Road\n")
	assert.Contains(t, out, "+86 21 6888 8888 => 62168888888\n")
	assert.Contains(t, out, "2000 (1)\n")
	assert.Contains(t, out, `"Beijing" (1)`)
}

func TestSuggestCorrections(t *testing.T) {
	f := NewFindings()
	f.StreetTypes["Rd."] = map[string]struct{}{"Fuxing Rd.": {}}
	f.StreetTypes["Blvd"] = map[string]struct{}{"Century Blvd": {}}

	table := cleaner.CorrectionTable{{From: "Rd.", To: "Road"}}

	var buf bytes.Buffer
	require.NoError(t, SuggestCorrections(&buf, f, table))

	var got suggestion
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []cleaner.Correction{{From: "Rd.", To: "Road"}, {From: "Blvd"}}, got.Corrections)
}

func TestSurvey(t *testing.T) {
	s, err := RunSurvey(geo.NewXMLScanner(strings.NewReader(auditOSM)))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Tags["node"])
	assert.Equal(t, 1, s.Tags["way"])
	assert.Equal(t, 1, s.Tags["relation"])
	assert.Equal(t, 1, s.Tags["nd"])
	assert.Equal(t, 11, s.Tags["tag"])
	assert.Equal(t, 5, s.Keys["addr:street"])
	assert.Equal(t, 2, s.Keys["addr:postcode"])

	var buf bytes.Buffer
	require.NoError(t, WriteSurvey(&buf, s))
	assert.True(t, strings.HasPrefix(buf.String(), "==========Different TAGs"))
	assert.Contains(t, buf.String(), "tag: 11\n")
}

func TestSurveyXML(t *testing.T) {
	s, err := SurveyXML(strings.NewReader(auditOSM))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Tags["osm"])
	assert.Equal(t, 2, s.Tags["node"])
	assert.Equal(t, 11, s.Tags["tag"])
	assert.Equal(t, 5, s.Keys["addr:street"])

	t.Run("nested elements", func(t *testing.T) {
		s, err := SurveyXML(strings.NewReader(`<osm><note><meta><tag k="x" v="1"/></meta></note></osm>`))
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"osm": 1, "note": 1, "meta": 1, "tag": 1}, s.Tags)
		assert.Equal(t, map[string]int{"x": 1}, s.Keys)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := SurveyXML(strings.NewReader(`<osm><node id="1">`))
		assert.Error(t, err)
	})
}
