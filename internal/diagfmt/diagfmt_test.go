package diagfmt

import (
	"bytes"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelgraph/internal/decl"
	"modelgraph/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.ModelIncomplete, "p.Order", "type p.Missing is not part of the program model").
		WithChain([]decl.Ref{{ID: "p.Root", Member: "order"}, {ID: "p.Order", Member: "item"}}))
	bag.Add(diag.New(diag.SevWarning, diag.ModelForcedInclusion, "p.Secret", "excluded type included by p.Root.secret"))
	bag.Add(diag.New(diag.SevInfo, diag.ModelSourceMissing, "p.Gen", "no source position"))
	return bag
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleBag(), JSONOpts{IncludeChain: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	require.Equal(t, 3, out.Count)
	require.Len(t, out.Diagnostics, 3)

	first := out.Diagnostics[0]
	assert.Equal(t, "ERROR", first.Severity)
	assert.Equal(t, "ERR4002", first.Code)
	assert.Equal(t, "p.Order", first.Subject)
	assert.Equal(t, []RefJSON{{Type: "p.Root", Member: "order"}, {Type: "p.Order", Member: "item"}}, first.Chain)
	assert.Zero(t, out.Dropped)
}

func TestJSONMaxAndChain(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleBag(), JSONOpts{Max: 1})
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 2, out.Dropped)
	assert.Nil(t, out.Diagnostics[0].Chain)

	empty := BuildDiagnosticsOutput(nil, JSONOpts{})
	assert.NotNil(t, empty.Diagnostics)
	assert.Zero(t, empty.Count)
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Sarif(&buf, sampleBag(), SarifRunMeta{
		ToolName:       "modelgraph",
		ToolVersion:    "1.0.0",
		InvocationArgs: []string{"scan", "./..."},
	}))

	var doc sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc), buf.String())
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "modelgraph", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 3)
	assert.Equal(t, "ERR4002", run.Tool.Driver.Rules[0].ID)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "error", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Equal(t, "note", run.Results[2].Level)
	assert.Equal(t, "p.Secret", run.Results[1].Locations[0].LogicalLocations[0].FullyQualifiedName)

	require.Len(t, run.Invocations, 1)
	assert.False(t, run.Invocations[0].ExecutionSuccessful)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "pretty": FormatPretty, "json": FormatJSON, "sarif": FormatSarif} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}
