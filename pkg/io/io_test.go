package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layerdefs/pkg/analysis"
	"github.com/matzehuels/layerdefs/pkg/errors"
)

func fixture(t *testing.T) *Map {
	t.Helper()
	m, err := Import(filepath.Join("testdata", "map.json"))
	require.NoError(t, err)
	return m
}

func encodeJSON(t *testing.T, m *Map) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(m, &buf, FormatJSON))
	return buf.String()
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"map.json", FormatJSON},
		{"dir/map.TOML", FormatTOML},
		{"map.yaml", FormatYAML},
		{"map.yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("map.xml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
	_, err = FormatFromPath("")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestBuild(t *testing.T) {
	c, err := fixture(t).Build()
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.CountDataLayers())
	assert.Equal(t, 4, c.Graph().Len())

	stores, ok := c.Get("stores")
	require.True(t, ok)
	assert.Equal(t, "a", stores.Letter())
	assert.Equal(t, "SELECT * FROM stores", stores.SQL())
	assert.Equal(t, "#layer { marker-fill: #FABADA; }", stores.CartoCSS())
	require.NotNil(t, stores.Style())
	assert.Equal(t, "simple", stores.Style().Type())
	require.NotNil(t, stores.Infowindow())

	parks, _ := c.Get("parks")
	assert.Equal(t, []string{"parks"}, layerIDs(c.DependentLayers(stores)))
	assert.Empty(t, c.DependentLayers(parks))
	assert.False(t, c.CanBeDeletedByUser(stores), "every other data layer depends on stores")
	assert.True(t, c.CanBeDeletedByUser(parks))

	base, _ := c.Get("base")
	assert.Empty(t, base.Letter())
}

func TestNormalizedValues(t *testing.T) {
	m := fixture(t)
	c, err := m.Build()
	require.NoError(t, err)

	n, ok := c.Graph().Node("a1")
	require.True(t, ok)
	assert.Equal(t, 300.0, n.Params["radius"])

	stores, _ := c.Get("stores")
	fields := stores.Infowindow().ToMap()["fields"]
	require.IsType(t, []any{}, fields)
	assert.Equal(t, map[string]any{"name": "name", "position": 0.0}, fields.([]any)[0])
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			c, err := fixture(t).Build()
			require.NoError(t, err)
			want := FromCollection(c)

			var buf bytes.Buffer
			require.NoError(t, Write(want, &buf, f))
			back, err := Read(&buf, f)
			require.NoError(t, err)

			c2, err := back.Build()
			require.NoError(t, err)
			assert.JSONEq(t, encodeJSON(t, want), encodeJSON(t, FromCollection(c2)))
		})
	}
}

func TestExportImportFile(t *testing.T) {
	c, err := fixture(t).Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, Export(FromCollection(c), path))

	m, err := Import(path)
	require.NoError(t, err)
	assert.Len(t, m.Layers, 3)
	assert.Equal(t, "a", m.Layers[0].Letter)
}

func TestFromCollectionKeepsLetters(t *testing.T) {
	c, err := fixture(t).Build()
	require.NoError(t, err)

	m := FromCollection(c)
	assert.Equal(t, "a", m.Layers[0].Letter)
	assert.Equal(t, "b", m.Layers[1].Letter)
	assert.Empty(t, m.Layers[2].Letter)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(encodeJSON(t, m)), &raw))
	first := raw["layers"].([]any)[0].(map[string]any)
	assert.NotContains(t, first["options"], "autoStyle")
	assert.Contains(t, first["options"], "tile_style")
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("{"), FormatJSON)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = Read(strings.NewReader(""), "ini")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))

	_, err = Import(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestBuildErrors(t *testing.T) {
	t.Run("duplicate analysis", func(t *testing.T) {
		m := &Map{Analyses: []Analysis{{ID: "a0", Type: "source"}, {ID: "a0", Type: "source"}}}
		_, err := m.Build()
		assert.ErrorIs(t, err, analysis.ErrDuplicateNodeID)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	})

	t.Run("dangling source", func(t *testing.T) {
		m := &Map{Analyses: []Analysis{{ID: "a1", Type: "buffer", Source: "a0"}}}
		_, err := m.Build()
		assert.ErrorIs(t, err, analysis.ErrUnknownSource)
		assert.True(t, errors.Is(err, errors.ErrCodeNodeNotFound), "got %v", err)
	})

	t.Run("malformed letter", func(t *testing.T) {
		m := fixture(t)
		m.Layers[0].Letter = "AB"
		_, err := m.Build()
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	})

	t.Run("duplicate layer", func(t *testing.T) {
		m := fixture(t)
		m.Layers = append(m.Layers, m.Layers[0])
		_, err := m.Build()
		assert.Error(t, err)
	})
}

func TestLint(t *testing.T) {
	assert.Empty(t, fixture(t).Lint())

	m := &Map{Analyses: []Analysis{{ID: "a0", Type: "source"}, {ID: "roads", Type: "source"}}}
	errs := m.Lint()
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], errors.ErrCodeInvalidNodeID))
	assert.Contains(t, errs[0].Error(), "roads")
}

func TestReadTOML(t *testing.T) {
	src := `
[[analyses]]
id = "a0"
type = "source"

[[layers]]
id = "l1"
kind = "carto"

[layers.options]
table_name = "foo"
sql_history = ["SELECT 1"]

[[layers.infowindow.fields]]
name = "name"
position = 1
`
	m, err := Read(strings.NewReader(src), FormatTOML)
	require.NoError(t, err)
	require.Len(t, m.Layers, 1)

	doc := m.Layers[0]
	assert.Equal(t, []any{"SELECT 1"}, doc.Options["sql_history"])
	assert.Equal(t, []any{map[string]any{"name": "name", "position": 1.0}}, doc.Infowindow["fields"])
}

func layerIDs[T interface{ ID() string }](ls []T) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID()
	}
	return out
}

func TestExampleMaps(t *testing.T) {
	for _, name := range []string{"stores.json", "stores.toml"} {
		t.Run(name, func(t *testing.T) {
			m, err := Import(filepath.Join("..", "..", "examples", "maps", name))
			require.NoError(t, err)
			c, err := m.Build()
			require.NoError(t, err)

			stores, ok := c.LayerByLetter("a")
			require.True(t, ok)
			assert.Equal(t, "stores", stores.ID())
			assert.NotEmpty(t, c.DependentLayers(stores))
		})
	}
}
