package export_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/export"
	"github.com/chazu/shapekit/pkg/shapes"
	"github.com/chazu/shapekit/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scene(t *testing.T, build func(f *shapes.Factory)) *tessellate.Scene {
	t.Helper()
	coll := actor.NewCollection()
	build(shapes.New(coll))
	s, err := tessellate.Tessellate(coll)
	require.NoError(t, err)
	return s
}

func TestWriteJSON(t *testing.T) {
	s := scene(t, func(f *shapes.Factory) {
		_, err := f.Cube(v3.Vec{}, shapes.CubeParams{})
		require.NoError(t, err)
		_, err = f.Text("note", shapes.Screen{X: 5, Y: 5}, shapes.TextParams{})
		require.NoError(t, err)
	})

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, s, true))

	var doc struct {
		Version int `json:"version"`
		Meshes  []struct {
			Name     string    `json:"name"`
			Vertices []float64 `json:"vertices"`
			Indices  []int     `json:"indices"`
			Color    string    `json:"color"`
			Texture  string    `json:"texture"`
		} `json:"meshes"`
		Labels []struct {
			Text string `json:"text"`
		} `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, export.FormatVersion, doc.Version)
	require.Len(t, doc.Meshes, 1)
	assert.Equal(t, "Cube", doc.Meshes[0].Name)
	assert.Len(t, doc.Meshes[0].Vertices, 24*3)
	assert.Len(t, doc.Meshes[0].Indices, 36)
	assert.Equal(t, "#008000", doc.Meshes[0].Color)
	assert.Empty(t, doc.Meshes[0].Texture)
	require.Len(t, doc.Labels, 1)
	assert.Equal(t, "note", doc.Labels[0].Text)
}

func TestTextureInlined(t *testing.T) {
	a := actor.New("Latex", nil)
	a.Texture = image.NewNRGBA(image.Rect(0, 0, 4, 2))
	coll := actor.NewCollection()
	coll.Add(a)
	s, err := tessellate.Tessellate(coll)
	require.NoError(t, err)

	doc, err := export.NewDocument(s)
	require.NoError(t, err)
	require.Len(t, doc.Meshes, 1)
	assert.True(t, strings.HasPrefix(doc.Meshes[0].Texture, "data:image/png;base64,"))
}

func TestEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, nil, false))
	assert.JSONEq(t, `{"version":1,"meshes":[],"labels":[]}`, buf.String())
}

func TestSaveSTL(t *testing.T) {
	s := scene(t, func(f *shapes.Factory) {
		_, err := f.Cube(v3.Vec{X: 3}, shapes.CubeParams{Side: 2})
		require.NoError(t, err)
		_, err = f.Line(shapes.Segment(v3.Vec{}, v3.Vec{X: 1}), shapes.LineParams{})
		require.NoError(t, err)
	})

	path := filepath.Join(t.TempDir(), "cube.stl")
	n, err := export.SaveSTL(path, s)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 84+50*12)
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(data[80:84]))

	tris := export.Triangles(s)
	require.Len(t, tris, 12)
	for _, tri := range tris {
		for _, p := range tri {
			assert.InDelta(t, 3, p.X, 1+1e-5)
		}
	}
}

func TestSaveSTLEmpty(t *testing.T) {
	s := scene(t, func(f *shapes.Factory) {
		_, err := f.Line(shapes.Segment(v3.Vec{}, v3.Vec{X: 1}), shapes.LineParams{})
		require.NoError(t, err)
	})
	_, err := export.SaveSTL(filepath.Join(t.TempDir(), "none.stl"), s)
	if !errors.Is(err, export.ErrNoTriangles) {
		t.Fatalf("err = %v, want ErrNoTriangles", err)
	}
}
