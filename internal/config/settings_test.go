package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "dust.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeSettings(t, t.TempDir(), `
[window]
width = 450
height = 350

[render]
pipeline = "deferred"
clear_color = [0.0, 0.0, 0.0, 1.0]

[scene]
texture = "poster.png"
`)

	s, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 450, s.Window.Width)
	assert.Equal(t, 350, s.Window.Height)
	assert.Equal(t, "Dust", s.Window.Title)
	assert.Equal(t, PipelineDeferred, s.Render.Pipeline)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, s.Render.ClearColor)
	assert.True(t, s.Render.FrustumCulling)
	assert.Equal(t, 24, s.Surface.DepthBits)
	assert.Equal(t, "poster.png", s.Scene.Texture)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"syntax", "[window\nwidth = 1", "failed to parse"},
		{"pipeline", "[render]\npipeline = \"raytraced\"", "unknown pipeline"},
		{"size", "[window]\nwidth = 0", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSettings(t, t.TempDir(), tt.content)
			s, err := Load(path)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		ok     bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"below minimum", func(s *Settings) { s.Window.Width = 1 }, false},
		{"zero minimum", func(s *Settings) { s.Window.MinHeight = 0 }, false},
		{"negative depth bits", func(s *Settings) { s.Surface.DepthBits = -1 }, false},
		{"clear colour above one", func(s *Settings) { s.Render.ClearColor[2] = 1.5 }, false},
		{"negative fps limit", func(s *Settings) { s.Render.FPSLimit = -5 }, false},
		{"uncapped", func(s *Settings) { s.Render.FPSLimit = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(s)
			if tt.ok {
				assert.NoError(t, s.Validate())
			} else {
				assert.Error(t, s.Validate())
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	s := Default()
	s.Render.Pipeline = PipelineDeferred
	s.Window.Title = "scene"

	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), "deferred")

	got := Default()
	require.NoError(t, Decode(data, got))
	assert.Equal(t, s, got)
}
