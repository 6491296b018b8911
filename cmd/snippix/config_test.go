package main

import (
	"image/color"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/bodgit/snippix/art"
	"github.com/bodgit/snippix/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	file := filepath.Join(t.TempDir(), name)
	require.Nil(t, ioutil.WriteFile(file, []byte(body), 0644))
	return file
}

func TestDefaults(t *testing.T) {
	v, err := newViper("")
	require.Nil(t, err)

	s := newSettings(v)
	assert.Equal(t, art.DefaultWidth, s.Width)
	assert.Equal(t, art.DefaultHeight, s.Height)
	assert.Equal(t, art.DefaultPixelSize, s.PixelSize)
	assert.Equal(t, palette.Default().Name, s.Palette)
	assert.Zero(t, s.Workers)

	cfg, err := s.artConfig()
	require.Nil(t, err)
	assert.Equal(t, art.DefaultConfig(), cfg)
}

func TestConfigFile(t *testing.T) {
	file := writeConfig(t, "snippix.yaml", `width: 320
height: 240
pixel-size: 8
palette: Mono
workers: 4
palettes:
  mono:
    - "#fff"
    - "#000000"
`)

	v, err := newViper(file)
	require.Nil(t, err)

	s := newSettings(v)
	assert.Equal(t, 320, s.Width)
	assert.Equal(t, 240, s.Height)
	assert.Equal(t, 8, s.PixelSize)
	assert.Equal(t, 4, s.Workers)

	cfg, err := s.artConfig()
	require.Nil(t, err)
	assert.Equal(t, color.Palette{
		color.NRGBA{0xff, 0xff, 0xff, 0xff},
		color.NRGBA{0x00, 0x00, 0x00, 0xff},
	}, cfg.Colors)

	custom := s.customPalettes()
	require.Len(t, custom, 1)
	assert.Equal(t, "mono", custom[0].Name)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	file := writeConfig(t, "snippix.json", `{"width": 320, "pixel-size": 8}`)
	t.Setenv("SNIPPIX_WIDTH", "480")
	t.Setenv("SNIPPIX_PIXEL_SIZE", "16")

	v, err := newViper(file)
	require.Nil(t, err)

	s := newSettings(v)
	assert.Equal(t, 480, s.Width)
	assert.Equal(t, 16, s.PixelSize)
}

func TestFlagsOverrideEverything(t *testing.T) {
	file := writeConfig(t, "snippix.toml", "palette = \"Neon\"\n")
	t.Setenv("SNIPPIX_PALETTE", "Pastel")

	v, err := newViper(file)
	require.Nil(t, err)

	// What applyFlags does for an explicit --palette
	v.Set(keyPalette, "vaporwave")

	s := newSettings(v)
	cp, err := s.colors()
	require.Nil(t, err)

	want, err := palette.ByName("Vaporwave").Parse()
	require.Nil(t, err)
	assert.Equal(t, want, cp)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := newViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSettingsErrors(t *testing.T) {
	tables := []struct {
		name string
		s    settings
		err  error
	}{
		{
			"unknown palette",
			settings{Width: 10, Height: 10, PixelSize: 2, Palette: "nope"},
			nil,
		},
		{
			"bad custom color",
			settings{Width: 10, Height: 10, PixelSize: 2, Palette: "bad", Palettes: map[string][]string{"bad": {"#zzz", "#000"}}},
			palette.ErrInvalidHex,
		},
		{
			"single color",
			settings{Width: 10, Height: 10, PixelSize: 2, Palette: "one", Palettes: map[string][]string{"one": {"#000"}}},
			palette.ErrTooFewColors,
		},
		{
			"zero pixel size",
			settings{Width: 10, Height: 10, Palette: "Cyber"},
			art.ErrInvalidConfig,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := table.s.artConfig()
			require.Error(t, err)
			if table.err != nil {
				assert.ErrorIs(t, err, table.err)
			}
		})
	}
}
