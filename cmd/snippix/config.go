package main

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/bodgit/snippix/art"
	"github.com/bodgit/snippix/palette"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const envPrefix = "SNIPPIX"

// Keys shared by the config file, the environment and the command line
const (
	keyWidth     = "width"
	keyHeight    = "height"
	keyPixelSize = "pixel-size"
	keyPalette   = "palette"
	keyPalettes  = "palettes"
	keyWorkers   = "workers"
)

type settings struct {
	Width     int
	Height    int
	PixelSize int
	Palette   string
	Palettes  map[string][]string
	Workers   int
}

func newViper(file string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(keyWidth, art.DefaultWidth)
	v.SetDefault(keyHeight, art.DefaultHeight)
	v.SetDefault(keyPixelSize, art.DefaultPixelSize)
	v.SetDefault(keyPalette, palette.Default().Name)
	v.SetDefault(keyWorkers, 0)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// applyFlags overrides the file and environment with any flag given on the
// command line
func applyFlags(c *cli.Context, v *viper.Viper) {
	for _, key := range []string{keyWidth, keyHeight, keyPixelSize, keyWorkers} {
		if c.IsSet(key) {
			v.Set(key, c.Int(key))
		}
	}
	if c.IsSet(keyPalette) {
		v.Set(keyPalette, c.String(keyPalette))
	}
}

func newSettings(v *viper.Viper) *settings {
	return &settings{
		Width:     v.GetInt(keyWidth),
		Height:    v.GetInt(keyHeight),
		PixelSize: v.GetInt(keyPixelSize),
		Palette:   v.GetString(keyPalette),
		Palettes:  v.GetStringMapStringSlice(keyPalettes),
		Workers:   v.GetInt(keyWorkers),
	}
}

func loadSettings(c *cli.Context) (*settings, error) {
	v, err := newViper(c.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(c, v)
	return newSettings(v), nil
}

// colors resolves the selected palette. Custom palettes from the config file
// shadow the built-in ones; names are matched without regard to case.
func (s *settings) colors() (color.Palette, error) {
	if hexes, ok := s.Palettes[strings.ToLower(s.Palette)]; ok {
		return palette.Parse(hexes)
	}
	if p, ok := palette.Lookup(s.Palette); ok {
		return p.Parse()
	}
	return nil, fmt.Errorf("unknown palette %q", s.Palette)
}

func (s *settings) artConfig() (art.Config, error) {
	colors, err := s.colors()
	if err != nil {
		return art.Config{}, err
	}
	cfg := art.Config{
		Width:     s.Width,
		Height:    s.Height,
		PixelSize: s.PixelSize,
		Colors:    colors,
	}
	return cfg, cfg.Validate()
}

// customPalettes returns the palettes defined in the config file sorted by
// name
func (s *settings) customPalettes() []palette.Palette {
	names := make([]string, 0, len(s.Palettes))
	for name := range s.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]palette.Palette, 0, len(names))
	for _, name := range names {
		out = append(out, palette.Palette{Name: name, Colors: s.Palettes[name]})
	}
	return out
}
