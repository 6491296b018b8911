package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/bodgit/snippix"
	"github.com/bodgit/snippix/art"
	"github.com/bodgit/snippix/palette"
	"github.com/bodgit/snippix/preview"
	"github.com/bodgit/snippix/stego"
	"github.com/urfave/cli/v2"
)

const (
	defaultOutput = "snippix.png"
	stdio         = "-"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newSnippix(c *cli.Context) (*snippix.Snippix, *settings, error) {
	s, err := loadSettings(c)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := s.artConfig()
	if err != nil {
		return nil, nil, err
	}
	sx, err := snippix.New(cfg, newLogger(c))
	if err != nil {
		return nil, nil, err
	}
	return sx, s, nil
}

// embedOptions returns nil when embedding is disabled. A key implies
// encryption.
func embedOptions(c *cli.Context) *stego.Options {
	if !c.Bool("embed") || c.Bool("no-embed") {
		return nil
	}
	key := c.String("key")
	return &stego.Options{
		Encrypt: key != "",
		Key:     key,
	}
}

func readCode(name string) (string, error) {
	if name == "" || name == stdio {
		b, err := ioutil.ReadAll(bufio.NewReader(os.Stdin))
		return string(b), err
	}
	b, err := ioutil.ReadFile(name)
	return string(b), err
}

func readImage(name string) (image.Image, error) {
	var r io.Reader = os.Stdin
	if name != stdio {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	m, _, err := image.Decode(bufio.NewReader(r))
	return m, err
}

func create(c *cli.Context, name string, fn func(io.Writer) error) error {
	if name == stdio {
		return fn(c.App.Writer)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

var renderFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  keyWidth,
		Value: art.DefaultWidth,
		Usage: "card width in pixels",
	},
	&cli.IntFlag{
		Name:  keyHeight,
		Value: art.DefaultHeight,
		Usage: "card height in pixels",
	},
	&cli.IntFlag{
		Name:  keyPixelSize,
		Value: art.DefaultPixelSize,
		Usage: "cell size in pixels",
	},
	&cli.StringFlag{
		Name:    keyPalette,
		Aliases: []string{"p"},
		Value:   palette.Default().Name,
		Usage:   "palette name",
	},
	&cli.BoolFlag{
		Name:  "embed",
		Value: true,
		Usage: "hide the code in the card",
	},
	&cli.BoolFlag{
		Name:  "no-embed",
		Usage: "paint the card without hiding the code",
	},
	&cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "encrypt the hidden code with `KEY`",
	},
}

func generate(c *cli.Context) error {
	sx, _, err := newSnippix(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	code, err := readCode(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var card *snippix.Card
	if name := c.String("type"); name != "" {
		t, err := art.ParseType(name)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		card, err = sx.RenderType(code, t, embedOptions(c))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	} else {
		card, err = sx.Render(code, embedOptions(c))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	if err := create(c, c.String("output"), card.WritePNG); err != nil {
		return cli.NewExitError(err, 1)
	}

	if name := c.String("preview"); name != "" {
		opts := preview.Options{Scale: c.Float64("preview-scale")}
		if err := create(c, name, func(w io.Writer) error {
			return preview.Encode(w, card.Image, opts)
		}); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	return nil
}

func decode(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	sx, err := snippix.New(art.DefaultConfig(), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := readImage(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	result := sx.Decode(m, c.String("key"))
	if !result.Success {
		if errors.Is(result.Err, stego.ErrKeyRequired) {
			return cli.NewExitError(result.Message(), 2)
		}
		return cli.NewExitError(result.Message(), 1)
	}

	if _, err := io.WriteString(c.App.Writer, result.Code); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func detect(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	found := false
	for _, name := range c.Args().Slice() {
		m, err := readImage(name)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("%s: %w", name, err), 1)
		}
		ok := stego.Detect(m)
		found = found || ok
		fmt.Fprintf(c.App.Writer, "%s\t%t\n", name, ok)
	}

	if !found {
		return cli.NewExitError("", 1)
	}

	return nil
}

func capacity(c *cli.Context) error {
	sx, _, err := newSnippix(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	code, err := readCode(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	opts := embedOptions(c)
	if opts == nil {
		opts = &stego.Options{}
	}
	opts.Timestamp = time.Now()

	need, err := stego.RequiredBits(code, *opts)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	cfg := sx.Config()
	have := stego.Capacity(cfg.Width, cfg.Height)

	fmt.Fprintf(c.App.Writer, "required\t%d\navailable\t%d\n", need, have)

	if need > have {
		return cli.NewExitError(stego.ErrCapacity, 1)
	}

	return nil
}

func palettes(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, p := range append(palette.All(), s.customPalettes()...) {
		mark := " "
		if p.Name == palette.Default().Name {
			mark = "*"
		}
		fmt.Fprintf(c.App.Writer, "%s %s\t%v\n", mark, p.Name, p.Colors)
	}

	return nil
}

func batch(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	sx, s, err := newSnippix(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := sx.Batch(ctx, c.Args().Get(0), c.Args().Get(1), s.Workers, embedOptions(c)); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "snippix"
	app.Usage = "Turn source code into pixel-art cards with the code hidden inside"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{envPrefix + "_CONFIG"},
			Usage:   "read settings from `FILE`",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "generate",
			Aliases:     []string{"gen"},
			Usage:       "Render source code as an art card",
			Description: "Reads the code from FILE, or standard input if FILE is missing or \"-\".",
			ArgsUsage:   "[FILE]",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   defaultOutput,
					Usage:   "write the card to `FILE`",
				},
				&cli.StringFlag{
					Name:  "type",
					Usage: "force the art type",
				},
				&cli.StringFlag{
					Name:  "preview",
					Usage: "also write a GIF thumbnail to `FILE`",
				},
				&cli.Float64Flag{
					Name:  "preview-scale",
					Value: 0.5,
					Usage: "thumbnail scale",
				},
			}, renderFlags...),
			Action: generate,
		},
		{
			Name:        "decode",
			Usage:       "Recover the code hidden in an art card",
			Description: "Writes the code to standard output. Exits with status 2 if the card is encrypted and no key was given.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "decrypt with `KEY`",
				},
			},
			Action: decode,
		},
		{
			Name:      "detect",
			Usage:     "Report which images appear to carry hidden code",
			ArgsUsage: "FILE...",
			Action:    detect,
		},
		{
			Name:        "capacity",
			Usage:       "Compare the bits needed to hide code with the bits a card holds",
			Description: "Reads the code from FILE, or standard input if FILE is missing or \"-\".",
			ArgsUsage:   "[FILE]",
			Flags:       renderFlags,
			Action:      capacity,
		},
		{
			Name:   "palettes",
			Usage:  "List the available palettes",
			Action: palettes,
		},
		{
			Name:        "batch",
			Usage:       "Render every file in a directory tree",
			Description: "Writes one card per file under DESTINATION, mirroring the layout of SOURCE.",
			ArgsUsage:   "SOURCE DESTINATION",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:    keyWorkers,
					Aliases: []string{"j"},
					Value:   snippix.DefaultWorkers,
					Usage:   "number of concurrent renderers",
				},
			}, renderFlags...),
			Action: batch,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
