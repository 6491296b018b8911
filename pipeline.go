package snippix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/bodgit/snippix/stego"
)

const (
	// DefaultWorkers is the number of renderers used by Batch when zero
	// is requested
	DefaultWorkers = 10
	// MaxSourceSize is the largest file Batch will render
	MaxSourceSize = 1 << 20

	cardExt = ".png"
)

var errWalkCancelled = errors.New("walk cancelled")

type source struct {
	path string
	rel  string
}

func (s *Snippix) findSources(ctx context.Context, base, skip string) (<-chan source, <-chan error, error) {
	out := make(chan source)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if ctx.Err() != nil {
				return errWalkCancelled
			}

			// Ignore any hidden files or directories, but not the base itself
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Never descend into our own output
			if info.Mode().IsDir() {
				if skip != "" && file == skip {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if info.Size() > MaxSourceSize {
				s.logger.Printf("Skipping \"%s\", %d bytes is too large\n", file, info.Size())
				return nil
			}

			// A single file source is named after itself
			rel := filepath.Base(file)
			if file != base {
				if rel, err = filepath.Rel(base, file); err != nil {
					return err
				}
			}

			select {
			case out <- source{path: file, rel: rel}:
			case <-ctx.Done():
				return errWalkCancelled
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (s *Snippix) renderFile(src source, dst string, opts *stego.Options) error {
	b, err := ioutil.ReadFile(src.path)
	if err != nil {
		return err
	}

	// Binary files make for neither useful art nor recoverable code
	if !utf8.Valid(b) {
		s.logger.Printf("Skipping \"%s\", not UTF-8 text\n", src.path)
		return nil
	}

	card, err := s.Render(string(b), opts)
	if err != nil {
		return fmt.Errorf("%s: %w", src.path, err)
	}

	file := filepath.Join(dst, src.rel+cardExt)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := card.WritePNG(buf); err != nil {
		return err
	}

	if err := ioutil.WriteFile(file, buf.Bytes(), 0644); err != nil {
		return err
	}

	s.logger.Printf("Rendered \"%s\" as %s art to \"%s\"\n", src.path, card.Type, file)

	return nil
}

func (s *Snippix) renderWorker(ctx context.Context, in <-chan source, dst string, opts *stego.Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for src := range in {
			if ctx.Err() != nil {
				return
			}
			if err := s.renderFile(src, dst, opts); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// waitForPipeline returns the first error from errs. It cancels the
// pipeline on that error and only returns once every stage has finished.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Batch renders every file under src to a card under dst, mirroring the
// directory structure and appending ".png" to each file name. Hidden files
// and directories, files larger than MaxSourceSize and files that are not
// UTF-8 text are skipped. If opts is non-nil the code is embedded in every
// card. The first error stops the batch; no card is written after Batch
// returns. If src is a single file its card is written directly under dst.
func (s *Snippix) Batch(ctx context.Context, src, dst string, workers int, opts *stego.Options) error {
	base, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	out, err := filepath.Abs(dst)
	if err != nil {
		return err
	}

	if workers <= 0 {
		workers = DefaultWorkers
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	sources, errc, err := s.findSources(ctx, base, out)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := s.renderWorker(ctx, sources, out, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}
