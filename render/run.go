package render

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"blockcss/archive"
	"blockcss/compile"
	"blockcss/css"
	"blockcss/sanitize"
	"blockcss/state"
)

// Run renders documents from file, directory or zip archive into HTML pages.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("render")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, NewFromEnv(env), log)
}

// NewFromEnv creates renderer configured from program environment.
func NewFromEnv(env *state.LocalEnv) *Renderer {
	san := sanitize.New()
	var lint *css.Linter
	if env.Cfg.Render.Lint {
		lint = css.NewLinter(compile.Placeholder, env.Log)
	}
	return NewRenderer(san, compile.New(san), lint, env.Fingerprint(), env.Log)
}

// process determines the input type (directory, archive, or single file)
// and processes accordingly. Path may continue inside zip archive.
func process(ctx context.Context, src, dst string, r *Renderer, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return processDir(ctx, head, dst, r, log)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, r, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) == 0 && IsDocumentFile(head) {
			file, err := os.Open(head)
			if err != nil {
				return err
			}
			defer file.Close()
			return processDocument(ctx, file, filepath.Base(head), dst, r, log)
		}
		return fmt.Errorf("input was not recognized as document (%s)", head)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir walks directory tree rendering every document and archive
// found. Failures are collected, processing continues.
func processDir(ctx context.Context, dir, dst string, r *Renderer, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	var errs error
	werr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			count++
			if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, r, log); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("archive %s: %w", path, err))
			}
			return nil
		}
		if !IsDocumentFile(path) {
			log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			return nil
		}

		count++
		file, err := os.Open(path)
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		defer file.Close()

		if err := processDocument(ctx, file, rel, dst, r, log); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("file %s: %w", path, err))
		}
		return nil
	})
	return multierr.Append(werr, errs)
}

// processArchive renders documents inside archive under "pathIn". Output
// keeps archive location "pathOut" relative to walked directory.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, r *Renderer, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	var errs error
	werr := archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isDocumentInArchive(f) {
			log.Debug("Skipping file, not recognized as document", zap.String("archive", arc), zap.String("file", f.FileHeader.Name))
			return nil
		}

		count++
		rc, err := f.Open()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s in %s: %w", f.FileHeader.Name, arc, err))
			return nil
		}
		defer rc.Close()

		if err := processDocument(ctx, rc, filepath.Join(pathOut, filepath.FromSlash(f.FileHeader.Name)), dst, r, log); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s in %s: %w", f.FileHeader.Name, arc, err))
		}
		return nil
	})
	return multierr.Append(werr, errs)
}

// processDocument renders single document. "src" is the source path relative
// to what was requested (just base name for a single file), "dst" is the
// destination directory.
func processDocument(ctx context.Context, rd io.Reader, src, dst string, r *Renderer, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	doc, err := Decode(rd)
	if err != nil {
		return err
	}

	outputName := buildOutputPath(doc, src, dst, env)
	log.Info("Rendering document", zap.String("from", src), zap.String("to", outputName))

	body, err := r.RenderDocument(doc)
	if err != nil {
		return fmt.Errorf("unable to render document: %w", err)
	}

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, []byte(page(doc.Title, body)), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("documents/%s.txt", filepath.ToSlash(src)), []byte(doc.String()))
		env.Rpt.Store("results/"+filepath.ToSlash(src)+filepath.Ext(outputName), outputName)
	}
	return nil
}

// document titles are plain text, markup in them is dropped
var titlePolicy = bluemonday.StrictPolicy()

func page(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if title != "" {
		b.WriteString("<title>" + titlePolicy.Sanitize(title) + "</title>\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
