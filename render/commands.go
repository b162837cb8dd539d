package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"blockcss/common"
	"blockcss/compile"
	"blockcss/css"
	"blockcss/sanitize"
	"blockcss/state"
)

func readInput(env *state.LocalEnv, name string) (string, error) {
	if len(name) == 0 || name == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return string(data), nil
}

// Compile prints scoped rules for author CSS read from file or STDIN.
func Compile(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	bp, err := common.ParseBreakpoint(cmd.String("breakpoint"))
	if err != nil {
		return fmt.Errorf("unable to use breakpoint: %w", err)
	}

	var sc compile.Scope
	switch token, id := cmd.String("token"), cmd.String("preview-id"); {
	case len(token) > 0 && len(id) > 0:
		return errors.New("--token and --preview-id are mutually exclusive")
	case len(token) > 0:
		sc = compile.TokenScope(token)
	case len(id) > 0:
		sc = compile.NewAttributeScope(env.Cfg.Preview.Attribute, id)
	default:
		return errors.New("either --token or --preview-id must be specified")
	}

	raw, err := readInput(env, cmd.Args().First())
	if err != nil {
		return err
	}

	san := sanitize.New()
	comp := compile.New(san)
	clean := san.Sanitize(raw)

	out := comp.Compile(clean, sc, bp)
	if cmd.Bool("rules") {
		out = comp.Rules(clean, sc, bp)
	}
	if len(out) == 0 {
		env.Log.Debug("Nothing to emit", zap.Stringer("breakpoint", bp))
		return nil
	}
	_, err = fmt.Fprintln(env.Stdout, out)
	return err
}

// Lint prints diagnostics for author CSS read from file or STDIN.
func Lint(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	name := cmd.Args().First()
	raw, err := readInput(env, name)
	if err != nil {
		return err
	}
	if len(name) == 0 {
		name = "-"
	}

	diags := css.NewLinter(compile.Placeholder, env.Log).LintVariant(raw, sanitize.New().Sanitize(raw), name)

	switch cmd.String("format") {
	case "yaml":
		enc := yaml.NewEncoder(env.Stdout)
		defer enc.Close()
		if diags == nil {
			diags = []css.Diagnostic{}
		}
		if err := enc.Encode(diags); err != nil {
			return fmt.Errorf("unable to encode diagnostics: %w", err)
		}
	default:
		for _, d := range diags {
			if _, err := fmt.Fprintf(env.Stdout, "%s:%s\n", name, d); err != nil {
				return err
			}
		}
	}
	if len(diags) > 0 && cmd.Bool("strict") {
		return fmt.Errorf("%d diagnostic(s) reported", len(diags))
	}
	return nil
}
