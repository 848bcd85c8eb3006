package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chazu/shapekit/pkg/engine"
	"github.com/chazu/shapekit/pkg/export"
	"github.com/chazu/shapekit/pkg/shapes"
	"github.com/chazu/shapekit/pkg/tessellate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errEvalFailed is returned after the script errors have been printed.
var errEvalFailed = errors.New("evaluation failed")

type evalOptions struct {
	out     string
	stl     string
	indent  bool
	timeout time.Duration
}

func newEvalCmd(a *app) *cobra.Command {
	var opts evalOptions
	cmd := &cobra.Command{
		Use:   "eval <script>",
		Short: "Evaluate a script and export the scene",
		Long: `Evaluate a shape script and write the scene it builds.

The scene is written as JSON to --out (stdout when empty or "-"). With
--stl the triangles of every surface are also written as binary STL.
Use "-" as the script name to read from stdin.`,
		Example: `  shapekit eval examples/gallery.shk -o gallery.json
  shapekit eval scene.shk --stl scene.stl -o /dev/null`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEval(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "JSON output file (default stdout)")
	cmd.Flags().StringVar(&opts.stl, "stl", "", "Also write surfaces as binary STL")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "Pretty-print the JSON output")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Evaluation timeout (default from config)")
	return cmd
}

func (a *app) runEval(cmd *cobra.Command, script string, opts evalOptions) error {
	source, err := readScript(script, cmd.InOrStdin())
	if err != nil {
		return err
	}

	timeout := opts.timeout
	if timeout <= 0 {
		timeout = a.cfg.EvalTimeout()
	}
	eng := engine.NewEngine(
		engine.WithTimeout(timeout),
		engine.WithLogger(a.logger),
		engine.WithFactoryOptions(shapes.WithConfig(a.cfg)),
	)

	// Step 1: Evaluate the script into a collection of shapes.
	coll, evalErrs, err := eng.EvaluateContext(cmd.Context(), source)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", script, err)
	}

	// Step 2: Report script errors in file:line form.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			if e.Line > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: %s\n", script, e.Line, e.Message)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", script, e.Message)
			}
		}
		return errEvalFailed
	}

	// Step 3: Tessellate the collection into render meshes.
	scene, err := tessellate.Tessellate(coll)
	if err != nil {
		return fmt.Errorf("tessellation failed: %w", err)
	}
	a.logger.Info("scene built",
		zap.String("script", script),
		zap.Int("meshes", len(scene.Meshes)),
		zap.Int("labels", len(scene.Labels)),
	)

	// Step 4: Export.
	if err := writeScene(cmd.OutOrStdout(), opts.out, scene, opts.indent); err != nil {
		return err
	}
	if opts.stl != "" {
		n, err := export.SaveSTL(opts.stl, scene)
		if err != nil {
			return err
		}
		a.logger.Info("stl written", zap.String("path", opts.stl), zap.Int("triangles", n))
	}
	return nil
}

func readScript(name string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

func writeScene(stdout io.Writer, path string, scene *tessellate.Scene, indent bool) error {
	if path == "" || path == "-" {
		return export.WriteJSON(stdout, scene, indent)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteJSON(f, scene, indent); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
