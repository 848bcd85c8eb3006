package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/chazu/shapekit/pkg/actor"
	"github.com/chazu/shapekit/pkg/colors"
	"github.com/chazu/shapekit/pkg/shapes"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLatexCmd(a *app) *cobra.Command {
	var (
		out     string
		color   string
		bg      string
		offline bool
	)
	cmd := &cobra.Command{
		Use:   "latex <formula>",
		Short: "Render a formula to PNG",
		Long: `Render a LaTeX formula with the configured remote renderer and save
the image. With --offline the formula text is rasterised locally instead.`,
		Example: `  shapekit latex 'e^{i\pi}+1=0' -o euler.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := colors.Parse(color)
			if err != nil {
				return err
			}
			p := shapes.LatexParams{
				Style:   shapes.Style{Color: c},
				Offline: offline,
			}
			if bg != "" {
				b, err := colors.Parse(bg)
				if err != nil {
					return err
				}
				p.Background = &b
			}
			f := shapes.New(actor.NewCollection(), shapes.WithConfig(a.cfg), shapes.WithLogger(a.logger))
			act, err := f.Latex(cmd.Context(), args[0], v3.Vec{}, p)
			if err != nil {
				return err
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := png.Encode(file, act.Texture); err != nil {
				file.Close()
				return fmt.Errorf("encode %s: %w", out, err)
			}
			if err := file.Close(); err != nil {
				return err
			}
			b := act.Texture.Bounds()
			a.logger.Info("formula saved", zap.String("path", out), zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "formula.png", "PNG output file")
	cmd.Flags().StringVar(&color, "color", "black", "Ink colour")
	cmd.Flags().StringVar(&bg, "bg", "", "Background colour (default transparent)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Rasterise locally instead of fetching")
	return cmd
}
