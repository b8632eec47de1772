package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/canvas"
	"github.com/matzehuels/adcanvas/pkg/compose"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/fonts"
	"github.com/matzehuels/adcanvas/pkg/placement"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output    string // preview PNG path
	layers    string // layers JSON path
	treatment string // treatment id override
	variant   int    // variant override, -1 keeps the stored value
	save      bool   // write the analyzed plan back to the generation file
	align     string // layout overrides, empty keeps the stored value
	band      string
	avoid     bool
	noPreview bool
	noCache   bool
}

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	opts := composeOpts{variant: -1}

	cmd := &cobra.Command{
		Use:   "compose [generation.json]",
		Short: "Compose a generation result into a layered ad preview",
		Long: `Compose lays the copy of a saved generation result over its image. The stored
placement plan is used when present; otherwise the image is analyzed, and when
that fails the format's template positions are used.

The preview is written as PNG and the ordered layers can be exported as JSON.`,
		Example: `  adcanvas compose gen.json
  adcanvas compose gen.json -o preview.png --layers layers.json
  adcanvas compose gen.json --treatment editorial --save
  adcanvas compose gen.json --align left --avoid-center`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompose(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "preview PNG path (default: <input>.png)")
	cmd.Flags().StringVar(&opts.layers, "layers", "", "write the layer list as JSON to this path")
	cmd.Flags().StringVarP(&opts.treatment, "treatment", "t", "", "use this treatment id instead of the hashed pick")
	cmd.Flags().IntVar(&opts.variant, "variant", -1, "override the variant index used for treatment selection")
	cmd.Flags().StringVar(&opts.align, "align", "", "override the preferred alignment: left, center, right, auto")
	cmd.Flags().StringVar(&opts.band, "band", "", "override the preferred headline band: top, upper")
	cmd.Flags().BoolVar(&opts.avoid, "avoid-center", false, "keep text out of the center column")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the analyzed plan back into the generation file")
	cmd.Flags().BoolVar(&opts.noPreview, "no-preview", false, "skip writing the PNG preview")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the plan cache")

	return cmd
}

// runCompose loads the generation result, composes it, and writes outputs.
func (c *CLI) runCompose(ctx context.Context, input string, opts composeOpts) error {
	res, err := ad.ReadResultFile(input)
	if err != nil {
		return err
	}
	if opts.treatment != "" {
		res.TreatmentID = opts.treatment
	}
	if opts.variant >= 0 {
		res.Variant = opts.variant
	}
	if err := opts.applyLayout(&res.Layout); err != nil {
		return err
	}
	hadPlan := len(res.Plan) > 0

	// Relative image paths resolve against the generation file.
	storedPath := res.Image.Path
	if storedPath != "" && !filepath.IsAbs(storedPath) {
		res.Image.Path = filepath.Join(filepath.Dir(input), storedPath)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinner(ctx, "Composing "+displayName(input), 0)
	spin.Start()
	composer, err := runner.ComposeAd(ctx, res)
	if err != nil {
		spin.StopWithError("Compose failed")
		return err
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	prog.done("Composed " + displayName(input))
	printSuccess("Composed %s", displayName(input))
	printComposeStats(composer)

	if !opts.noPreview {
		outputPath := opts.output
		if outputPath == "" {
			outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
		}
		if err := writePreview(composer, runner.Fonts, outputPath); err != nil {
			return err
		}
		printFile(outputPath)
	}

	if opts.layers != "" {
		data, err := canvas.MarshalLayers(composer.Canvas())
		if err != nil {
			return fmt.Errorf("encode layers: %w", err)
		}
		if err := os.WriteFile(opts.layers, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("write layers %s: %w", opts.layers, err)
		}
		printFile(opts.layers)
	}

	if opts.save && !hadPlan && len(res.Plan) > 0 {
		res.Image.Path = storedPath
		if err := ad.WriteResultFile(res, input); err != nil {
			return err
		}
		printDetail("Stored placement plan in %s", input)
	}
	return nil
}

// applyLayout overrides the stored layout preferences with the flags that
// were given.
func (o composeOpts) applyLayout(l *ad.Layout) error {
	if o.align != "" {
		align, err := ad.ParseAlign(o.align)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid alignment")
		}
		l.Align = align
	}
	if o.band != "" {
		if o.band != placement.BandUpper && o.band != string(placement.BandTop) {
			return errors.New(errors.ErrCodeInvalidInput, "invalid headline band %q (must be one of: top, upper)", o.band)
		}
		l.HeadlineBand = o.band
	}
	if o.avoid {
		l.AvoidCenter = true
	}
	return nil
}

func writePreview(composer *compose.Composer, lib *fonts.Library, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview %s: %w", path, err)
	}
	if err := canvas.RenderPNG(composer.Canvas(), lib, f); err != nil {
		f.Close()
		return fmt.Errorf("render preview: %w", err)
	}
	return f.Close()
}

// printComposeStats prints the plan source, treatment and per-role fit.
func printComposeStats(composer *compose.Composer) {
	plan := composer.Plan()
	printKeyValue("Plan", fmt.Sprintf("%s · confidence %.2f", plan.Source, plan.Confidence))
	printKeyValue("Treatment", composer.Treatment().ID)

	fits := composer.Fits()
	roles := make([]string, 0, len(fits))
	for role := range fits {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	for _, role := range roles {
		fit := fits[canvas.Role(role)]
		detail := fmt.Sprintf("%.0fpx", fit.Size)
		if fit.ShrinkStep > 0 {
			detail += fmt.Sprintf(" · shrunk %d", fit.ShrinkStep)
		}
		if fit.Trimmed {
			detail += " · " + StyleWarning.Render("trimmed")
		}
		if fit.Overflow {
			detail += " · " + StyleWarning.Render("overflow")
		}
		printKeyValue(role, detail)
	}
}
