package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/pipeline"
	"github.com/matzehuels/adcanvas/pkg/placement"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		flags   hintFlags
		output  string
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [image]",
		Short: "Compute an adaptive text placement plan for an image",
		Long: `Analyze measures clutter and contrast across the image's candidate zones and
prints where the headline, subhead and call to action should go. The image may
be a local file, an http(s) URL or a data: URI.

When analysis fails or times out no plan is produced, and composition falls
back to template positions.`,
		Example: `  adcanvas analyze bg.png
  adcanvas analyze bg.png --format story --objective offer
  adcanvas analyze bg.png --align left --avoid-center -o plan.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := flags.hints()
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), args[0], h, output, asJSON, noCache)
		},
	}

	addHintFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan JSON to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the plan cache")

	return cmd
}

func addHintFlags(cmd *cobra.Command, f *hintFlags) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "square", "ad format: square, portrait, story")
	cmd.Flags().StringVar(&f.objective, "objective", "awareness", "campaign objective: offer, launch, awareness")
	cmd.Flags().StringVar(&f.align, "align", "auto", "preferred alignment: left, center, right, auto")
	cmd.Flags().StringVar(&f.band, "band", "", "preferred headline band: top, upper")
	cmd.Flags().BoolVar(&f.avoidCenter, "avoid-center", false, "keep text out of the center column")
	cmd.Flags().StringVar(&f.accent, "accent", "", "accent color for the CTA button (hex)")
}

// runAnalyze analyzes one image and reports the plan.
func (c *CLI) runAnalyze(ctx context.Context, arg string, h placement.Hints, output string, asJSON, noCache bool) error {
	src, err := imageSource(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	budget := runner.Timeout
	if budget <= 0 {
		budget = pipeline.DefaultTimeout
	}
	spin := newSpinner(ctx, "Analyzing "+displayName(arg), budget)
	spin.Start()
	plan := runner.AnalyzeForPlacement(ctx, src, h)
	if ctx.Err() != nil {
		spin.Stop()
		return ctx.Err()
	}
	if plan == nil && !asJSON {
		spin.StopWithWarning("No adaptive plan; composition will use template positions")
	} else {
		spin.Stop()
	}

	if output != "" || asJSON {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		if output != "" {
			if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
		}
		if asJSON {
			fmt.Println(string(data))
			return nil
		}
	}

	if plan == nil {
		printDetail("Run with -v to see why analysis failed")
		return nil
	}

	prog.doneWithin("Analyzed "+displayName(arg), budget)
	printSuccess("Placement plan (%s)", describeHints(h))
	printBlock("Headline", plan.Headline)
	printBlock("Subhead", plan.Subhead)
	printBlock("CTA", plan.CTA.TextBlock)
	printPlanStats(plan)
	if output != "" {
		printFile(output)
	}
	for _, line := range plan.Rationale {
		printDetail("%s", line)
	}
	if !strings.Contains(arg, ":") {
		fmt.Println()
		printNextStep("Inspect zones", "adcanvas inspect "+arg)
	}
	return nil
}

// displayName shortens URLs and data URIs for status output.
func displayName(arg string) string {
	if strings.HasPrefix(arg, "data:") {
		return "inline image"
	}
	if strings.Contains(arg, "://") {
		return arg
	}
	return filepath.Base(arg)
}
