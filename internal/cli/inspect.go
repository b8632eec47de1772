package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/placement"
	"github.com/matzehuels/adcanvas/pkg/raster"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags hintFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [image]",
		Short: "Browse per-zone clutter, contrast and scrim decisions",
		Long: `Inspect measures every candidate zone of the image and opens an interactive
table showing clutter, mean luminance, preferred text color, contrast and the
scrim each zone would get. Zones the planner picked are highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := flags.hints()
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], h, plain)
		},
	}

	addHintFlags(cmd, &flags)
	cmd.Flags().BoolVar(&plain, "plain", false, "print the table instead of opening the browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, arg string, h placement.Hints, plain bool) error {
	src, err := imageSource(arg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	img, _, err := raster.Load(ctx, src, runner.Client)
	if err != nil {
		return err
	}
	buf := raster.Sample(img, runner.SampleWidth)

	planner := runner.Planner
	plan := planner.Plan(buf, h)
	rows := newZoneRows(planner.MeasureAll(buf), plan, planner.Tuning())
	title := fmt.Sprintf("Zones · %s (%dx%d sample)", displayName(arg), buf.Width(), buf.Height())

	if plain {
		fmt.Println(StyleTitle.Render(title))
		fmt.Println(renderZoneTable(rows, -1))
		printPlanStats(&plan)
		return nil
	}

	_, err = tea.NewProgram(NewZoneListModel(title, rows, plan), tea.WithContext(ctx)).Run()
	return err
}
