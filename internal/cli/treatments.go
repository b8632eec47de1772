package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/treatment"
)

// treatmentsCommand creates the treatments command.
func (c *CLI) treatmentsCommand() *cobra.Command {
	var (
		pick      bool
		copyText  ad.Copy
		objective string
		variant   int
	)

	cmd := &cobra.Command{
		Use:   "treatments",
		Short: "List text treatments or pick one for given copy",
		Long: `Without flags, treatments lists the catalog. With --pick, it prints the
treatment the selector deterministically chooses for the given copy,
objective and variant, the same choice compose makes.`,
		Example: `  adcanvas treatments
  adcanvas treatments --pick --headline "Fresh roast" --cta "Shop now" --objective offer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := treatment.NewSelector(treatment.DefaultCatalog())
			if !pick {
				fmt.Println(renderTreatmentTable(sel.Catalog(), ""))
				return nil
			}

			obj, err := ad.ParseObjective(objective)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid objective")
			}
			p := sel.Select(treatment.Input{Copy: copyText, Objective: obj, Variant: variant})
			printSuccess("Selected %s", StyleHighlight.Render(p.ID))
			printKeyValue("Name", p.Name)
			printKeyValue("Headline", describeStyle(p.Headline))
			printKeyValue("Subhead", describeStyle(p.Subhead))
			printKeyValue("CTA", describeStyle(p.CTA))
			printKeyValue("Chrome", string(p.Chrome))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "select a treatment for the given copy")
	cmd.Flags().StringVar(&copyText.Headline, "headline", "", "headline text")
	cmd.Flags().StringVar(&copyText.Subhead, "subhead", "", "subhead text")
	cmd.Flags().StringVar(&copyText.CTA, "cta", "", "call to action text")
	cmd.Flags().StringVar(&objective, "objective", "awareness", "campaign objective: offer, launch, awareness")
	cmd.Flags().IntVar(&variant, "variant", 0, "variant index")

	return cmd
}

func describeStyle(s treatment.TextStyle) string {
	if s.Casing == "" || s.Casing == treatment.CaseNone {
		return s.Font
	}
	return fmt.Sprintf("%s · %s", s.Font, s.Casing)
}

// renderTreatmentTable lists the catalog, highlighting the selected id.
func renderTreatmentTable(catalog treatment.Catalog, selected string) string {
	rows := make([][]string, 0, len(catalog))
	for _, p := range catalog {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			describeStyle(p.Headline),
			describeStyle(p.CTA),
			string(p.Chrome),
			fmt.Sprintf("%.2f", p.ScrimStrength),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Headline", "CTA", "Chrome", "Scrim").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(catalog) && catalog[row].ID == selected {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
