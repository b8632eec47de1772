package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/pkg/cache"
	"github.com/matzehuels/adcanvas/pkg/config"
	"github.com/matzehuels/adcanvas/pkg/errors"
)

// cacheCommand groups the plan cache subcommands. They act on the file
// backend only.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the placement plan cache",
	}
	cmd.AddCommand(c.cacheStatsCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached plans and images",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			usage, err := fc.Usage()
			if err != nil {
				return fmt.Errorf("read cache %s: %w", fc.Dir(), err)
			}
			if len(usage) == 0 {
				printInfo("Cache is empty")
				printDetail("Directory: %s", fc.Dir())
				return nil
			}
			fmt.Println(renderUsageTable(usage))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached plans and fetched images",
		Example: `  adcanvas cache clear
  adcanvas cache clear --kind plan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := cacheKinds(kind)
			if err != nil {
				return err
			}
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			n, err := fc.Clear(kinds...)
			if err != nil {
				return fmt.Errorf("clear cache %s: %w", fc.Dir(), err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only clear one kind: plan or image")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// openFileCache opens the file backend, warning when another backend is
// configured.
func (c *CLI) openFileCache() (*cache.FileCache, error) {
	if b := c.config.Cache.Backend; b != config.CacheFile {
		printWarning("Cache backend is %q; showing the file cache only", b)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// cacheKinds validates a --kind value. Empty selects every kind.
func cacheKinds(kind string) ([]string, error) {
	switch kind {
	case "":
		return nil, nil
	case cache.KindPlan, cache.KindImage:
		return []string{kind}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache kind %q (want plan or image)", kind)
}

func renderUsageTable(usage map[string]cache.Usage) string {
	kinds := make([]string, 0, len(usage))
	for k := range usage {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		u := usage[k]
		rows = append(rows, []string{k, strconv.Itoa(u.Entries), formatBytes(u.Bytes)})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Kind", "Entries", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
