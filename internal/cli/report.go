package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/moodlog/internal/api"
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/internal/render"
	"github.com/mesh-intelligence/moodlog/internal/stats"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	countStyle  = lipgloss.NewStyle().Width(6).Align(lipgloss.Right)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
)

const (
	barWidth  = 20
	cellGlyph = "■"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how often each feeling was recorded",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				sum, _, err := summarize(a)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, sum)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatSummary(sum))
				return nil
			})
		},
	}
}

func summarize(a *app) (stats.Summary, types.Catalog, error) {
	store, err := a.journal.GetAll()
	if err != nil {
		return stats.Summary{}, types.Catalog{}, err
	}
	cat, err := a.catalog.List()
	if err != nil {
		return stats.Summary{}, types.Catalog{}, err
	}
	sum, err := stats.FeelingCounts(store, cat)
	if err != nil {
		return stats.Summary{}, types.Catalog{}, err
	}
	return sum, cat, nil
}

func formatSummary(sum stats.Summary) string {
	if sum.Empty() {
		return render.NoRecordsText
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Estatísticas: %d dias, %d registros", sum.TotalDays, sum.TotalEntries)))
	b.WriteByte('\n')
	for _, c := range sum.Counts {
		n := int(c.Percentage / 100 * barWidth)
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(strings.Repeat("█", n))
		fmt.Fprintf(&b, "%s %-10s %s %s %s\n",
			c.Emoji, c.Label(),
			countStyle.Render(strconv.Itoa(c.Count)),
			countStyle.Render(strconv.FormatFloat(c.Percentage, 'f', 1, 64)+"%"),
			bar)
	}
	return strings.TrimRight(b.String(), "\n")
}

func weeksFlag(cmd *cobra.Command, weeks *int) {
	cmd.Flags().IntVar(weeks, "weeks", api.DefaultWeeks, "number of weeks to show")
}

func checkWeeks(weeks int) error {
	if weeks > api.MaxWeeks {
		return &types.ValidationError{Field: "weeks", Value: strconv.Itoa(weeks), Reason: fmt.Sprintf("at most %d", api.MaxWeeks)}
	}
	return nil
}

func buildCalendar(a *app, weeks int) (stats.Calendar, types.Catalog, error) {
	if err := checkWeeks(weeks); err != nil {
		return stats.Calendar{}, types.Catalog{}, err
	}
	store, err := a.journal.GetAll()
	if err != nil {
		return stats.Calendar{}, types.Catalog{}, err
	}
	cat, err := a.catalog.List()
	if err != nil {
		return stats.Calendar{}, types.Catalog{}, err
	}
	cal, err := stats.CalendarBuckets(store, cat, weeks, clock.Now())
	if err != nil {
		return stats.Calendar{}, types.Catalog{}, err
	}
	return cal, cat, nil
}

func newCalendarCmd() *cobra.Command {
	var weeks int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the feelings heat-map for recent weeks",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				cal, _, err := buildCalendar(a, weeks)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, cal)
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatCalendar(cal))
				return nil
			})
		},
	}
	weeksFlag(cmd, &weeks)
	return cmd
}

var weekdayNames = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// formatCalendar draws one row per weekday and one column per week. Days
// outside the range are blank.
func formatCalendar(cal stats.Calendar) string {
	grid := make([][]string, 7)
	for i := range grid {
		grid[i] = make([]string, cal.Weeks)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	for _, c := range cal.Cells {
		if c.Week >= cal.Weeks {
			continue
		}
		color := stats.EmptyColor
		if c.Recorded {
			color = c.Color
		}
		grid[c.Weekday][c.Week] = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(cellGlyph)
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render(cal.Start + " → " + cal.End))
	b.WriteByte('\n')
	for i, row := range grid {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-4s", weekdayNames[i])))
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func newRenderCmd() *cobra.Command {
	var (
		weeks int
		out   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the heat-map SVG and README report",
		Long: "Render writes " + render.SVGFile + " and " + render.ReadmeFile + " into the output\n" +
			"directory, replacing existing files.",
		Args: withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				cal, cat, err := buildCalendar(a, weeks)
				if err != nil {
					return err
				}
				sum, _, err := summarize(a)
				if err != nil {
					return err
				}
				report, err := render.Build(cal, sum, cat, clock.Now())
				if err != nil {
					return err
				}
				if err := render.WriteFiles(out, report); err != nil {
					return err
				}
				a.logger.Info("report written",
					log.FieldOperation, log.OpRender,
					log.FieldWeeks, weeks,
					"dir", out)

				svgPath := filepath.Join(out, render.SVGFile)
				readmePath := filepath.Join(out, render.ReadmeFile)
				if flags.jsonMode {
					return printJSON(cmd, map[string]string{"svg": svgPath, "readme": readmePath})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nWrote %s\n", svgPath, readmePath)
				return nil
			})
		},
	}
	weeksFlag(cmd, &weeks)
	cmd.Flags().StringVar(&out, "out", ".", "output directory")
	return cmd
}
