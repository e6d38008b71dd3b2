package cli

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/pybun/pybun/internal/platform"
)

func newPlatformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the supported Bun targets and their wheel tags",
		Args:  cobra.NoArgs,
		RunE:  runPlatforms,
	}
}

func runPlatforms(cmd *cobra.Command, args []string) error {
	rows := [][]string{{"PLATFORM", "WHEEL TAG", "EXECUTABLE"}}
	for _, p := range platform.All() {
		rows = append(rows, []string{string(p), p.WheelTag(), p.ExecutableName()})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		fmt.Fprintln(out, b.String())
	}
	return nil
}
