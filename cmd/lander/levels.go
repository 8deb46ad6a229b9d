package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rocket-lander/internal/lander/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level table",
	Long: `Shows every world and level with its gravity, wind and fuel.

Examples:
  lander levels
  lander levels --levels ./my-levels.yaml`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	table, err := levels.NewLoader(flagLevels).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, w := range table.Worlds() {
		fmt.Println(strings.ToUpper(string(w)))
		fmt.Printf("  %-3s  %-20s  %7s  %5s  %5s  %6s  %s\n", "#", "Name", "Gravity", "Wind", "Fuel", "Pad", "Notes")
		for _, p := range table.Levels(w) {
			fmt.Printf("  %-3d  %-20s  %7.2f  %5.1f  %5.0f  %6.1f  %s\n",
				p.LevelNumber, p.Name, p.Gravity, p.WindStrength, p.StartingFuel, p.PlatformWidth, notes(p))
		}
		fmt.Println()
	}
	fmt.Println("Run 'lander play --world <world> --level <n>' to fly a level.")
}

func notes(p levels.Params) string {
	var parts []string
	if m := p.PlatformMotion; m != nil {
		parts = append(parts, fmt.Sprintf("%s pad", m.Kind))
	}
	if n := len(p.Hazards()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d hazard groups", n))
	}
	if p.Visibility > 0 && p.Visibility < 1 {
		parts = append(parts, fmt.Sprintf("visibility %.0f%%", p.Visibility*100))
	}
	if p.WaveHeight > 0 {
		parts = append(parts, fmt.Sprintf("waves %.1fm", p.WaveHeight))
	}
	return strings.Join(parts, ", ")
}
