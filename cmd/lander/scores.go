package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rocket-lander/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores [world] [level]",
	Short: "Show the best landings",
	Long: `Display the top 10 landings, optionally for one world or one level.

Examples:
  lander scores
  lander scores moon
  lander scores moon 2
  lander scores moon --clear`,
	Args: cobra.MaximumNArgs(2),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the landings of the world (all worlds if none given)")
}

func runScores(_ *cobra.Command, args []string) {
	var world string
	var level int
	if len(args) > 0 {
		world = args[0]
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Error: invalid level %q\n", args[1])
			os.Exit(1)
		}
		level = n
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening leaderboard database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearLandings(world); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Landings cleared.")
		return
	}

	landings, err := store.TopLandings(world, level, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving landings: %v\n", err)
		os.Exit(1)
	}

	title := "all worlds"
	switch {
	case level > 0:
		title = fmt.Sprintf("%s level %d", world, level)
	case world != "":
		title = world
	}
	fmt.Printf("Best Landings - %s\n\n", title)

	if len(landings) == 0 {
		fmt.Println("No landings recorded yet.")
		fmt.Println()
		fmt.Println("Run 'lander play' and touch down softly to get on the board!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-5s  %-6s  %-6s  %-7s  %s\n", "Rank", "World", "Level", "Score", "Fuel", "V m/s", "Date")
	fmt.Printf("  %-4s  %-10s  %-5s  %-6s  %-6s  %-7s  %s\n", "----", "-----", "-----", "-----", "----", "-----", "----")
	for i, l := range landings {
		fmt.Printf("  %-4d  %-10s  %-5d  %-6d  %-6.0f  %-7.2f  %s\n",
			i+1, l.World, l.Level, l.Score, l.FuelRemaining, l.Velocity, l.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if world != "" {
		if stats, err := store.WorldStats(world); err == nil && stats.Landings > 0 {
			fmt.Printf("%s: %d landings over %d levels, best %d, average %.0f, softest %.2f m/s\n",
				world, stats.Landings, stats.LevelsLanded, stats.HighScore, stats.AvgScore, stats.BestVelocity)
		}
		return
	}
	if all, err := store.AllWorldStats(); err == nil {
		for w, stats := range all {
			fmt.Printf("%s: %d landings, best %d, total %d\n", w, stats.Landings, stats.HighScore, stats.TotalScore)
		}
	}
}
