// lander is a terminal rocket-landing game.
//
// Usage:
//
//	lander play              - Fly a level (or pick one from the menu)
//	lander menu              - Level picker, leaderboard and flights in a loop
//	lander levels            - List the level table
//	lander scores [world]    - Show the best landings
//	lander serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible wind
//	--db <path>           - Set database path (default: ~/.lander/lander.db)
//	--config <path>       - Custom lander config YAML
//	--levels <path>       - Custom level table YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log <path>          - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lander",
	Short: "Rocket Lander - land a rocket in your terminal",
	Long: `Rocket Lander puts you at the controls of a rocket above a landing pad.
Fight gravity and wind, watch your fuel, and touch down slowly and upright.

Available commands:
  play     - Fly a level directly
  menu     - Interactive level picker
  levels   - Show the level table
  scores   - View the leaderboard
  serve    - Start SSH server for remote play

Examples:
  lander play --world moon --level 2
  lander menu --difficulty hard
  lander serve --ssh :2222
  lander scores moon`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lander/lander.db", "Path to leaderboard database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom lander config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to custom level table YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
