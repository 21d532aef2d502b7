package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// overlapCmd represents the overlap command
var overlapCmd = &cobra.Command{
	Use:   "overlap <steamid> <steamid> [steamid...]",
	Short: "Find games owned by every listed user",
	Long: `Fetch the game library of each listed Steam user and print the games
they all own. A library that cannot be fetched counts as empty; the
failure is reported but does not abort the comparison.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runOverlap,
}

func init() {
	rootCmd.AddCommand(overlapCmd)
}

func runOverlap(cmd *cobra.Command, args []string) error {
	logger.Info().Int("users", len(args)).Msg("Comparing game libraries")

	ctx := context.Background()
	result, err := engine.FindSharedGames(ctx, args)
	if err != nil {
		return err
	}

	fmt.Printf("\nComparing libraries of %d users:\n", len(result.Requested))
	for _, id := range result.Requested {
		name := result.Players[id]
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("- %s  %s", name, id)
		if fetchErr, failed := result.Errors[id]; failed {
			fmt.Printf("  [library unavailable: %v]", fetchErr)
		}
		fmt.Println()
	}

	if len(result.Shared) == 0 {
		fmt.Println("\nNo games owned by everyone.")
		return nil
	}

	fmt.Printf("\n%d games owned by all %d users:\n", len(result.Shared), len(result.Requested))
	fmt.Println(strings.Repeat("-", 80))
	for _, game := range result.Shared {
		fmt.Printf("• %s [%d]\n", game.Name, game.AppID)
	}

	return nil
}
