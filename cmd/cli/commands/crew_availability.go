package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/conflict"
	"github.com/derbyops/crewcall/pkg/core/services"
)

// CrewAvailabilityCmd creates the crewAvailability command
func CrewAvailabilityCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crewAvailability <form_id> <crew_id> <role_id>",
		Short: "Show eligible applicants for a crew slot with conflict status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, _ := cmd.Flags().GetString("game")

			app.Logger.Debug("crewAvailability command",
				zap.String("form_id", args[0]),
				zap.String("crew_id", args[1]),
				zap.String("role_id", args[2]),
				zap.String("game_id", gameID))

			result, err := services.CrewAvailability(app.Ctx, app.Store, app.Logger, args[0], args[1], gameID, args[2])
			if err != nil {
				return err
			}

			header := fmt.Sprintf("%s on crew %s", result.Role.Name, result.Crew.Name)
			if result.Game != nil {
				header += fmt.Sprintf(" (%s)", result.Game.Name)
			}
			fmt.Printf("\nCandidates for %s — %d open of %d:\n\n", header, result.Open, result.Total)

			for _, cand := range result.Candidates {
				marker := "✓"
				switch cand.Entry.Status {
				case conflict.Swappable:
					marker = "~"
				case conflict.NonSwappable:
					marker = "✗"
				}
				fmt.Printf("  %s %-30s %-22s %d games\n",
					marker,
					cand.OfficialName,
					cand.Entry.Application.Status,
					cand.Entry.GameCount)
			}
			fmt.Println("\n  ✓ free   ~ swappable conflict   ✗ hard conflict")
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("game", "", "Game ID when targeting a specific game")

	return cmd
}
