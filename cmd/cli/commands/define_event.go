package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/services"
)

// DefineEventCmd creates the defineEvent command
func DefineEventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defineEvent <league_id> <name> <rrule> <start_date> <game_count>",
		Short: "Create an event with a game schedule generated from a recurrence rule",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameCount, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("game_count must be a number: %w", err)
			}

			loc, err := time.LoadLocation(app.Cfg.Timezone)
			if err != nil {
				return fmt.Errorf("invalid configured timezone: %w", err)
			}
			start, err := time.ParseInLocation("2006-01-02T15:04", args[3], loc)
			if err != nil {
				return fmt.Errorf("start_date must look like 2006-01-02T15:04: %w", err)
			}

			gameLength, _ := cmd.Flags().GetInt("game-length")

			app.Logger.Debug("defineEvent command",
				zap.String("league_id", args[0]),
				zap.String("rrule", args[2]),
				zap.Int("game_count", gameCount))

			result, err := services.DefineEvent(app.Ctx, app.Store, app.Cfg, app.Logger, services.DefineEventParams{
				LeagueID:          args[0],
				Name:              args[1],
				RRule:             args[2],
				Start:             start,
				GameCount:         gameCount,
				GameLengthMinutes: gameLength,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Event created successfully!\n\n")
			fmt.Printf("Event ID: %s\n", result.Event.ID)
			fmt.Printf("Name:     %s\n", result.Event.Name)
			fmt.Printf("Games:    %d\n\n", len(result.Games))

			for _, game := range result.Games {
				fmt.Printf("  %2d. %s  %s – %s\n",
					game.Order+1,
					game.Name,
					game.Start.In(loc).Format("2006-01-02 15:04"),
					game.End.In(loc).Format("15:04"))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("game-length", 0, "Game length in minutes (defaults to the configured value)")

	return cmd
}
