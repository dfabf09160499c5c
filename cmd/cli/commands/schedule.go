package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/services"
)

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule <event_id>",
		Short: "Show an event's games and which crew staffs each role group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roleGroups, _ := cmd.Flags().GetStringSlice("role-groups")

			app.Logger.Debug("schedule command",
				zap.String("event_id", args[0]),
				zap.Strings("role_groups", roleGroups))

			result, err := services.ViewSchedule(app.Ctx, app.Store, app.Logger, args[0], roleGroups)
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule for %s\n\n", result.Event.Name)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := "Game\tStart"
			for _, rg := range result.RoleGroups {
				header += "\t" + rg.Name
			}
			fmt.Fprintln(w, header)

			loc := result.Event.Location()
			for _, row := range result.Games {
				line := fmt.Sprintf("%s\t%s", row.Game.Name, row.Game.Start.In(loc).Format("Mon 02 Jan 15:04"))
				for _, rg := range result.RoleGroups {
					crew := row.CrewByRoleGroup[rg.ID]
					if crew == nil {
						line += "\t-"
					} else {
						line += "\t" + crew.Name
					}
				}
				fmt.Fprintln(w, line)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to render schedule table: %w", err)
			}

			fmt.Printf("\n%d static crew(s), %d event crew(s)\n\n", len(result.StaticCrews), len(result.EventCrews))

			return nil
		},
	}

	cmd.Flags().StringSlice("role-groups", nil, "Restrict the view to these role group IDs")

	return cmd
}
