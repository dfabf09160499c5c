package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/services"
)

// ViewApplicationsCmd creates the viewApplications command
func ViewApplicationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewApplications <form_id>",
		Short: "List a form's applications, sorted by official name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formID := args[0]
			statusFlags, _ := cmd.Flags().GetStringSlice("status")

			var statuses []model.ApplicationStatus
			for _, s := range statusFlags {
				status := model.ApplicationStatus(s)
				if !status.IsValid() {
					return fmt.Errorf("unknown status %q", s)
				}
				statuses = append(statuses, status)
			}

			app.Logger.Debug("viewApplications command",
				zap.String("form_id", formID),
				zap.Strings("statuses", statusFlags))

			result, err := services.ViewApplications(app.Ctx, app.Store, app.Logger, formID, statuses)
			if err != nil {
				return err
			}

			fmt.Printf("\nApplications for form %s (%d shown):\n\n", result.Form.Slug, len(result.Rows))
			fmt.Printf("%-30s %-22s %s\n", "Official", "Status", "Games")
			fmt.Printf("%-30s %-22s %s\n", "------------------------------", "----------------------", "-----")
			for _, row := range result.Rows {
				fmt.Printf("%-30s %-22s %d\n", row.OfficialName, row.Application.Status, row.GameCount)
			}
			fmt.Println()

			fmt.Println("Counts by status:")
			for status, count := range result.CountsByStatus {
				fmt.Printf("  %-22s %d\n", status, count)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringSlice("status", nil, "Filter by status (repeatable)")

	return cmd
}
