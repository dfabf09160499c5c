package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/roster"
	"github.com/derbyops/crewcall/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <form_id> <role_id> <crew_id> [official_id]",
		Short: "Assign an official to a crew slot, or blank the slot with --blank",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			blank, _ := cmd.Flags().GetBool("blank")

			var officialID string
			if len(args) > 3 {
				officialID = args[3]
			}
			if blank && officialID != "" {
				return fmt.Errorf("--blank and an official_id are mutually exclusive")
			}
			if !blank && officialID == "" {
				return fmt.Errorf("provide an official_id or pass --blank")
			}

			app.Logger.Debug("assign command",
				zap.String("form_id", args[0]),
				zap.String("role_id", args[1]),
				zap.String("crew_id", args[2]),
				zap.String("official_id", officialID),
				zap.Bool("blank", blank))

			result, err := services.AssignOfficial(app.Ctx, app.Store, app.Logger, args[0], args[1], args[2], officialID)
			if err != nil {
				if errors.Is(err, roster.ErrOfficialNotAvailable) {
					return fmt.Errorf("official %s has no live application for this form", officialID)
				}
				return err
			}

			if result.Official != nil {
				fmt.Printf("\n✓ Assigned %s as %s on crew %s\n", result.Official.Name, result.Role.Name, result.Crew.Name)
				if result.Displaced > 0 {
					fmt.Printf("  Displaced %d conflicting commitment(s)\n", result.Displaced)
				}
			} else {
				fmt.Printf("\n✓ Blanked %s on crew %s\n", result.Role.Name, result.Crew.Name)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("blank", false, "Clear the slot instead of assigning")

	return cmd
}
