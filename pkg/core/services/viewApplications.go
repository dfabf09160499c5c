package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/derbyops/crewcall/pkg/core/model"
	"github.com/derbyops/crewcall/pkg/core/roster"
)

// ApplicationRow is one application prepared for display
type ApplicationRow struct {
	Application  *model.Application
	OfficialName string
	GameCount    int
}

// ViewApplicationsResult contains applications grouped for rendering
type ViewApplicationsResult struct {
	Form *model.ApplicationForm
	Rows []ApplicationRow
	// CountsByStatus covers every status present on the form
	CountsByStatus map[model.ApplicationStatus]int
}

// FormSnapshotStore defines the database operations needed to build an
// availability index
type FormSnapshotStore interface {
	LoadFormSnapshot(ctx context.Context, formID string) (*roster.Snapshot, error)
}

// ViewApplications lists a form's applications in the given statuses, sorted
// by official name. With no statuses it lists the whole hiring pipeline
func ViewApplications(ctx context.Context, store FormSnapshotStore, logger *zap.Logger, formID string, statuses []model.ApplicationStatus) (*ViewApplicationsResult, error) {
	logger.Debug("Loading form snapshot", zap.String("form_id", formID))
	snap, err := store.LoadFormSnapshot(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form snapshot: %w", err)
	}

	idx := roster.NewIndex(snap)

	if len(statuses) == 0 {
		statuses = []model.ApplicationStatus{
			model.Applied, model.InvitationPending, model.Invited,
			model.AssignmentPending, model.Assigned,
		}
	}

	apps := idx.ApplicationsInStatuses(statuses...)
	rows := make([]ApplicationRow, len(apps))
	for i, app := range apps {
		name := ""
		if o := idx.Official(app.OfficialID); o != nil {
			name = o.Name
		}
		rows[i] = ApplicationRow{
			Application:  app,
			OfficialName: name,
			GameCount:    idx.GameCount(app.OfficialID),
		}
	}

	counts := make(map[model.ApplicationStatus]int)
	for status, group := range idx.ApplicationsByStatus() {
		counts[status] = len(group)
	}

	logger.Info("Applications loaded",
		zap.String("form_id", formID),
		zap.Int("shown", len(rows)),
		zap.Int("total", len(snap.Applications)))

	return &ViewApplicationsResult{
		Form:           snap.Form,
		Rows:           rows,
		CountsByStatus: counts,
	}, nil
}
