package model

// ApplicationStatus is the state of an application in the hiring pipeline.
// The assignment axis runs Applied -> AssignmentPending -> Assigned; the
// invitation states sit between Applied and AssignmentPending. Terminal states
// only change via the email-driven flows, which live outside this engine
type ApplicationStatus string

const (
	Applied           ApplicationStatus = "APPLIED"
	InvitationPending ApplicationStatus = "INVITATION_PENDING"
	Invited           ApplicationStatus = "INVITED"
	AssignmentPending ApplicationStatus = "ASSIGNMENT_PENDING"
	Assigned          ApplicationStatus = "ASSIGNED"

	Withdrawn        ApplicationStatus = "WITHDRAWN"
	Declined         ApplicationStatus = "DECLINED"
	Rejected         ApplicationStatus = "REJECTED"
	RejectionPending ApplicationStatus = "REJECTION_PENDING"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case Applied, InvitationPending, Invited, AssignmentPending, Assigned,
		Withdrawn, Declined, Rejected, RejectionPending:
		return true
	}
	return false
}

// IsTerminal reports whether the status is outside the hiring pipeline
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case Withdrawn, Declined, Rejected, RejectionPending:
		return true
	}
	return false
}

// ForwardsForAssignment advances one step toward Assigned when a crew
// assignment is created for the application's official
func (s ApplicationStatus) ForwardsForAssignment() ApplicationStatus {
	if s.IsTerminal() {
		return s
	}
	switch s {
	case AssignmentPending, Assigned:
		return Assigned
	default:
		return AssignmentPending
	}
}

// BackwardsForUnassignment retreats one step toward Applied when a crew
// assignment is removed. It is the inverse of ForwardsForAssignment along the
// assignment axis
func (s ApplicationStatus) BackwardsForUnassignment() ApplicationStatus {
	if s.IsTerminal() {
		return s
	}
	switch s {
	case Assigned:
		return AssignmentPending
	case AssignmentPending:
		return Applied
	default:
		return s
	}
}
