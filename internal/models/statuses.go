package models

type ApplicationStatus string
type ChildStatus string
type BulkAction string

const (
	ApplicationStatusNew      ApplicationStatus = "NEW"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
	ApplicationStatusPartial  ApplicationStatus = "PARTIAL"

	ChildStatusPending  ChildStatus = "PENDING"
	ChildStatusApproved ChildStatus = "APPROVED"
	ChildStatusRejected ChildStatus = "REJECTED"

	BulkActionApprove BulkAction = "approve"
	BulkActionReject  BulkAction = "reject"
	BulkActionReset   BulkAction = "reset"
	BulkActionDelete  BulkAction = "delete"
)

// StatusPriority задает порядок сортировки заявок в админке:
// сначала одобренные, затем новые, затем отклоненные.
func StatusPriority(s ApplicationStatus) int {
	switch s {
	case ApplicationStatusApproved:
		return 1
	case ApplicationStatusNew:
		return 2
	case ApplicationStatusRejected:
		return 3
	default:
		return 4
	}
}
