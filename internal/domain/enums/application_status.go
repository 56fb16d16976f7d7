package enums

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}
