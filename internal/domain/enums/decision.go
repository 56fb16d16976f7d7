package enums

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

func (d Decision) Status() ApplicationStatus {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}
