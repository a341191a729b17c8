package domain

type IntakeStatus string

const (
	StatusEmpty    IntakeStatus = "empty"
	StatusRejected IntakeStatus = "rejected"
	StatusPending  IntakeStatus = "pending"
	StatusComplete IntakeStatus = "complete"
)

// IntakeState is the single upload slot. File is set only while pending or
// complete; Reason is set only while rejected.
type IntakeState struct {
	Status IntakeStatus    `json:"status"`
	File   *CandidateFile  `json:"file,omitempty"`
	Reason RejectionReason `json:"reason,omitempty"`
}

func EmptyIntakeState() IntakeState {
	return IntakeState{Status: StatusEmpty}
}

// Submit is valid from every state and always replaces the slot wholesale.
func (s IntakeState) Submit(f CandidateFile) IntakeState {
	reason, ok := ValidateCandidate(f)
	if !ok {
		return IntakeState{Status: StatusRejected, Reason: reason}
	}
	file := f
	return IntakeState{Status: StatusPending, File: &file}
}

// Complete only moves pending to complete; any other state is returned as is.
func (s IntakeState) Complete() IntakeState {
	if s.Status != StatusPending {
		return s
	}
	return IntakeState{Status: StatusComplete, File: s.File}
}

func (s IntakeState) Reset() IntakeState {
	return EmptyIntakeState()
}
