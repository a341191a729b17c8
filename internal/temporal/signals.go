package temporal

const (
	SubmitFileUpdateName   = "submitFile"
	ResetIntakeUpdateName  = "resetIntake"
	IntakeStateQueryName   = "intakeState"
	CloseSessionSignalName = "closeSession"
)
