package models

// DialogStep names the states of the admin subject-management dialog.
type DialogStep string

const (
	// StepAwaitingSubjectName waits for the name of a subject being added.
	StepAwaitingSubjectName DialogStep = "awaiting_subject_name"
	// StepAwaitingNewName waits for the replacement name of SubjectID.
	StepAwaitingNewName DialogStep = "awaiting_new_name"
)

// DialogState is the per-user dialog tag plus its payload. It lives outside
// the core stores, keyed by the caller, and expires on its own.
type DialogState struct {
	Step      DialogStep `json:"step"`
	SubjectID string     `json:"subject_id,omitempty"`
	OldName   string     `json:"old_name,omitempty"`
}
