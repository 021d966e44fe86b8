package export

// Roster is the tabular view of one subject's queue handed to the renderers.
type Roster struct {
	Subject string
	Rows    []RosterRow
}

// RosterRow is a single queue entry, already formatted for display.
type RosterRow struct {
	Position int
	Student  string
	JoinedAt string
}

var rosterHeaders = []string{"#", "Student", "Joined At"}
