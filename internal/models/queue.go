package models

import "time"

// QueueEntry records one user waiting for one subject. The composite key
// (UserID, SubjectID) is unique; Position is a storage-assigned sequence
// breaking ties between identical JoinedAt values.
type QueueEntry struct {
	Position  int64     `db:"position" json:"position"`
	UserID    int64     `db:"user_id" json:"user_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

// QueueEntryDetail enriches QueueEntry with the waiting user's display name.
type QueueEntryDetail struct {
	QueueEntry
	DisplayName string `db:"display_name" json:"display_name"`
}
