package models

import "time"

// Subject is a course/topic owning one first-come-first-served queue.
// Names are unique under case-insensitive comparison.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectNameMaxLen bounds subject names after trimming whitespace.
const SubjectNameMaxLen = 100
