package models

import "time"

// ActiveProgram marks which program a user is currently following. Its
// lifecycle is independent from program edits: a full-tree replace keeps the
// assignment, only deleting the program clears it.
type ActiveProgram struct {
	UserID    int64     `json:"user_id"`
	ProgramID int64     `json:"program_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
