// ProgressRecord, NoteRecord and UserProfile are the central entities of the domain.
package core

import (
	"fmt"
	"time"
)

// Difficulty is the three-level problem difficulty scale.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists all levels in rank order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Rank returns the ordering value of a difficulty (Easy < Medium < Hard).
// Unknown values rank last.
func (d Difficulty) Rank() int {
	switch d {
	case Easy:
		return 1
	case Medium:
		return 2
	case Hard:
		return 3
	}
	return 4
}

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Collection names in the remote document store.
const (
	CollectionUsers    = "users"
	CollectionProgress = "userProgress"
	CollectionNotes    = "userNotes"
)

// ProgressKey builds the composite document id for a (uid, problemID) pair.
// Both progress records and notes use this scheme, so a user has at most one
// of each per problem.
func ProgressKey(uid string, problemID int) string {
	return fmt.Sprintf("%s_%d", uid, problemID)
}

// ProgressRecord is the per-user solved/bookmark state for one problem.
// ProblemTitle is a denormalized copy of the catalog title at the time of the
// write; the record is joined back to the catalog by ProblemID only.
type ProgressRecord struct {
	UID          string     `json:"uid"`
	ProblemID    int        `json:"problemId"`
	ProblemTitle string     `json:"problemTitle"`
	Solved       bool       `json:"solved"`
	Bookmarked   bool       `json:"bookmarked"`
	SolvedAt     *time.Time `json:"solvedAt,omitempty"`
	BookmarkedAt *time.Time `json:"bookmarkedAt,omitempty"`
}

// NoteRecord is a per-user free-text annotation for one problem.
// At most one note exists per (uid, problemId) pair.
type NoteRecord struct {
	UID          string    `json:"uid"`
	NoteID       string    `json:"noteId"`
	ProblemID    int       `json:"problemId"`
	ProblemTitle string    `json:"problemTitle"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserProfile is the per-user account document.
type UserProfile struct {
	UID            string    `json:"uid"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"displayName"`
	CustomUsername string    `json:"customUsername,omitempty"`
	PhotoURL       string    `json:"photoURL,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastLoginAt    time.Time `json:"lastLoginAt"`
}
