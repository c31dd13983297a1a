package models

import (
	"strings"
	"time"
)

// EnrollmentStatus represents the lifecycle of an enrollment request.
type EnrollmentStatus string

// Pending is the only non-terminal status; Approved and Declined are final.
const (
	EnrollmentStatusPending  EnrollmentStatus = "Pending"
	EnrollmentStatusApproved EnrollmentStatus = "Approved"
	EnrollmentStatusDeclined EnrollmentStatus = "Declined"
)

// Equals compares statuses case-insensitively.
func (s EnrollmentStatus) Equals(other string) bool {
	return strings.EqualFold(string(s), other)
}

// Blocks reports whether an enrollment in this status prevents a new
// request for the same (student, subject) pair.
func (s EnrollmentStatus) Blocks() bool {
	return s == EnrollmentStatusPending || s == EnrollmentStatusApproved
}

// Enrollment binds a student to a subject with an approval decision.
// Student and teacher names are denormalized at request time for display.
type Enrollment struct {
	ID                string           `json:"id"`
	StudentIdentifier string           `json:"student_identifier"`
	StudentName       string           `json:"student_name"`
	SubjectID         string           `json:"subject_id"`
	SubjectName       string           `json:"subject_name"`
	TeacherIdentifier string           `json:"teacher_identifier"`
	TeacherName       string           `json:"teacher_name"`
	Status            EnrollmentStatus `json:"status"`
	RequestedAt       time.Time        `json:"requested_at"`
}

// EnrollmentDetail enriches an enrollment with the owning subject's
// schedules joined at read time. A deleted subject yields an empty slice.
type EnrollmentDetail struct {
	Enrollment
	Schedules []Schedule `json:"schedules"`
}

// EnrollmentFilter captures the supported listing filters. Status matches
// case-insensitively; the identifier filters are exact.
type EnrollmentFilter struct {
	TeacherIdentifier string
	StudentIdentifier string
	Status            string
}
