package models

import "time"

// Schedule is a weekly time slot attached to a subject.
type Schedule struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Subject is a course owned by the teacher identified by TeacherIdentifier.
type Subject struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	TeacherIdentifier string     `json:"teacher_identifier"`
	Schedules         []Schedule `json:"schedules"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
