package models

import "time"

// AttendanceStatus marks a student's presence for one day. A student with
// no record yet for the day is reported with a null status.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// AttendanceRecord is one student's mark for one calendar day.
type AttendanceRecord struct {
	ID        string            `db:"id" json:"id"`
	SchoolID  string            `db:"school_id" json:"school_id"`
	StudentID string            `db:"student_id" json:"student_id"`
	Date      time.Time         `db:"date" json:"date"`
	Status    *AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// AttendanceEntry pairs a student with their mark for the requested day.
type AttendanceEntry struct {
	StudentID string            `db:"student_id" json:"student_id"`
	FullName  string            `db:"full_name" json:"full_name"`
	RollNo    string            `db:"roll_no" json:"roll_no"`
	Image     *string           `db:"image" json:"image,omitempty"`
	Status    *AttendanceStatus `db:"status" json:"status"`
}

// AttendanceSummary carries per-status counts for a day's roster.
type AttendanceSummary struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	Unmarked int `json:"unmarked"`
}
