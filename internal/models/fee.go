package models

import "time"

// FeeStatus reflects how much of a fee record has been collected.
type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "paid"
	FeeStatusPartial FeeStatus = "partial"
	FeeStatusPending FeeStatus = "pending"
)

// FeeRecord captures the yearly fee position of one student. Amounts are
// whole rupees. Status is derived from paid vs total on every write.
type FeeRecord struct {
	ID          string     `db:"id" json:"id"`
	SchoolID    string     `db:"school_id" json:"school_id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	TotalAmount int64      `db:"total_amount" json:"total_amount"`
	PaidAmount  int64      `db:"paid_amount" json:"paid_amount"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Status      FeeStatus  `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// FeeItem is a single line (tuition, bus, books, ...) of a fee record.
type FeeItem struct {
	ID          string `db:"id" json:"id"`
	FeeRecordID string `db:"fee_record_id" json:"fee_record_id"`
	FeeType     string `db:"fee_type" json:"fee_type"`
	Amount      int64  `db:"amount" json:"amount"`
	Paid        bool   `db:"paid" json:"paid"`
}

// FeeDetail joins a fee record with its student and line items.
type FeeDetail struct {
	FeeRecord
	StudentName string    `db:"student_name" json:"student_name"`
	RollNo      string    `db:"roll_no" json:"roll_no"`
	Class       string    `db:"class" json:"class"`
	Section     string    `db:"section" json:"section"`
	Items       []FeeItem `json:"items"`
}

// FeeSummary aggregates collection totals for a school.
type FeeSummary struct {
	TotalBilled      int64 `json:"total_billed"`
	TotalCollected   int64 `json:"total_collected"`
	TotalOutstanding int64 `json:"total_outstanding"`
	PaidCount        int   `json:"paid_count"`
	PartialCount     int   `json:"partial_count"`
	PendingCount     int   `json:"pending_count"`
}

// FeeFilter narrows fee listings.
type FeeFilter struct {
	Search string
	Status string
	Class  string
}

// FeeItemRequest is one line of a fee payload.
type FeeItemRequest struct {
	FeeType string `json:"fee_type" validate:"required,max=60"`
	Amount  int64  `json:"amount" validate:"gt=0"`
	Paid    bool   `json:"paid"`
}

// FeeRequest creates or updates a fee record. Totals are derived from
// the items, never taken from the client.
type FeeRequest struct {
	StudentID string           `json:"student_id" validate:"required,uuid"`
	DueDate   *time.Time       `json:"due_date,omitempty"`
	Items     []FeeItemRequest `json:"items" validate:"required,min=1,dive"`
}
