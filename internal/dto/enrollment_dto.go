package dto

// EnrollmentImportResult summarizes a roster CSV import.
type EnrollmentImportResult struct {
	StudentsCreated    int `json:"students_created"`
	EnrollmentsCreated int `json:"enrollments_created"`
	RowsSkipped        int `json:"rows_skipped"`
}

// ReconcileResult summarizes a GitHub username reconciliation import.
type ReconcileResult struct {
	StudentsUpdated int `json:"students_updated"`
	RowsSkipped     int `json:"rows_skipped"`
	Unresolved      int `json:"unresolved"`
}
