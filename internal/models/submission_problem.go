package models

// SubmissionProblem groups all submissions uploaded for a problem slug. The
// slug is the natural key; a re-upload replaces the submission list wholesale.
type SubmissionProblem struct {
	ID          string       `bson:"_id" json:"id"`
	Slug        string       `bson:"slug" json:"slug"`
	Submissions []Submission `bson:"submissions" json:"submissions"`
}
