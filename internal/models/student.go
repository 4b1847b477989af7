package models

// Student represents a learner known to the bridge. GithubID and
// GithubUsername are backfilled by the reconciliation import and may be unset.
type Student struct {
	ID             string `bson:"_id" json:"id"`
	Email          string `bson:"email" json:"email"`
	Name           string `bson:"name" json:"name"`
	GithubID       *int64 `bson:"github_id,omitempty" json:"github_id,omitempty"`
	GithubUsername string `bson:"github_username" json:"github_username"`
}
