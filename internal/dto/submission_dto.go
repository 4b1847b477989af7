package dto

import (
	"encoding/json"
	"fmt"

	"github.com/unibridge/bridge-go-api/internal/models"
)

// SubmissionImportItem is one submission object as it appears in a submit50
// export. Timestamp stays a string until parsed by the service.
type SubmissionImportItem struct {
	Archive        string  `json:"archive" validate:"required,url"`
	ChecksPassed   *int    `json:"checks_passed"`
	ChecksRun      *int    `json:"checks_run"`
	GithubID       int64   `json:"github_id" validate:"required"`
	GithubURL      string  `json:"github_url" validate:"required,url"`
	GithubUsername string  `json:"github_username" validate:"required"`
	Name           *string `json:"name"`
	Slug           string  `json:"slug" validate:"required"`
	Timestamp      string  `json:"timestamp" validate:"required"`
}

// UnmarshalJSON enforces that both checks counters are present. submit50
// exports always carry the two keys, with null for problems that have no
// check suite, so a missing key means a truncated or hand-edited record.
func (i *SubmissionImportItem) UnmarshalJSON(data []byte) error {
	type plain SubmissionImportItem
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	for _, key := range []string{"checks_passed", "checks_run"} {
		if _, ok := keys[key]; !ok {
			return fmt.Errorf("missing key %q", key)
		}
	}

	*i = SubmissionImportItem(decoded)
	return nil
}

// ToModel converts the wire item into a submission record, normalizing the
// timestamp.
func (i SubmissionImportItem) ToModel() (models.Submission, error) {
	parsed, err := models.ParseSubmissionTime(i.Timestamp)
	if err != nil {
		return models.Submission{}, err
	}

	return models.Submission{
		Archive:        i.Archive,
		ChecksPassed:   i.ChecksPassed,
		ChecksRun:      i.ChecksRun,
		GithubID:       i.GithubID,
		GithubURL:      i.GithubURL,
		GithubUsername: i.GithubUsername,
		Name:           i.Name,
		Slug:           i.Slug,
		Timestamp:      parsed,
	}, nil
}

// SubmissionUploadResult reports how many submissions an import wrote.
type SubmissionUploadResult struct {
	Slug             string `json:"slug"`
	SubmissionsAdded int    `json:"submissions_added"`
}

// SubmissionProblemResponse is the representation returned for a problem slug.
type SubmissionProblemResponse struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Submissions []models.Submission `json:"submissions"`
}

// NewSubmissionProblemResponse converts a submission problem model.
func NewSubmissionProblemResponse(problem models.SubmissionProblem) SubmissionProblemResponse {
	submissions := problem.Submissions
	if submissions == nil {
		submissions = []models.Submission{}
	}

	return SubmissionProblemResponse{
		ID:          problem.ID,
		Slug:        problem.Slug,
		Submissions: submissions,
	}
}
