package models

import (
	"fmt"
	"time"
)

// Submission is a single CS50 submission record for a problem slug. It has no
// identity of its own; the owning SubmissionProblem keys the list by slug.
type Submission struct {
	Archive        string    `bson:"archive" json:"archive"`
	ChecksPassed   *int      `bson:"checks_passed" json:"checks_passed"`
	ChecksRun      *int      `bson:"checks_run" json:"checks_run"`
	GithubID       int64     `bson:"github_id" json:"github_id"`
	GithubURL      string    `bson:"github_url" json:"github_url"`
	GithubUsername string    `bson:"github_username" json:"github_username"`
	Name           *string   `bson:"name" json:"name"`
	Slug           string    `bson:"slug" json:"slug"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
}

// submit50 exports mix machine timestamps with textual dates carrying a
// 12-hour clock and a named zone, e.g. "Mon, 01 Dec 2025 08:53:16PM CET".
var submissionTimeLayouts = []string{
	time.RFC3339Nano,
	"Mon, 2 Jan 2006 03:04:05PM MST",
	"Mon, 2 Jan 2006 3:04:05PM MST",
}

// Offsets for the zone abbreviations seen in submission exports. time.Parse
// leaves unknown abbreviations at offset zero, so named zones are rebound to
// their real offsets after parsing.
var submissionZoneOffsets = map[string]int{
	"UTC":  0,
	"GMT":  0,
	"CET":  1 * 60 * 60,
	"CEST": 2 * 60 * 60,
	"EST":  -5 * 60 * 60,
	"EDT":  -4 * 60 * 60,
}

// ParseSubmissionTime normalizes a submission timestamp string into an instant
// with its original UTC offset preserved.
func ParseSubmissionTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range submissionTimeLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			lastErr = err
			continue
		}

		if name, offset := parsed.Zone(); offset == 0 && name != "" && name != "UTC" {
			known, ok := submissionZoneOffsets[name]
			if !ok {
				return time.Time{}, fmt.Errorf("unknown time zone abbreviation %q in %q", name, value)
			}
			parsed = time.Date(
				parsed.Year(), parsed.Month(), parsed.Day(),
				parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
				time.FixedZone(name, known),
			)
		}

		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format %q: %w", value, lastErr)
}
