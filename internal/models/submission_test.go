package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSubmissionTimeUTC(t *testing.T) {
	parsed, err := ParseSubmissionTime("2025-12-01T18:30:00Z")
	require.NoError(t, err)

	_, offset := parsed.Zone()
	require.Equal(t, 0, offset)
	require.Equal(t, time.Date(2025, 12, 1, 18, 30, 0, 0, time.UTC), parsed.UTC())
}

func TestParseSubmissionTimeNumericOffset(t *testing.T) {
	parsed, err := ParseSubmissionTime("2025-12-01T20:20:07+01:00")
	require.NoError(t, err)

	_, offset := parsed.Zone()
	require.Equal(t, 3600, offset)
	require.Equal(t, time.Date(2025, 12, 1, 19, 20, 7, 0, time.UTC), parsed.UTC())
}

func TestParseSubmissionTimeNamedZone(t *testing.T) {
	parsed, err := ParseSubmissionTime("Mon, 01 Dec 2025 08:20:07PM CET")
	require.NoError(t, err)

	name, offset := parsed.Zone()
	require.Equal(t, "CET", name)
	require.Equal(t, 3600, offset)
	require.Equal(t, time.Date(2025, 12, 1, 19, 20, 7, 0, time.UTC), parsed.UTC())
}

func TestParseSubmissionTimeMidnightAMPM(t *testing.T) {
	parsed, err := ParseSubmissionTime("Thu, 04 Dec 2025 12:00:00AM CET")
	require.NoError(t, err)

	require.Equal(t, 0, parsed.Hour())
	require.Equal(t, 4, parsed.Day())
}

func TestParseSubmissionTimeUnknownZone(t *testing.T) {
	_, err := ParseSubmissionTime("Mon, 01 Dec 2025 08:20:07PM XYZ")
	require.Error(t, err)
}

func TestParseSubmissionTimeGarbage(t *testing.T) {
	_, err := ParseSubmissionTime("yesterday-ish")
	require.Error(t, err)
}
