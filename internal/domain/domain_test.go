package domain

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryID_AcceptsNumbersAndStrings(t *testing.T) {
	var entries []LogEntry
	body := `[{"id":7,"status":"UP","response_time_ms":12.5,"checked_at":"x"},
	          {"id":"a-1","status":"DOWN","response_time_ms":0,"checked_at":"y"}]`
	require.NoError(t, json.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, EntryID("7"), entries[0].ID)
	assert.Equal(t, EntryID("a-1"), entries[1].ID)

	out, err := json.Marshal(entries[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":7`)

	out, err = json.Marshal(entries[1])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":"a-1"`)
}

func TestEntryID_RejectsObjects(t *testing.T) {
	var e LogEntry
	err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &e)
	require.Error(t, err)
}

func TestProbeOutcome_Validate(t *testing.T) {
	cases := []struct {
		name string
		in   ProbeOutcome
		ok   bool
	}{
		{"up", ProbeOutcome{Status: StatusUp, ResponseTimeMS: 12.3}, true},
		{"down zero latency", ProbeOutcome{Status: StatusDown}, true},
		{"unknown status", ProbeOutcome{Status: "SIDEWAYS", ResponseTimeMS: 1}, false},
		{"missing status", ProbeOutcome{ResponseTimeMS: 1}, false},
		{"negative latency", ProbeOutcome{Status: StatusUp, ResponseTimeMS: -1}, false},
	}
	for _, c := range cases {
		err := c.in.Validate()
		if c.ok {
			assert.NoError(t, err, c.name)
		} else {
			assert.Error(t, err, c.name)
		}
	}
}

func TestConnectionLog_EntryUsesLocation(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	row := ConnectionLog{
		ID:             42,
		Status:         StatusUp,
		ResponseTimeMS: 33.333,
		CheckedAt:      time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	e := row.Entry(ist)
	assert.Equal(t, EntryID("42"), e.ID)
	assert.Equal(t, "2025-08-18T17:30:00+05:30", e.CheckedAt)
	assert.InDelta(t, 33.333, e.ResponseTimeMS, 1e-9)

	assert.Equal(t, "2025-08-18T12:00:00Z", row.Entry(nil).CheckedAt)
}
