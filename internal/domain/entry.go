package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// EntryID is a server-assigned log identifier kept verbatim. The service may
// send it as a JSON number or string; numbers are re-encoded as numbers.
type EntryID string

func (id *EntryID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = EntryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("entry id must be a number or string")
	}
	*id = EntryID(n.String())
	return nil
}

func (id EntryID) MarshalJSON() ([]byte, error) {
	if id != "" {
		if _, err := strconv.ParseFloat(string(id), 64); err == nil {
			return []byte(id), nil
		}
	}
	return json.Marshal(string(id))
}

// LogEntry is one server-persisted outcome as the client sees it.
type LogEntry struct {
	ID             EntryID `json:"id"`
	Status         Status  `json:"status"`
	ResponseTimeMS float64 `json:"response_time_ms"`
	CheckedAt      string  `json:"checked_at"`
}

// ConnectionLog is the stored form of a reported outcome.
type ConnectionLog struct {
	ID             int64
	Status         Status
	ResponseTimeMS float64
	CheckedAt      time.Time
}

// Entry converts the row to its wire form with checked_at rendered in loc.
func (c ConnectionLog) Entry(loc *time.Location) LogEntry {
	if loc == nil {
		loc = time.UTC
	}
	return LogEntry{
		ID:             EntryID(strconv.FormatInt(c.ID, 10)),
		Status:         c.Status,
		ResponseTimeMS: c.ResponseTimeMS,
		CheckedAt:      c.CheckedAt.In(loc).Format(time.RFC3339Nano),
	}
}
