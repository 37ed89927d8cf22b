// Package dto contains data transfer objects mirroring the JSON
// manifest of an export archive. These map the raw wire format; the
// manifest package converts them into domain models.
package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JSONPost is one entry of the posts.json manifest.
type JSONPost struct {
	Primary   *JSONMedia    `json:"primary"`
	Secondary *JSONMedia    `json:"secondary"`
	TakenAt   BeRealTime    `json:"takenAt"`
	Location  *JSONLocation `json:"location"`
	Caption   *string       `json:"caption"`
}

// JSONMedia is one photo reference inside an entry.
type JSONMedia struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// JSONLocation is the optional capture position of an entry.
type JSONLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BeRealTime handles the timestamp formats seen in export manifests.
// Archives have shipped both whole-second and fractional-second UTC
// timestamps.
type BeRealTime struct {
	time.Time
}

// timeLayouts are tried in order when parsing a timestamp.
var timeLayouts = []string{
	"2006-01-02T15:04:05.999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON parses a manifest timestamp.
func (t *BeRealTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty timestamp")
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", raw)
}

// MarshalJSON writes the timestamp in RFC 3339 form.
func (t BeRealTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}
