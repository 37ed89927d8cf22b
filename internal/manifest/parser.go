package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mirzapolat/visual-bereal-processor/internal/manifest/dto"
	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// LoadResult is the outcome of reading a manifest.
type LoadResult struct {
	// Moments are the well-formed entries, in manifest order.
	Moments []model.Moment

	// Malformed counts entries that were skipped because a required
	// field was missing or unparsable.
	Malformed int
}

// Load reads and parses the manifest at path.
//
// A missing or syntactically invalid file is an error and aborts the
// run. Malformed individual entries are skipped and counted, never
// fatal.
func Load(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	// Entries are decoded one by one so a single broken entry cannot
	// take down the whole file.
	var rawEntries []json.RawMessage
	if err := json.Unmarshal(data, &rawEntries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	result := &LoadResult{}
	for _, raw := range rawEntries {
		var post dto.JSONPost
		if err := json.Unmarshal(raw, &post); err != nil {
			result.Malformed++
			continue
		}
		moment, ok := toMoment(&post)
		if !ok {
			result.Malformed++
			continue
		}
		result.Moments = append(result.Moments, moment)
	}
	return result, nil
}

// toMoment converts a wire entry into a domain model. An entry needs
// both photo paths and a timestamp to be usable.
func toMoment(post *dto.JSONPost) (model.Moment, bool) {
	if post.Primary == nil || post.Primary.Path == "" {
		return model.Moment{}, false
	}
	if post.Secondary == nil || post.Secondary.Path == "" {
		return model.Moment{}, false
	}
	if post.TakenAt.IsZero() {
		return model.Moment{}, false
	}

	moment := model.Moment{
		PrimaryPath:   post.Primary.Path,
		SecondaryPath: post.Secondary.Path,
		TakenAt:       post.TakenAt.Time,
	}
	if post.Location != nil {
		moment.Location = &model.Location{
			Latitude:  post.Location.Latitude,
			Longitude: post.Location.Longitude,
		}
	}
	if post.Caption != nil {
		moment.Caption = *post.Caption
	}
	return moment, true
}
