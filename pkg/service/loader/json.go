package loader

import (
	"encoding/json"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

type jsonTranscript struct {
	ID       string        `json:"id"`
	Metadata jsonMetadata  `json:"metadata"`
	Segments []jsonSegment `json:"segments"`
}

type jsonMetadata struct {
	RepName     string `json:"rep_name"`
	CompanyName string `json:"company_name"`
	CallDate    string `json:"call_date"`
	CallType    string `json:"call_type"`
}

type jsonSegment struct {
	SpeakerRole string  `json:"speaker_role"`
	SpeakerName string  `json:"speaker_name"`
	Text        string  `json:"text"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
}

// loadJSONFile decodes a structured transcript file. A missing id falls back
// to the file stem; an unparseable call_date is left as the zero time.
func loadJSONFile(path string) (*model.Transcript, error) {
	// #nosec G304 - path comes from the configured transcript directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read transcript file", goerr.V("path", path))
	}

	var raw jsonTranscript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse JSON transcript", goerr.V("path", path))
	}

	id := raw.ID
	if id == "" {
		id = fileStem(path)
	}

	segments := make([]model.Segment, 0, len(raw.Segments))
	for _, seg := range raw.Segments {
		segments = append(segments, model.Segment{
			Speaker:     types.NormalizeSpeakerRole(seg.SpeakerRole),
			SpeakerName: seg.SpeakerName,
			Text:        seg.Text,
			Start:       secondsToDuration(seg.StartTime),
			End:         secondsToDuration(seg.EndTime),
		})
	}

	transcript := &model.Transcript{
		ID: types.CallID(id),
		Meta: model.CallMeta{
			RepName:     raw.Metadata.RepName,
			CompanyName: raw.Metadata.CompanyName,
			CallDate:    parseCallDate(raw.Metadata.CallDate),
			CallType:    raw.Metadata.CallType,
		},
		Segments: segments,
	}
	if err := transcript.Validate(); err != nil {
		return nil, err
	}
	return transcript, nil
}

// parseCallDate accepts RFC3339 or plain dates. Anything else yields the zero
// time, which downstream renders as unknown.
func parseCallDate(v string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func secondsToDuration(v float64) time.Duration {
	if v <= 0 {
		return 0
	}
	return time.Duration(v * float64(time.Second))
}
