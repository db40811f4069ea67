package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// CallMeta holds descriptive metadata about a sales call
type CallMeta struct {
	RepName     string
	CompanyName string
	CallDate    time.Time
	CallType    string
}

// Segment is one contiguous utterance within a transcript
type Segment struct {
	Speaker     types.SpeakerRole
	SpeakerName string
	Text        string
	Start       time.Duration // offset from call beginning, 0 when unknown
	End         time.Duration
}

// Timed reports whether the segment carries timing information
func (s Segment) Timed() bool {
	return s.Start > 0 || s.End > 0
}

// Transcript is a normalized call transcript. It is immutable once produced
// by a provider; the pipeline only reads it.
type Transcript struct {
	ID       types.CallID
	Meta     CallMeta
	Segments []Segment
}

// Validate checks that the transcript is well-formed enough to process
func (t *Transcript) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid transcript")
	}
	if len(t.Segments) == 0 {
		return goerr.New("transcript has no segments", goerr.V("call_id", t.ID))
	}
	for _, seg := range t.Segments {
		if strings.TrimSpace(seg.Text) != "" {
			return nil
		}
	}
	return goerr.New("transcript has no segment text", goerr.V("call_id", t.ID))
}

// FullText renders the transcript as speaker-labeled lines, one segment per
// line, in the form "[MM:SS] NAME: text". The timestamp prefix is omitted
// for untimed segments.
func (t *Transcript) FullText() string {
	lines := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		label := seg.SpeakerName
		if label == "" {
			label = strings.ToUpper(seg.Speaker.String())
		}
		if seg.Timed() {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s", FormatTimestamp(seg.Start), label, seg.Text))
		} else {
			lines = append(lines, fmt.Sprintf("%s: %s", label, seg.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatTimestamp renders an offset as MM:SS. Minutes are not wrapped at an
// hour so long calls stay unambiguous (e.g. 75:30).
func FormatTimestamp(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
