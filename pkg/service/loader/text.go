package loader

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/m-mizutani/goerr/v2"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

var (
	meetingLineRe      = regexp.MustCompile(`(?i)^meeting:\s*(.+)$`)
	participantsHeadRe = regexp.MustCompile(`(?i)^participants\s*:$`)
	transcriptHeadRe   = regexp.MustCompile(`(?i)^(meeting\s+)?transcript\s*:?$`)
	timedLineRe        = regexp.MustCompile(`^\[(\d{1,3}):(\d{2})\]\s*(.+?):\s*(.*)$`)
	participantLineRe  = regexp.MustCompile(`^[-•*]\s*([^(]+?)(?:\s*\(([^)]*)\))?\s*-\s*\S+@\S+$`)
)

// repRoleKeywords marks a participant as the internal side of the call
var repRoleKeywords = []string{"account executive", "sales", "customer success", "solutions engineer"}

type participant struct {
	name string
	role string
}

// loadTextFile parses a plain text transcript. Speaker-labeled lines become
// individual segments; otherwise each paragraph block becomes one segment.
func loadTextFile(path string) (*model.Transcript, error) {
	// #nosec G304 - path comes from the configured transcript directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read transcript file", goerr.V("path", path))
	}

	meta, segments := parseTextTranscript(string(data))
	transcript := &model.Transcript{
		ID:       types.CallID(fileStem(path)),
		Meta:     meta,
		Segments: segments,
	}
	if err := transcript.Validate(); err != nil {
		return nil, err
	}
	return transcript, nil
}

// parseTextTranscript splits a raw transcript into header metadata and
// segments. A "Meeting:" header line names the company and a "Participants:"
// bullet block names the attendees; both feed best-effort inference and are
// excluded from the transcript body.
func parseTextTranscript(raw string) (model.CallMeta, []model.Segment) {
	var meta model.CallMeta
	var participants []participant
	var body []string

	inParticipants := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := meetingLineRe.FindStringSubmatch(trimmed); m != nil {
			meta.CompanyName = companyFromMeetingLine(m[1])
			continue
		}
		if participantsHeadRe.MatchString(trimmed) {
			inParticipants = true
			continue
		}
		if inParticipants {
			if m := participantLineRe.FindStringSubmatch(trimmed); m != nil {
				participants = append(participants, participant{
					name: strings.TrimSpace(m[1]),
					role: strings.TrimSpace(m[2]),
				})
				continue
			}
			// blank lines separate bullets; anything else ends the block
			inParticipants = trimmed == ""
		}
		if transcriptHeadRe.MatchString(trimmed) {
			continue
		}
		body = append(body, line)
	}

	segments := parseSegments(body)
	if len(segments) == 0 {
		segments = paragraphSegments(body)
	}

	meta.RepName = inferRepName(participants, segments)
	if meta.RepName != "" {
		for i := range segments {
			if strings.EqualFold(strings.TrimSpace(segments[i].SpeakerName), meta.RepName) {
				segments[i].Speaker = types.SpeakerRep
			}
		}
	}
	return meta, segments
}

// companyFromMeetingLine extracts the company from a "Meeting:" header. The
// company sits before the "<>" or " - " separator when one is present.
func companyFromMeetingLine(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.Index(v, "<>"); i >= 0 {
		return strings.TrimSpace(v[:i])
	}
	if i := strings.Index(v, " - "); i >= 0 {
		return strings.TrimSpace(v[:i])
	}
	return v
}

// parseSegments reads speaker-labeled lines, either "[MM:SS] NAME: text" or
// "NAME: text". Unlabeled lines continue the previous utterance. Returns nil
// when no line carries a speaker label so the caller can fall back to
// paragraph blocks.
func parseSegments(lines []string) []model.Segment {
	var segments []model.Segment
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := timedLineRe.FindStringSubmatch(trimmed); m != nil {
			name := strings.TrimSpace(m[3])
			text := strings.TrimSpace(m[4])
			if validSpeakerLabel(name) && text != "" {
				minutes, _ := strconv.Atoi(m[1])
				seconds, _ := strconv.Atoi(m[2])
				segments = append(segments, model.Segment{
					Speaker:     roleForLabel(name),
					SpeakerName: name,
					Text:        text,
					Start:       time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second,
				})
				continue
			}
		}

		if name, text, ok := splitSpeakerLine(trimmed); ok {
			segments = append(segments, model.Segment{
				Speaker:     roleForLabel(name),
				SpeakerName: name,
				Text:        text,
			})
			continue
		}

		if len(segments) > 0 {
			segments[len(segments)-1].Text += " " + trimmed
		}
	}
	return segments
}

// paragraphSegments turns blank-line separated blocks into one segment each,
// used when a transcript carries no speaker labels at all
func paragraphSegments(lines []string) []model.Segment {
	var segments []model.Segment
	var block []string

	flush := func() {
		if len(block) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(block, " "))
		block = block[:0]
		if text == "" {
			return
		}
		segments = append(segments, model.Segment{
			Speaker: types.SpeakerUnknown,
			Text:    text,
		})
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		block = append(block, trimmed)
	}
	flush()
	return segments
}

// splitSpeakerLine splits "NAME: text" when the prefix looks like a speaker
// label: at most three words, at least one letter, not a URL scheme
func splitSpeakerLine(line string) (string, string, bool) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return "", "", false
	}
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(line[:i]), "[]"))
	text := strings.TrimSpace(line[i+1:])
	if name == "" || text == "" || strings.HasPrefix(text, "//") {
		return "", "", false
	}
	if !validSpeakerLabel(name) {
		return "", "", false
	}
	return name, text, true
}

func validSpeakerLabel(name string) bool {
	if name == "" || len(strings.Fields(name)) > 3 {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// roleForLabel classifies a speaker label by its tokens. Plain names stay
// unknown until rep inference runs.
func roleForLabel(label string) types.SpeakerRole {
	for _, tok := range strings.Fields(strings.ToLower(label)) {
		switch strings.Trim(tok, "[]():") {
		case "rep", "sales", "ae", "seller", "salesperson":
			return types.SpeakerRep
		case "prospect", "customer", "client", "buyer":
			return types.SpeakerProspect
		}
	}
	return types.SpeakerUnknown
}

// inferRepName picks the rep: an explicitly rep-labeled speaker wins, then a
// participant whose role looks internal, then the first participant, then the
// first named speaker
func inferRepName(participants []participant, segments []model.Segment) string {
	for _, seg := range segments {
		if seg.Speaker == types.SpeakerRep && seg.SpeakerName != "" {
			return seg.SpeakerName
		}
	}
	for _, p := range participants {
		role := strings.ToLower(p.role)
		for _, kw := range repRoleKeywords {
			if strings.Contains(role, kw) {
				return p.name
			}
		}
	}
	if len(participants) > 0 {
		return participants[0].name
	}
	for _, seg := range segments {
		if seg.SpeakerName != "" {
			return seg.SpeakerName
		}
	}
	return ""
}
