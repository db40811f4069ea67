package extract

import (
	"fmt"
	"strings"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/model/config"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// maxTranscriptChars bounds how much transcript text goes into one request,
// to stay inside model token limits. Matches the upstream pipeline's cap.
const maxTranscriptChars = 15000

// buildSystemPrompt creates the fixed system prompt describing the six
// categories and the extraction rules
func buildSystemPrompt(profile *config.ExtractionProfile, maxPerCategory int) string {
	var sb strings.Builder

	sb.WriteString("You are an expert analyst extracting actionable insights from sales call transcripts.\n\n")
	fmt.Fprintf(&sb, "Analyze the transcript and extract insights into exactly %d categories.\n", len(types.AllInsightCategories()))
	fmt.Fprintf(&sb, "For each category, provide up to %d specific, actionable insights based on what was discussed.\n\n", maxPerCategory)

	sb.WriteString("## Categories:\n\n")
	for i, cat := range types.AllInsightCategories() {
		guide := profile.Guide(cat)
		fmt.Fprintf(&sb, "%d. %s (`%s`): %s\n", i+1, guide.Name, cat, guide.Description)
		if guide.Guidance != "" {
			fmt.Fprintf(&sb, "   %s\n", guide.Guidance)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Be specific - don't give generic insights, extract actual content from the call\n")
	sb.WriteString("2. Include direct quotes when possible, verbatim, in the quote field\n")
	sb.WriteString("3. Rate confidence: high (explicitly stated), medium (strongly implied), low (inferred)\n")
	sb.WriteString("4. Leave a category empty rather than padding it with generic filler\n")
	sb.WriteString("5. Return only structured JSON matching the response schema\n")

	return sb.String()
}

// buildUserPrompt creates the per-call prompt with transcript metadata and
// the speaker-labeled transcript text
func buildUserPrompt(t *model.Transcript) string {
	company := t.Meta.CompanyName
	if company == "" {
		company = "Unknown"
	}
	callType := t.Meta.CallType
	if callType == "" {
		callType = "Sales Call"
	}
	callDate := "Unknown"
	if !t.Meta.CallDate.IsZero() {
		callDate = t.Meta.CallDate.Format("2006-01-02")
	}

	text := t.FullText()
	if len(text) > maxTranscriptChars {
		text = strings.ToValidUTF8(text[:maxTranscriptChars], "")
	}

	var sb strings.Builder
	sb.WriteString("TRANSCRIPT METADATA:\n")
	fmt.Fprintf(&sb, "- Call Date: %s\n", callDate)
	fmt.Fprintf(&sb, "- Sales Rep: %s\n", t.Meta.RepName)
	fmt.Fprintf(&sb, "- Company: %s\n", company)
	fmt.Fprintf(&sb, "- Call Type: %s\n", callType)
	sb.WriteString("\nTRANSCRIPT:\n")
	sb.WriteString(text)
	sb.WriteString("\n")

	return sb.String()
}

// buildRepairPrompt creates the follow-up message describing why the previous
// response was rejected. It is sent in the same session so the model sees its
// own output.
func buildRepairPrompt(violations []violation) string {
	var sb strings.Builder
	sb.WriteString("The previous response could not be accepted:\n")
	sb.WriteString(describeViolations(violations))
	sb.WriteString("\nReturn the full corrected JSON object conforming to the response schema.\n")
	return sb.String()
}
