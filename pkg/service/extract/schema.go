package extract

import (
	"fmt"

	"github.com/m-mizutani/gollem"

	"github.com/callsight-lab/callsight/pkg/domain/model/config"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// buildResponseSchema creates the JSON schema for structured output: one
// array of insight items per category, keyed by the canonical category tags
func buildResponseSchema(profile *config.ExtractionProfile, maxPerCategory int) *gollem.Parameter {
	properties := make(map[string]*gollem.Parameter, len(types.AllInsightCategories()))

	for _, cat := range types.AllInsightCategories() {
		guide := profile.Guide(cat)
		properties[cat.String()] = &gollem.Parameter{
			Type:        gollem.TypeArray,
			Description: fmt.Sprintf("%s: %s (at most %d items)", guide.Name, guide.Description, maxPerCategory),
			Items:       insightItemSchema(),
			Required:    true,
		}
	}

	return &gollem.Parameter{
		Title:       "CallInsightsResponse",
		Description: "Insights extracted from one sales call transcript, organized by category",
		Type:        gollem.TypeObject,
		Properties:  properties,
	}
}

func insightItemSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Type: gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"summary": {
				Type:        gollem.TypeString,
				Description: "The insight itself - specific and actionable, drawn from the call",
				Required:    true,
			},
			"quote": {
				Type:        gollem.TypeString,
				Description: "Verbatim quote from the transcript supporting the insight, empty if none",
				Required:    false,
			},
			"confidence": {
				Type:        gollem.TypeString,
				Description: "Confidence level: high (explicitly stated), medium (strongly implied), low (inferred)",
				Required:    true,
			},
		},
	}
}
