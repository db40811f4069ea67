package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/types"
)

// Service defines the interface for insight extraction from call transcripts
type Service interface {
	// Extract analyzes one transcript and returns its categorized insights.
	// Schema trouble degrades the result instead of failing it; transport
	// trouble is returned as an error after bounded retries.
	Extract(ctx context.Context, transcript *model.Transcript) (*model.CallInsights, error)
}

// rawItem is one insight as the model returns it, before validation
type rawItem struct {
	Summary    string `json:"summary"`
	Quote      string `json:"quote,omitempty"`
	Confidence string `json:"confidence"`
}

// rawResponse is the structured output from the LLM: one array per category,
// keyed by the canonical category tags. Unknown keys are dropped by the JSON
// decoder, which keeps the category set closed.
type rawResponse struct {
	ProductRecommendation []rawItem `json:"product_recommendation"`
	PositiveFeedback      []rawItem `json:"positive_feedback"`
	MarketingMessaging    []rawItem `json:"marketing_messaging"`
	SocialMessaging       []rawItem `json:"social_messaging"`
	FAQ                   []rawItem `json:"faq"`
	BlogTopic             []rawItem `json:"blog_topic"`
}

// items returns the category's raw items
func (r *rawResponse) items(category types.InsightCategory) []rawItem {
	switch category {
	case types.CategoryProductRecommendation:
		return r.ProductRecommendation
	case types.CategoryPositiveFeedback:
		return r.PositiveFeedback
	case types.CategoryMarketingMessaging:
		return r.MarketingMessaging
	case types.CategorySocialMessaging:
		return r.SocialMessaging
	case types.CategoryFAQ:
		return r.FAQ
	case types.CategoryBlogTopic:
		return r.BlogTopic
	default:
		return nil
	}
}

// violationKind classifies what went wrong with a model response
type violationKind int

const (
	// violationMalformed means the response text was not schema-shaped JSON.
	// Unrecoverable by salvage; only a repair round can fix it.
	violationMalformed violationKind = iota
	// violationMissingSummary marks an item without a summary. Salvage drops
	// the item.
	violationMissingSummary
	// violationBadConfidence marks an item whose confidence is not a valid
	// level. Salvage clamps it.
	violationBadConfidence
)

// violation is one problem found while validating a model response
type violation struct {
	kind     violationKind
	category types.InsightCategory
	index    int
	detail   string
}

func (v violation) String() string {
	if v.kind == violationMalformed {
		return v.detail
	}
	return fmt.Sprintf("%s[%d]: %s", v.category, v.index, v.detail)
}

// hard reports whether the violation prevents salvaging the response
func (v violation) hard() bool {
	return v.kind == violationMalformed
}

func hasHard(violations []violation) bool {
	for _, v := range violations {
		if v.hard() {
			return true
		}
	}
	return false
}

func describeViolations(violations []violation) string {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, "- "+v.String())
	}
	return strings.Join(lines, "\n")
}
