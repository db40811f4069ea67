package config

import (
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// CategoryGuide describes one insight category to the model: the display
// name, what belongs in the category, and any extra extraction instruction.
type CategoryGuide struct {
	Category    types.InsightCategory
	Name        string
	Description string
	Guidance    string
}

// ExtractionProfile tunes how insights are described to the model. The
// category set itself is closed; a profile can rephrase categories but never
// add or remove them.
type ExtractionProfile struct {
	Categories []CategoryGuide
}

// DefaultProfile returns the built-in extraction profile
func DefaultProfile() *ExtractionProfile {
	return &ExtractionProfile{
		Categories: []CategoryGuide{
			{
				Category:    types.CategoryProductRecommendation,
				Name:        types.CategoryProductRecommendation.DisplayName(),
				Description: "Feature requests, missing capabilities, integrations requested",
				Guidance:    "Note specific features or integrations mentioned",
			},
			{
				Category:    types.CategoryPositiveFeedback,
				Name:        types.CategoryPositiveFeedback.DisplayName(),
				Description: "Testimonials, quotes, outcomes, value statements",
				Guidance:    "Capture genuine positive statements with attribution context",
			},
			{
				Category:    types.CategoryMarketingMessaging,
				Name:        types.CategoryMarketingMessaging.DisplayName(),
				Description: "Feedback on website, emails, positioning, clarity",
				Guidance:    "Prefer wording the prospect reacted to",
			},
			{
				Category:    types.CategorySocialMessaging,
				Name:        types.CategorySocialMessaging.DisplayName(),
				Description: "Hooks, punchy phrases, short quotes for social media",
				Guidance:    "Extract punchy 1-2 sentence quotes that would work on LinkedIn/Twitter",
			},
			{
				Category:    types.CategoryFAQ,
				Name:        types.CategoryFAQ.DisplayName(),
				Description: "Repeated questions, confusion points, common objections",
				Guidance:    "Frame as questions a prospect might ask",
			},
			{
				Category:    types.CategoryBlogTopic,
				Name:        types.CategoryBlogTopic.DisplayName(),
				Description: "Pain points, trends, how-to topics, repeated themes",
				Guidance:    "Suggest specific article titles based on pain points discussed",
			},
		},
	}
}

// Guide returns the guide for a category, falling back to the default
// profile when the category is not customized
func (p *ExtractionProfile) Guide(category types.InsightCategory) CategoryGuide {
	for _, g := range p.Categories {
		if g.Category == category {
			return g
		}
	}
	for _, g := range DefaultProfile().Categories {
		if g.Category == category {
			return g
		}
	}
	return CategoryGuide{Category: category, Name: category.DisplayName()}
}

// Validate checks that the profile stays within the closed category set
func (p *ExtractionProfile) Validate() error {
	seen := make(map[types.InsightCategory]bool)
	for _, g := range p.Categories {
		if !g.Category.IsValid() {
			return goerr.New("unknown category in profile", goerr.V("category", g.Category))
		}
		if seen[g.Category] {
			return goerr.New("duplicate category in profile", goerr.V("category", g.Category))
		}
		seen[g.Category] = true
		if g.Name == "" {
			return goerr.New("category name is required", goerr.V("category", g.Category))
		}
		if g.Description == "" {
			return goerr.New("category description is required", goerr.V("category", g.Category))
		}
	}
	return nil
}
