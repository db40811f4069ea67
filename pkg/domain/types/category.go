package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// InsightCategory represents one of the fixed insight categories
type InsightCategory string

const (
	CategoryProductRecommendation InsightCategory = "product_recommendation"
	CategoryPositiveFeedback      InsightCategory = "positive_feedback"
	CategoryMarketingMessaging    InsightCategory = "marketing_messaging"
	CategorySocialMessaging       InsightCategory = "social_messaging"
	CategoryFAQ                   InsightCategory = "faq"
	CategoryBlogTopic             InsightCategory = "blog_topic"
)

// AllInsightCategories returns all valid insight categories in canonical order.
// Prompts, reports, and aggregation iterate categories in this order so that
// output stays deterministic.
func AllInsightCategories() []InsightCategory {
	return []InsightCategory{
		CategoryProductRecommendation,
		CategoryPositiveFeedback,
		CategoryMarketingMessaging,
		CategorySocialMessaging,
		CategoryFAQ,
		CategoryBlogTopic,
	}
}

// IsValid checks if the insight category is valid
func (c InsightCategory) IsValid() bool {
	switch c {
	case CategoryProductRecommendation,
		CategoryPositiveFeedback,
		CategoryMarketingMessaging,
		CategorySocialMessaging,
		CategoryFAQ,
		CategoryBlogTopic:
		return true
	default:
		return false
	}
}

// String returns the string representation of the insight category
func (c InsightCategory) String() string {
	return string(c)
}

// DisplayName returns the human-readable name used in reports
func (c InsightCategory) DisplayName() string {
	switch c {
	case CategoryProductRecommendation:
		return "Product Recommendations"
	case CategoryPositiveFeedback:
		return "Positive Feedback"
	case CategoryMarketingMessaging:
		return "Marketing Messaging"
	case CategorySocialMessaging:
		return "Social Messaging"
	case CategoryFAQ:
		return "FAQs"
	case CategoryBlogTopic:
		return "Blog Topics"
	default:
		return string(c)
	}
}

// ParseInsightCategory parses a string into an InsightCategory
func ParseInsightCategory(s string) (InsightCategory, error) {
	c := InsightCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", goerr.New("unknown insight category", goerr.V("category", s))
	}
	return c, nil
}
