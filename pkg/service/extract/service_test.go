package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/model/config"
	"github.com/callsight-lab/callsight/pkg/domain/types"
	"github.com/callsight-lab/callsight/pkg/service/extract"
)

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{emptyResponse}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) { return nil, nil }

func (s *mockLLMSession) AppendHistory(*gollem.History) error { return nil }

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func clientWith(fn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockLLMSession{generateContentFn: fn}, nil
		},
	}
}

func respondWith(texts ...string) func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	calls := 0
	return func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		text := texts[len(texts)-1]
		if calls < len(texts) {
			text = texts[calls]
		}
		calls++
		return &gollem.Response{Texts: []string{text}}, nil
	}
}

const emptyResponse = `{
  "product_recommendation": [],
  "positive_feedback": [],
  "marketing_messaging": [],
  "social_messaging": [],
  "faq": [],
  "blog_topic": []
}`

const validResponse = `{
  "product_recommendation": [
    {"summary": "Wants Salesforce integration", "quote": "we need it in Salesforce", "confidence": "high"}
  ],
  "positive_feedback": [],
  "marketing_messaging": [],
  "social_messaging": [],
  "faq": [
    {"summary": "Is there an API?", "confidence": "medium"}
  ],
  "blog_topic": []
}`

const noConfidenceResponse = `{
  "product_recommendation": [],
  "positive_feedback": [],
  "marketing_messaging": [],
  "social_messaging": [],
  "faq": [
    {"summary": "Is there an API?"}
  ],
  "blog_topic": []
}`

const summarylessResponse = `{
  "product_recommendation": [],
  "positive_feedback": [],
  "marketing_messaging": [],
  "social_messaging": [],
  "faq": [
    {"summary": "Is there an API?", "confidence": "medium"},
    {"confidence": "high"}
  ],
  "blog_topic": []
}`

func testTranscript() *model.Transcript {
	return &model.Transcript{
		ID: "call-001",
		Meta: model.CallMeta{
			RepName:     "Dana",
			CompanyName: "Acme",
			CallDate:    time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
			CallType:    "Discovery",
		},
		Segments: []model.Segment{
			{Speaker: types.SpeakerRep, SpeakerName: "Dana", Text: "Thanks for joining today.", Start: 5 * time.Second, End: 8 * time.Second},
			{Speaker: types.SpeakerProspect, SpeakerName: "Alex", Text: "We really need it in Salesforce before next quarter.", Start: 65 * time.Second, End: 70 * time.Second},
		},
	}
}

func TestExtract_ReturnsCategorizedInsights(t *testing.T) {
	ctx := context.Background()

	svc, err := extract.New(clientWith(respondWith(validResponse)))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()
	gt.B(t, ci.Degraded).False()
	gt.V(t, ci.CallID).Equal(types.CallID("call-001"))
	gt.V(t, ci.Total()).Equal(2)

	recs := ci.Categories[types.CategoryProductRecommendation]
	gt.A(t, recs).Length(1).Required()
	rec := recs[0]
	gt.V(t, rec.Category).Equal(types.CategoryProductRecommendation)
	gt.V(t, rec.Confidence).Equal(types.ConfidenceHigh)
	gt.V(t, rec.SourceCallID).Equal(types.CallID("call-001"))
	gt.V(t, rec.Quote).Equal("we need it in Salesforce")
	gt.V(t, rec.SegmentRef).NotNil()
	if rec.SegmentRef != nil {
		gt.V(t, rec.SegmentRef.Index).Equal(1)
		gt.V(t, rec.SegmentRef.SpeakerName).Equal("Alex")
		gt.V(t, rec.SegmentRef.Timestamp).Equal(65 * time.Second)
	}

	faqs := ci.Categories[types.CategoryFAQ]
	gt.A(t, faqs).Length(1).Required()
	gt.V(t, faqs[0].Confidence).Equal(types.ConfidenceMedium)
	gt.V(t, faqs[0].SegmentRef).Nil()
}

func TestExtract_RepairsMalformedResponse(t *testing.T) {
	ctx := context.Background()

	calls := 0
	var messages []string
	fn := func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		calls++
		if text, ok := input[0].(gollem.Text); ok {
			messages = append(messages, string(text))
		}
		if calls == 1 {
			return &gollem.Response{Texts: []string{"not json at all"}}, nil
		}
		return &gollem.Response{Texts: []string{validResponse}}, nil
	}

	svc, err := extract.New(clientWith(fn))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()
	gt.B(t, ci.Degraded).False()
	gt.V(t, ci.Total()).Equal(2)
	gt.V(t, calls).Equal(2)

	gt.A(t, messages).Length(2).Required()
	gt.S(t, messages[0]).Contains("TRANSCRIPT METADATA")
	gt.S(t, messages[1]).Contains("could not be accepted")
}

func TestExtract_DegradesWhenRepairsExhausted(t *testing.T) {
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		calls++
		return &gollem.Response{Texts: []string{"still not json"}}, nil
	}

	svc, err := extract.New(clientWith(fn))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()
	gt.B(t, ci.Degraded).True()
	gt.V(t, ci.Total()).Equal(0)
	// initial request plus the default two repair rounds
	gt.V(t, calls).Equal(3)
}

func TestExtract_ClampsConfidenceAfterOneRepair(t *testing.T) {
	ctx := context.Background()

	calls := 0
	fn := func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
		calls++
		return &gollem.Response{Texts: []string{noConfidenceResponse}}, nil
	}

	svc, err := extract.New(clientWith(fn))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()
	gt.B(t, ci.Degraded).False()
	// a clampable violation gets exactly one repair round
	gt.V(t, calls).Equal(2)

	faqs := ci.Categories[types.CategoryFAQ]
	gt.A(t, faqs).Length(1).Required()
	gt.V(t, faqs[0].Confidence).Equal(types.ConfidenceMedium)
}

func TestExtract_DropsSummarylessItemsOnSalvage(t *testing.T) {
	ctx := context.Background()

	svc, err := extract.New(clientWith(respondWith(summarylessResponse, summarylessResponse)))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()
	gt.B(t, ci.Degraded).False()
	gt.V(t, ci.Total()).Equal(1)
	gt.V(t, ci.Categories[types.CategoryFAQ][0].Summary).Equal("Is there an API?")
}

func TestExtract_EnforcesPerCategoryCap(t *testing.T) {
	ctx := context.Background()

	const threeFAQs = `{
	  "product_recommendation": [],
	  "positive_feedback": [],
	  "marketing_messaging": [],
	  "social_messaging": [],
	  "faq": [
	    {"summary": "First question", "confidence": "high"},
	    {"summary": "Second question", "confidence": "medium"},
	    {"summary": "Third question", "confidence": "low"}
	  ],
	  "blog_topic": []
	}`

	svc, err := extract.New(clientWith(respondWith(threeFAQs)), extract.WithMaxInsightsPerCategory(2))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()

	faqs := ci.Categories[types.CategoryFAQ]
	gt.A(t, faqs).Length(2).Required()
	gt.V(t, faqs[0].Summary).Equal("First question")
	gt.V(t, faqs[1].Summary).Equal("Second question")
}

func TestExtract_IgnoresUnknownCategories(t *testing.T) {
	ctx := context.Background()

	const extraCategory = `{
	  "product_recommendation": [
	    {"summary": "Wants Salesforce integration", "confidence": "high"}
	  ],
	  "positive_feedback": [],
	  "marketing_messaging": [],
	  "social_messaging": [],
	  "faq": [],
	  "blog_topic": [],
	  "pricing_feedback": [
	    {"summary": "Thinks the price is high", "confidence": "low"}
	  ]
	}`

	svc, err := extract.New(clientWith(respondWith(extraCategory)))
	gt.NoError(t, err).Required()

	ci, err := svc.Extract(ctx, testTranscript())
	gt.NoError(t, err).Required()
	gt.V(t, ci.Total()).Equal(1)
	for cat := range ci.Categories {
		gt.B(t, cat.IsValid()).True()
	}
}

func TestExtract_TransportFailure(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fn := func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			cancel() // stop the retry loop so the test stays fast
			return nil, errors.New("429 too many requests")
		}
		svc, err := extract.New(clientWith(fn))
		gt.NoError(t, err).Required()

		_, err = svc.Extract(ctx, testTranscript())
		gt.Error(t, err).Is(extract.ErrRateLimited)
	})

	t.Run("unavailable", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fn := func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			cancel()
			return nil, errors.New("503 service unavailable")
		}
		svc, err := extract.New(clientWith(fn))
		gt.NoError(t, err).Required()

		_, err = svc.Extract(ctx, testTranscript())
		gt.Error(t, err).Is(extract.ErrProviderUnavailable)
	})

	t.Run("session creation fails", func(t *testing.T) {
		client := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("no credentials")
			},
		}
		svc, err := extract.New(client)
		gt.NoError(t, err).Required()

		_, err = svc.Extract(context.Background(), testTranscript())
		gt.Error(t, err).Is(extract.ErrProviderUnavailable)
	})
}

func TestExtract_RejectsBadTranscript(t *testing.T) {
	ctx := context.Background()

	svc, err := extract.New(&mockLLMClient{})
	gt.NoError(t, err).Required()

	_, err = svc.Extract(ctx, nil)
	gt.Value(t, err).NotNil()

	_, err = svc.Extract(ctx, &model.Transcript{ID: "call-002"})
	gt.Value(t, err).NotNil()
}

func TestNew_RequiresLLMClient(t *testing.T) {
	_, err := extract.New(nil)
	gt.Value(t, err).NotNil()
}

func TestNew_RejectsInvalidProfile(t *testing.T) {
	profile := &config.ExtractionProfile{
		Categories: []config.CategoryGuide{
			{Category: "bogus", Name: "Bogus", Description: "not a real category"},
		},
	}
	_, err := extract.New(&mockLLMClient{}, extract.WithProfile(profile))
	gt.Value(t, err).NotNil()
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := extract.BuildSystemPrompt(config.DefaultProfile(), 10)
	gt.S(t, prompt).Contains("expert analyst")
	gt.S(t, prompt).Contains("product_recommendation")
	gt.S(t, prompt).Contains("blog_topic")
	gt.S(t, prompt).Contains("high (explicitly stated)")
	gt.S(t, prompt).Contains("up to 10")
}

func TestBuildResponseSchema(t *testing.T) {
	schema := extract.BuildResponseSchema(config.DefaultProfile(), 10)
	gt.V(t, schema.Type).Equal(gollem.TypeObject)

	for _, cat := range types.AllInsightCategories() {
		gt.Map(t, schema.Properties).HasKey(cat.String())
	}

	faq := schema.Properties["faq"]
	gt.V(t, faq.Type).Equal(gollem.TypeArray)
	gt.B(t, faq.Required).True()
	gt.V(t, faq.Items).NotNil()
	gt.B(t, faq.Items.Properties["summary"].Required).True()
	gt.B(t, faq.Items.Properties["quote"].Required).False()
}

func TestBuildUserPrompt(t *testing.T) {
	t.Run("includes metadata and transcript", func(t *testing.T) {
		prompt := extract.BuildUserPrompt(testTranscript())
		gt.S(t, prompt).Contains("TRANSCRIPT METADATA")
		gt.S(t, prompt).Contains("- Call Date: 2025-03-04")
		gt.S(t, prompt).Contains("- Sales Rep: Dana")
		gt.S(t, prompt).Contains("- Company: Acme")
		gt.S(t, prompt).Contains("- Call Type: Discovery")
		gt.S(t, prompt).Contains("[01:05] Alex: We really need it in Salesforce before next quarter.")
	})

	t.Run("falls back for missing metadata", func(t *testing.T) {
		tr := testTranscript()
		tr.Meta = model.CallMeta{RepName: "Dana"}
		prompt := extract.BuildUserPrompt(tr)
		gt.S(t, prompt).Contains("- Call Date: Unknown")
		gt.S(t, prompt).Contains("- Company: Unknown")
		gt.S(t, prompt).Contains("- Call Type: Sales Call")
	})

	t.Run("truncates long transcripts", func(t *testing.T) {
		long := make([]byte, 20000)
		for i := range long {
			long[i] = 'a'
		}
		tr := &model.Transcript{
			ID:   "call-003",
			Meta: model.CallMeta{RepName: "Dana"},
			Segments: []model.Segment{
				{Speaker: types.SpeakerRep, SpeakerName: "Dana", Text: string(long)},
			},
		}
		prompt := extract.BuildUserPrompt(tr)
		gt.Number(t, len(prompt)).Less(16000)
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("accepts valid response", func(t *testing.T) {
		raw, violations := extract.ParseResponse(validResponse)
		gt.V(t, raw).NotNil()
		gt.A(t, violations).Length(0)
	})

	t.Run("rejects non-JSON", func(t *testing.T) {
		raw, violations := extract.ParseResponse("not json")
		gt.V(t, raw).Nil()
		gt.A(t, violations).Length(1)
		gt.B(t, extract.HasHard(violations)).True()
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, violations := extract.ParseResponse("   ")
		gt.B(t, extract.HasHard(violations)).True()
	})

	t.Run("flags missing confidence as soft", func(t *testing.T) {
		raw, violations := extract.ParseResponse(noConfidenceResponse)
		gt.V(t, raw).NotNil()
		gt.A(t, violations).Length(1)
		gt.B(t, extract.HasHard(violations)).False()
	})

	t.Run("flags missing summary as soft", func(t *testing.T) {
		_, violations := extract.ParseResponse(summarylessResponse)
		gt.A(t, violations).Length(1)
		gt.B(t, extract.HasHard(violations)).False()
	})
}

func TestBestSegmentRef(t *testing.T) {
	tr := testTranscript()

	t.Run("containment matches exactly", func(t *testing.T) {
		ref, ok := extract.BestSegmentRef(tr, "We really need it in Salesforce")
		gt.B(t, ok).True()
		gt.V(t, ref.Index).Equal(1)
		gt.V(t, ref.SpeakerName).Equal("Alex")
	})

	t.Run("fuzzy match above threshold", func(t *testing.T) {
		ref, ok := extract.BestSegmentRef(tr, "we need it in Salesforce")
		gt.B(t, ok).True()
		gt.V(t, ref.Index).Equal(1)
	})

	t.Run("no match below threshold", func(t *testing.T) {
		_, ok := extract.BestSegmentRef(tr, "completely unrelated words about gardening tulips")
		gt.B(t, ok).False()
	})

	t.Run("empty and unmatchable quotes", func(t *testing.T) {
		_, ok := extract.BestSegmentRef(tr, "")
		gt.B(t, ok).False()
		_, ok = extract.BestSegmentRef(tr, "?!.")
		gt.B(t, ok).False()
	})
}

func TestRateLimited(t *testing.T) {
	gt.B(t, extract.RateLimited(errors.New("429 Too Many Requests"))).True()
	gt.B(t, extract.RateLimited(errors.New("quota exceeded for model"))).True()
	gt.B(t, extract.RateLimited(errors.New("503 service unavailable"))).False()
	gt.B(t, extract.RateLimited(nil)).False()
}
