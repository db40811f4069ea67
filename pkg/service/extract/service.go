package extract

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/callsight-lab/callsight/pkg/domain/model"
	"github.com/callsight-lab/callsight/pkg/domain/model/config"
	"github.com/callsight-lab/callsight/pkg/utils/logging"
)

// Default tuning for the extractor
const (
	// DefaultMaxRepairAttempts is how many schema repair rounds one call gets.
	DefaultMaxRepairAttempts = 2
	// DefaultMaxInsightsPerCategory caps each category of one call.
	DefaultMaxInsightsPerCategory = 10

	transportRetries    = 3
	transportMaxElapsed = 30 * time.Second
)

// client implements Service interface
type client struct {
	llmClient      gollem.LLMClient
	profile        *config.ExtractionProfile
	maxPerCategory int
	maxRepairs     int
}

// Option is a functional option for client configuration
type Option func(*client)

// WithProfile replaces the default extraction profile
func WithProfile(p *config.ExtractionProfile) Option {
	return func(c *client) {
		if p != nil {
			c.profile = p
		}
	}
}

// WithMaxInsightsPerCategory caps how many insights one category keeps
func WithMaxInsightsPerCategory(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.maxPerCategory = n
		}
	}
}

// WithMaxRepairAttempts sets how many repair rounds are allowed per call.
// Zero disables repairs; negative values keep the default.
func WithMaxRepairAttempts(n int) Option {
	return func(c *client) {
		if n >= 0 {
			c.maxRepairs = n
		}
	}
}

// New creates a new extraction service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:      llmClient,
		profile:        config.DefaultProfile(),
		maxPerCategory: DefaultMaxInsightsPerCategory,
		maxRepairs:     DefaultMaxRepairAttempts,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.profile.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid extraction profile")
	}

	return c, nil
}

// Extract runs one structured-generation request for the transcript and
// validates the result. Rejected responses are repaired in the same session,
// so the model sees its own output: structural trouble gets up to the
// configured repair rounds and then degrades the call to empty categories;
// clampable trouble (a bad confidence value) gets one round and is then
// clamped. Only transport failures surface as errors.
func (c *client) Extract(ctx context.Context, transcript *model.Transcript) (*model.CallInsights, error) {
	if transcript == nil {
		return nil, goerr.New("transcript is required")
	}
	if err := transcript.Validate(); err != nil {
		return nil, goerr.Wrap(err, "cannot extract")
	}

	logger := logging.From(ctx)

	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema(c.profile, c.maxPerCategory)),
		gollem.WithSessionSystemPrompt(buildSystemPrompt(c.profile, c.maxPerCategory)),
	)
	if err != nil {
		return nil, goerr.Wrap(ErrProviderUnavailable, "failed to create LLM session",
			goerr.V("cause", err.Error()),
			goerr.V("call_id", transcript.ID),
		)
	}

	message := buildUserPrompt(transcript)
	var raw *rawResponse
	var violations []violation

	for attempt := 0; ; attempt++ {
		text, err := c.generate(ctx, session, message)
		if err != nil {
			return nil, goerr.Wrap(err, "extraction failed",
				goerr.V("call_id", transcript.ID),
				goerr.V("attempt", attempt),
			)
		}

		raw, violations = parseResponse(text)
		if len(violations) == 0 {
			ci := c.convert(raw, transcript)
			logger.Info("extracted insights",
				"call_id", transcript.ID,
				"insights", ci.Total(),
				"attempts", attempt+1,
			)
			return ci, nil
		}

		budget := c.maxRepairs
		if !hasHard(violations) && budget > 1 {
			budget = 1
		}
		if attempt < budget {
			logger.Warn("model response rejected, requesting repair",
				"call_id", transcript.ID,
				"attempt", attempt+1,
				"violations", len(violations),
			)
			message = buildRepairPrompt(violations)
			continue
		}
		break
	}

	if raw != nil && !hasHard(violations) {
		ci := c.convert(raw, transcript)
		logger.Warn("salvaged model response after failed repairs",
			"call_id", transcript.ID,
			"insights", ci.Total(),
			"violations", len(violations),
		)
		return ci, nil
	}

	logger.Warn("extraction degraded",
		"call_id", transcript.ID,
		"error", goerr.Wrap(ErrSchemaViolation, "repair attempts exhausted",
			goerr.V("call_id", transcript.ID),
			goerr.V("violations", describeViolations(violations)),
		),
	)
	ci := model.NewCallInsights(transcript.ID, transcript.Meta)
	ci.Degraded = true
	return ci, nil
}

// generate sends one message in the session, retrying transient transport
// failures with exponential backoff
func (c *client) generate(ctx context.Context, session gollem.Session, message string) (string, error) {
	var text string
	var lastErr error

	op := func() error {
		resp, err := session.GenerateContent(ctx, gollem.Text(message))
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		text = ""
		if len(resp.Texts) > 0 {
			text = resp.Texts[0]
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = transportMaxElapsed

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, transportRetries), ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		if rateLimited(lastErr) {
			return "", goerr.Wrap(ErrRateLimited, "model request kept failing", goerr.V("cause", lastErr.Error()))
		}
		return "", goerr.Wrap(ErrProviderUnavailable, "model request kept failing", goerr.V("cause", lastErr.Error()))
	}

	return text, nil
}

// rateLimited sniffs provider errors for rate-limit symptoms. Providers do
// not share an error type, so message matching is the only common ground.
func rateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "ratelimit", "429", "quota", "resource exhausted", "too many requests"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
