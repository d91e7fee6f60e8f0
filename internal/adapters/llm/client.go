// Package llm adapts the anthropic structured-output API to the engine's
// collaborator ports. It owns everything the engine refuses to trust blindly:
// budget gating, response caching, timeout handling, and defensive decoding
package llm

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	perr "scran/internal/platform/errors"
	"scran/internal/platform/metrics"
	"scran/internal/services/extract/domain"
)

//go:embed classification-schema.json
var classificationSchema string

const systemPrompt = `You classify posts by university societies in Dublin.
Decide whether the text announces an UPCOMING event where FREE FOOD is available to attending students.
Paid events, ticketed events, nightlife, off-campus meetups, recaps of past events, giveaways, and events restricted to staff or to other institutions are NOT food events.
Resolve relative dates against the reference date given in the request.
Answer strictly in the requested JSON shape. Use empty strings for anything the text does not state; never invent dates, times, or locations.`

// Options configures the collaborator client
type Options struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	// Timeout bounds a single collaborator call
	Timeout time.Duration
	// BudgetPerMinute caps escalations engine-wide; exhausted budget refuses
	// the call with a retryable error instead of queueing
	BudgetPerMinute int
	CacheTTL        time.Duration
	CacheSize       int
}

// Client implements domain.ClassifierPort and domain.VisionPort
type Client struct {
	opts     Options
	limiter  *rate.Limiter
	cache    *cache
	validate *validator.Validate

	// promptFn is the outbound call seam, replaced in tests
	promptFn func(system, user, schema string) (string, error)
}

// New builds a client. APIKey is required; everything else has serviceable
// defaults
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, perr.InvalidArgf("llm: api key required")
	}
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-20250514"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BudgetPerMinute <= 0 {
		opts.BudgetPerMinute = 30
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}

	c := &Client{
		opts:     opts,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.BudgetPerMinute)), opts.BudgetPerMinute),
		cache:    newCache(opts.CacheTTL, opts.CacheSize),
		validate: validator.New(),
	}
	c.promptFn = func(system, user, schema string) (string, error) {
		settings := types.RequestSettings{
			Model:       opts.Model,
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
		}
		resp, err := anthropic.PromptWithSettings(system, user, schema, opts.APIKey, settings)
		if err != nil {
			return "", err
		}
		if len(resp.Content) == 0 {
			return "", fmt.Errorf("empty response content")
		}
		return resp.Content[0].Text, nil
	}
	return c, nil
}

// ClassifyText satisfies domain.ClassifierPort
func (c *Client) ClassifyText(ctx context.Context, text string, ref time.Time) (domain.CollabResult, error) {
	user := fmt.Sprintf("Reference date: %s\n\nPost text:\n%s", ref.Format("Monday 2 January 2006"), text)
	return c.call(ctx, "text", key(text, nil, ref), user, ref)
}

// ClassifyImages satisfies domain.VisionPort. Image refs travel in the prompt;
// fetching and attaching binaries is the upstream scraper's concern
func (c *Client) ClassifyImages(ctx context.Context, caption string, refs []string, ref time.Time) (domain.CollabResult, error) {
	user := fmt.Sprintf(
		"Reference date: %s\n\nPost caption:\n%s\n\nImages:\n%s\n\nTranscribe any event text visible in the images into image_text.",
		ref.Format("Monday 2 January 2006"), caption, strings.Join(refs, "\n"))
	return c.call(ctx, "vision", key(caption, refs, ref), user, ref)
}

// call runs the budget gate, the cache, and the bounded outbound call. Every
// failure path maps to a retryable error code so callers can tell transient
// trouble from a deterministic reject
func (c *Client) call(ctx context.Context, kind, cacheKey, user string, ref time.Time) (domain.CollabResult, error) {
	if res, ok := c.cache.get(cacheKey); ok {
		metrics.CacheHits.Inc()
		return res, nil
	}
	if !c.limiter.Allow() {
		metrics.Escalations.WithLabelValues(kind, "refused").Inc()
		return domain.CollabResult{}, perr.TooManyRequestsf("llm: escalation budget exhausted")
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		text, err := c.promptFn(systemPrompt, user, classificationSchema)
		ch <- reply{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		metrics.Escalations.WithLabelValues(kind, "error").Inc()
		return domain.CollabResult{}, perr.Unavailablef("llm: call abandoned: %v", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			metrics.Escalations.WithLabelValues(kind, "error").Inc()
			return domain.CollabResult{}, perr.Wrapf(r.err, perr.ErrorCodeUnavailable, "llm: %s call failed", kind)
		}
		res, err := decodeResult([]byte(r.text), ref.Location(), c.validate)
		if err != nil {
			metrics.Escalations.WithLabelValues(kind, "error").Inc()
			return domain.CollabResult{}, err
		}
		metrics.Escalations.WithLabelValues(kind, "ok").Inc()
		c.cache.put(cacheKey, res)
		return res, nil
	}
}
