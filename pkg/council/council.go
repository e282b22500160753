// SPDX-License-Identifier: Apache-2.0
// Package council orchestrates a deliberation round: concurrent fan-out to
// the seven evaluators, a barrier join, failure isolation per role, and the
// safety veto. The council owns the round counter and is the only component
// callers talk to.
package council

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Stevenfgonzalez/HHAC/pkg/consensus"
	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/domains"
	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
	"github.com/Stevenfgonzalez/HHAC/pkg/journal"
	"github.com/Stevenfgonzalez/HHAC/pkg/resilience"
	"github.com/Stevenfgonzalez/HHAC/pkg/synthesis"
	"github.com/Stevenfgonzalez/HHAC/pkg/telemetry"
)

// tracerName identifies council spans.
const tracerName = "hhac/council"

// Council runs deliberation rounds over a fixed set of evaluators. Safe for
// concurrent use.
type Council struct {
	evaluators  map[core.Role]core.Evaluator
	aggregator  *consensus.Aggregator
	synthesizer *synthesis.Synthesizer
	logger      *slog.Logger
	metrics     *telemetry.CouncilMetrics
	journal     journal.Store
	tracer      trace.Tracer
	retry       resilience.RetryConfig
	evalTimeout resilience.TimeoutConfig

	mu        sync.Mutex
	rounds    uint64
	lastRound time.Time
}

// Option configures a Council.
type Option func(*Council)

// WithEvaluators replaces the default roster. Intended for tests and for
// lexicon-override rosters.
func WithEvaluators(evaluators map[core.Role]core.Evaluator) Option {
	return func(c *Council) {
		if len(evaluators) > 0 {
			c.evaluators = evaluators
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Council) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics attaches the council metric set. A nil receiver is a no-op on
// every record call, so metrics stay optional.
func WithMetrics(m *telemetry.CouncilMetrics) Option {
	return func(c *Council) { c.metrics = m }
}

// WithJournal records every completed round into the store.
func WithJournal(store journal.Store) Option {
	return func(c *Council) { c.journal = store }
}

// WithRetry retries failing role evaluations before they degrade to the
// fallback response. The default is a single attempt.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Council) { c.retry = cfg }
}

// WithEvaluationTimeout bounds each role evaluation. Zero disables the
// boundary.
func WithEvaluationTimeout(d time.Duration) Option {
	return func(c *Council) { c.evalTimeout = resilience.TimeoutConfig{Duration: d} }
}

// New builds a council over the default roster.
func New(opts ...Option) *Council {
	c := &Council{
		evaluators:  domains.Roster(),
		aggregator:  consensus.New(),
		synthesizer: synthesis.New(),
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
		retry:       resilience.SingleAttempt(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateContext broadcasts a context change to every evaluator. Evaluators
// only observe the broadcast; the state itself travels with each round.
func (c *Council) UpdateContext(state core.Context) {
	for _, role := range core.Roles() {
		if ev, ok := c.evaluators[role]; ok {
			ev.OnContextUpdate(state)
		}
	}
}

// Deliberate runs one full round: context broadcast, fan-out, barrier join,
// consensus, synthesis. A failing or panicking evaluator degrades to its
// fallback response and never sinks the round. A safety block overrides
// everything.
func (c *Council) Deliberate(ctx context.Context, input string, state core.Context) (core.FinalRecommendation, core.ConsensusResult, error) {
	if input == "" {
		return core.FinalRecommendation{}, core.ConsensusResult{},
			errors.New(errors.CodeInvalidInput, "input must not be empty", nil)
	}
	if state == nil {
		state = core.Context{}
	}
	c.UpdateContext(state)

	roundID := uuid.NewString()
	started := time.Now()

	ctx = telemetry.WithRoundID(ctx, roundID)
	ctx, span := c.tracer.Start(ctx, "council.deliberate",
		trace.WithAttributes(telemetry.RoundAttributes(roundID, len(input))...))
	defer span.End()

	responses := c.fanOut(ctx, input, state, roundID)

	cons := c.aggregator.Aggregate(responses)
	final := c.synthesizer.Synthesize(responses, cons)

	vetoed := cons.Overall == core.AgreementSafetyBlock
	if vetoed {
		c.metrics.RecordVeto(ctx)
		c.logger.WarnContext(ctx, "safety veto",
			slog.Float64("confidence", cons.Confidence))
	}

	c.mu.Lock()
	c.rounds++
	c.lastRound = time.Now().UTC()
	c.mu.Unlock()

	elapsed := time.Since(started)
	span.SetAttributes(telemetry.ConsensusAttributes(
		string(cons.Overall), len(cons.Conflicts), cons.Confidence, vetoed)...)
	c.metrics.RecordRound(ctx, string(cons.Overall), elapsed)
	c.logger.InfoContext(ctx, "round complete",
		slog.String("consensus", string(cons.Overall)),
		slog.Int("conflicts", len(cons.Conflicts)),
		slog.Float64("confidence", cons.Confidence),
		slog.Duration("elapsed", elapsed))

	c.record(ctx, roundID, input, final, cons, vetoed)

	return final, cons, nil
}

// fanOut runs every evaluator concurrently and joins at the barrier. Each
// worker converts its own failure into the fallback response so one role
// never blocks or poisons the others.
func (c *Council) fanOut(ctx context.Context, input string, state core.Context, roundID string) map[core.Role]core.Response {
	type result struct {
		role core.Role
		resp core.Response
	}

	roles := core.Roles()
	results := make(chan result, len(roles))
	var wg sync.WaitGroup

	for _, role := range roles {
		ev, ok := c.evaluators[role]
		if !ok {
			results <- result{role: role, resp: fallbackResponse(role)}
			continue
		}
		wg.Add(1)
		go func(role core.Role, ev core.Evaluator) {
			defer wg.Done()
			results <- result{role: role, resp: c.evaluate(ctx, role, ev, input, state, roundID)}
		}(role, ev)
	}

	wg.Wait()
	close(results)

	responses := make(map[core.Role]core.Response, len(roles))
	for r := range results {
		responses[r.role] = r.resp
	}
	return responses
}

// evaluate runs one role under a span, recovering panics and degrading
// errors to the fallback response.
func (c *Council) evaluate(ctx context.Context, role core.Role, ev core.Evaluator, input string, state core.Context, roundID string) (resp core.Response) {
	ctx, span := c.tracer.Start(ctx, "council.evaluate",
		trace.WithAttributes(telemetry.RoleAttributes(string(role))...))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			c.metrics.RecordFallback(ctx, string(role))
			c.logger.ErrorContext(ctx, "evaluator panic",
				slog.String("role", string(role)),
				slog.Any("panic", r))
			span.SetAttributes(attribute.Bool("hhac.role.fallback", true))
			resp = fallbackResponse(role)
		}
	}()

	var out core.Response
	err := c.retry.Do(ctx, func() error {
		resp, evalErr := resilience.WithTimeoutResult(ctx, c.evalTimeout, func() (core.Response, error) {
			return ev.Evaluate(ctx, input, state)
		})
		if evalErr != nil {
			return evalErr
		}
		out = resp
		return nil
	})
	if err != nil {
		ce := errors.New(errors.CodeEvaluation, fmt.Sprintf("%s evaluation failed", role), err).
			WithContext("round_id", roundID).
			WithRecoverable(true)
		c.metrics.RecordFallback(ctx, string(role))
		c.metrics.RecordError(ctx, ce, "council")
		c.logger.WarnContext(ctx, "evaluator degraded to fallback",
			slog.String("role", string(role)),
			slog.String("error", ce.Error()))
		span.SetAttributes(attribute.Bool("hhac.role.fallback", true))
		return fallbackResponse(role)
	}
	return out
}

// fallbackResponse is the neutral stand-in for a role that could not
// evaluate this round.
func fallbackResponse(role core.Role) core.Response {
	now := time.Now().UTC()
	return core.Response{
		Role:           role,
		Recommendation: "Domain temporarily unavailable",
		Reasoning:      "Technical issue in domain evaluation",
		Level:          core.AgreementNeutral,
		Metrics: core.Metrics{
			Role:        role,
			Confidence:  0,
			Urgency:     0,
			Impact:      0.5,
			DataQuality: 0,
			Timestamp:   now,
			Metadata:    map[string]any{"error": "fallback_response"},
		},
		Confidence: 0,
		Timestamp:  now,
	}
}

// EvaluateCandidate asks every role to judge a proposed recommendation.
// Failures degrade to neutral rather than a fallback response; there is no
// recommendation text to stand in for.
func (c *Council) EvaluateCandidate(ctx context.Context, recommendation string, state core.Context) (map[core.Role]core.AgreementLevel, error) {
	if recommendation == "" {
		return nil, errors.New(errors.CodeInvalidInput, "recommendation must not be empty", nil)
	}
	if state == nil {
		state = core.Context{}
	}
	c.UpdateContext(state)

	ctx, span := c.tracer.Start(ctx, "council.evaluate_candidate")
	defer span.End()

	type result struct {
		role  core.Role
		level core.AgreementLevel
	}

	roles := core.Roles()
	results := make(chan result, len(roles))
	var wg sync.WaitGroup

	for _, role := range roles {
		ev, ok := c.evaluators[role]
		if !ok {
			results <- result{role: role, level: core.AgreementNeutral}
			continue
		}
		wg.Add(1)
		go func(role core.Role, ev core.Evaluator) {
			defer wg.Done()
			level := c.judgeCandidate(ctx, role, ev, recommendation, state)
			results <- result{role: role, level: level}
		}(role, ev)
	}

	wg.Wait()
	close(results)

	levels := make(map[core.Role]core.AgreementLevel, len(roles))
	for r := range results {
		levels[r.role] = r.level
	}
	return levels, nil
}

func (c *Council) judgeCandidate(ctx context.Context, role core.Role, ev core.Evaluator, recommendation string, state core.Context) (level core.AgreementLevel) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "candidate evaluator panic",
				slog.String("role", string(role)),
				slog.Any("panic", r))
			level = core.AgreementNeutral
		}
	}()

	out, err := ev.EvaluateCandidate(ctx, recommendation, state)
	if err != nil {
		c.logger.WarnContext(ctx, "candidate evaluation degraded to neutral",
			slog.String("role", string(role)),
			slog.String("error", err.Error()))
		return core.AgreementNeutral
	}
	return out
}

// Status reports the council's long-lived state.
func (c *Council) Status() core.Status {
	c.mu.Lock()
	rounds, lastRound := c.rounds, c.lastRound
	c.mu.Unlock()

	descriptions := make(map[core.Role]string, len(c.evaluators))
	for _, role := range core.Roles() {
		if ev, ok := c.evaluators[role]; ok {
			descriptions[role] = ev.Describe()
		}
	}
	return core.Status{
		Rounds:       rounds,
		LastRound:    lastRound,
		Descriptions: descriptions,
	}
}

// record persists the round when a journal store is attached. Journal
// failures are logged, never surfaced; the advice already exists.
func (c *Council) record(ctx context.Context, roundID, input string, final core.FinalRecommendation, cons core.ConsensusResult, vetoed bool) {
	if c.journal == nil {
		return
	}
	entry := journal.Entry{
		ID:             roundID,
		CreatedAt:      time.Now().UTC(),
		Input:          input,
		Recommendation: final.Recommendation,
		Reasoning:      final.Reasoning,
		Consensus:      cons.Overall,
		Confidence:     final.Confidence,
		Vetoed:         vetoed,
		Conflicts:      cons.Conflicts,
	}
	if err := c.journal.Append(ctx, entry); err != nil {
		c.metrics.RecordError(ctx, err, "journal")
		c.logger.ErrorContext(ctx, "journal append failed",
			slog.String("error", err.Error()))
	}
}
