// SPDX-License-Identifier: Apache-2.0

package core

import "context"

// Evaluator is the capability contract every council role implements.
// Evaluate and EvaluateCandidate are deterministic given their inputs and the
// role's static tables; all degradation on failure happens at the call site,
// not inside implementations.
type Evaluator interface {
	// Role returns the fixed identity of this evaluator.
	Role() Role

	// Describe returns the role's static focus description.
	Describe() string

	// Evaluate scores free-text input plus the shared context snapshot and
	// returns the role's full verdict for the round.
	Evaluate(ctx context.Context, input string, state Context) (Response, error)

	// EvaluateCandidate judges an externally supplied recommendation string
	// against the role's priorities and current context values.
	EvaluateCandidate(ctx context.Context, recommendation string, state Context) (AgreementLevel, error)

	// Metrics derives the role's current metrics from context alone.
	Metrics(state Context) Metrics

	// SafetyConcerns scans a recommendation for hazards from this role's
	// perspective. Every role may emit concerns, not only safety.
	SafetyConcerns(recommendation string, state Context) []string

	// OnContextUpdate records that fresh context was observed. Side effect
	// only; it must not influence later scoring.
	OnContextUpdate(state Context)
}
