// SPDX-License-Identifier: Apache-2.0
// Package journal persists deliberation rounds so users can review what the
// council advised and why. Two backends are provided: an append-only JSONL
// file and SQLite.
package journal

import (
	"context"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
)

// Entry is one recorded deliberation round.
type Entry struct {
	ID             string              `json:"id"`
	CreatedAt      time.Time           `json:"created_at"`
	Input          string              `json:"input"`
	Recommendation string              `json:"recommendation"`
	Reasoning      string              `json:"reasoning"`
	Consensus      core.AgreementLevel `json:"consensus"`
	Confidence     float64             `json:"confidence"`
	Vetoed         bool                `json:"vetoed"`
	Conflicts      []string            `json:"conflicts,omitempty"`
}

// Filter narrows a List call. Zero values mean "no constraint".
type Filter struct {
	Consensus  core.AgreementLevel
	VetoedOnly bool
	Limit      int
}

// Store persists and retrieves journal entries.
type Store interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, error)
	Close() error
}
