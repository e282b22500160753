// SPDX-License-Identifier: Apache-2.0

package core

import "time"

// Metrics is a role's per-round numeric snapshot. Values are in [0,1].
// Created fresh each round and never mutated after construction.
type Metrics struct {
	Role        Role           `json:"role"`
	Confidence  float64        `json:"confidence"`
	Urgency     float64        `json:"urgency"`
	Impact      float64        `json:"impact"`
	DataQuality float64        `json:"data_quality"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Response is one role's verdict for one round. It is an immutable value
// consumed by the aggregator and synthesizer.
type Response struct {
	Role           Role           `json:"role"`
	Recommendation string         `json:"recommendation"`
	Reasoning      string         `json:"reasoning"`
	Level          AgreementLevel `json:"level"`
	Metrics        Metrics        `json:"metrics"`
	Alternatives   []string       `json:"alternatives,omitempty"`
	SafetyConcerns []string       `json:"safety_concerns,omitempty"`
	Confidence     float64        `json:"confidence"`
	Timestamp      time.Time      `json:"timestamp"`
}

// ConsensusResult is the aggregator's outcome for one round.
type ConsensusResult struct {
	Overall    AgreementLevel          `json:"overall"`
	ByRole     map[Role]AgreementLevel `json:"by_role"`
	Conflicts  []string                `json:"conflicts,omitempty"`
	Confidence float64                 `json:"confidence"`
	Reasoning  string                  `json:"reasoning"`
	Timestamp  time.Time               `json:"timestamp"`
}

// FinalRecommendation is the council's only externally consumed contract.
// Insights always carries exactly seven entries, one per role, even on a
// vetoed or degraded round.
type FinalRecommendation struct {
	Recommendation string          `json:"recommendation"`
	Reasoning      string          `json:"reasoning"`
	Alternatives   []string        `json:"alternatives,omitempty"`
	Consensus      AgreementLevel  `json:"consensus"`
	Insights       map[Role]string `json:"insights"`
	SafetyConcerns []string        `json:"safety_concerns,omitempty"`
	Confidence     float64         `json:"confidence"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Status is a read-only snapshot of the council's long-lived state.
type Status struct {
	Rounds       uint64          `json:"rounds"`
	LastRound    time.Time       `json:"last_round"`
	Descriptions map[Role]string `json:"descriptions"`
}
