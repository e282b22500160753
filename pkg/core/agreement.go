// SPDX-License-Identifier: Apache-2.0

package core

// AgreementLevel is a role's categorical verdict for a round. The first five
// values form an ordered scale; AgreementSafetyBlock is a sentinel outside the
// ordering that only the safety role may emit.
type AgreementLevel string

const (
	AgreementStrong         AgreementLevel = "strong_agreement"
	AgreementAgree          AgreementLevel = "agreement"
	AgreementNeutral        AgreementLevel = "neutral"
	AgreementDisagree       AgreementLevel = "disagreement"
	AgreementStrongDisagree AgreementLevel = "strong_disagreement"
	AgreementSafetyBlock    AgreementLevel = "safety_block"
)

// AgreementLevels returns the six levels, ordered scale first, sentinel last.
func AgreementLevels() []AgreementLevel {
	return []AgreementLevel{
		AgreementStrong,
		AgreementAgree,
		AgreementNeutral,
		AgreementDisagree,
		AgreementStrongDisagree,
		AgreementSafetyBlock,
	}
}

// AtLeastAgreement reports whether the level is agreement or stronger.
func (l AgreementLevel) AtLeastAgreement() bool {
	return l == AgreementStrong || l == AgreementAgree
}

// String implements fmt.Stringer.
func (l AgreementLevel) String() string { return string(l) }
