// Package review holds the pluggable verdict policies consulted by the
// appeal lifecycle. The defaults stand in for a real evidence evaluator
// and a real traffic officer; swapping them does not touch the engine.
package review

import (
	"math/rand"

	"civitrack-service/internal/model"
)

// AutomatedPolicy decides the first-stage verdict for an appeal.
type AutomatedPolicy interface {
	Decide(appeal *model.Appeal) model.Verdict
}

// AuthorityPolicy decides the second-stage verdict, with the already
// resolved automated verdict available as input.
type AuthorityPolicy interface {
	Decide(appeal *model.Appeal, automated model.Verdict) model.Verdict
}

// CoinFlipPolicy accepts or rejects with equal probability. Placeholder
// until a real evidence-review policy exists.
type CoinFlipPolicy struct{}

func (CoinFlipPolicy) Decide(_ *model.Appeal) model.Verdict {
	if rand.Intn(2) == 0 {
		return model.VerdictAccepted
	}
	return model.VerdictRejected
}

// MirrorPolicy returns whatever the automated stage decided. Officers
// overwhelmingly confirm the automated assessment, so this is the
// default authority behavior.
type MirrorPolicy struct{}

func (MirrorPolicy) Decide(_ *model.Appeal, automated model.Verdict) model.Verdict {
	return automated
}

// FixedAutomatedPolicy always returns the configured verdict.
type FixedAutomatedPolicy struct {
	Verdict model.Verdict
}

func (p FixedAutomatedPolicy) Decide(_ *model.Appeal) model.Verdict {
	return p.Verdict
}

// FixedAuthorityPolicy always returns the configured verdict, ignoring
// the automated stage.
type FixedAuthorityPolicy struct {
	Verdict model.Verdict
}

func (p FixedAuthorityPolicy) Decide(_ *model.Appeal, _ model.Verdict) model.Verdict {
	return p.Verdict
}
