package services

import (
	"fmt"

	"github.com/justsurfingit/alumni-hub/internal/apperr"
	"github.com/justsurfingit/alumni-hub/internal/config"
	"github.com/justsurfingit/alumni-hub/internal/models"
)

// TransitionPolicy decides which current statuses may move to a decision.
// The permissive policy lets an owner overwrite a decided status; the strict
// policy allows pending -> accepted|rejected only.
type TransitionPolicy interface {
	Name() string
	// AllowedFrom lists the statuses that may transition to `to`. Empty means any.
	AllowedFrom(to models.Status) []models.Status
}

type permissivePolicy struct{}

func (permissivePolicy) Name() string { return config.PolicyPermissive }

func (permissivePolicy) AllowedFrom(models.Status) []models.Status { return nil }

type strictPolicy struct{}

func (strictPolicy) Name() string { return config.PolicyStrict }
func (strictPolicy) AllowedFrom(models.Status) []models.Status {
	return []models.Status{models.StatusPending}
}

func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch name {
	case config.PolicyPermissive, "":
		return permissivePolicy{}, nil
	case config.PolicyStrict:
		return strictPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown transition policy %q", name)
	}
}

// checkTransition rejects a transition the policy forbids before any write.
func checkTransition(p TransitionPolicy, current, to models.Status) error {
	from := p.AllowedFrom(to)
	if len(from) == 0 {
		return nil
	}
	for _, s := range from {
		if s == current {
			return nil
		}
	}
	return models.ErrAlreadyDecided
}

func parseDecision(status string) (models.Status, error) {
	st, err := models.ParseDecision(status)
	if err != nil {
		return "", apperr.New(apperr.KindBadRequest, "Invalid status", err)
	}
	return st, nil
}

func outcomeOf(err error) string {
	return apperr.KindOf(err).String()
}
