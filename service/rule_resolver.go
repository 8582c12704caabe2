package service

import (
	"context"
	"time"

	"featuredflags/entity"
	"featuredflags/pkg/logger"
	"featuredflags/pkg/metrics"
	"featuredflags/repository"
)

// RuleResolver picks the first active rule whose params satisfy the filter.
type RuleResolver struct {
	rules  repository.RuleRepository
	logger *logger.Logger
}

func NewRuleResolver(rules repository.RuleRepository, log *logger.Logger) *RuleResolver {
	return &RuleResolver{
		rules:  rules,
		logger: log,
	}
}

// Resolve evaluates flagName at asOf. Repository errors are returned as-is;
// no match yields a disabled result.
func (r *RuleResolver) Resolve(ctx context.Context, flagName string, filter map[string]string, asOf time.Time) (*entity.Result, error) {
	rules, err := r.rules.FindActiveRules(ctx, flagName, asOf)
	metrics.RecordRuleQuery(err)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if rule.MatchesFilter(filter) {
			r.logger.Debugw("Flag rule matched", "flag", flagName, "ruleID", rule.ID, "candidates", len(rules))
			return entity.ResultFromRule(rule), nil
		}
	}

	r.logger.Debugw("No flag rule matched", "flag", flagName, "candidates", len(rules))
	return entity.NewDisabledResult(), nil
}
