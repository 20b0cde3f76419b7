package operation

import (
	"context"

	"github.com/ThousandsOfTies/home-teacher-core/pkg/instrument"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📋 RuleStatus reports one rule's detection marker in the target
type RuleStatus struct {
	Rule    string
	Marker  string
	Present bool
}

// 📊 Report describes how instrumented a target currently is
type Report struct {
	Target        string
	Rules         []RuleStatus
	InjectedLines int
}

// Patched reports whether any rule's marker is present
func (r *Report) Patched() bool {
	for _, rs := range r.Rules {
		if rs.Present {
			return true
		}
	}
	return false
}

// 🔍 CheckStatus is a read-only pass reporting which rules are currently
// applied to the target. The file's own content is the only state there is.
func CheckStatus(ctx context.Context, target string, rules []instrument.Rule) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("target", target).Msg("checking status")

	if len(rules) == 0 {
		rules = instrument.DefaultRules()
	}

	data, _, err := readTarget(target)
	if err != nil {
		return nil, errors.Errorf("checking status of %s: %w", target, err)
	}
	src := string(data)

	report := &Report{
		Target:        target,
		InjectedLines: instrument.CountInjectedLines(src),
	}
	for _, rule := range rules {
		report.Rules = append(report.Rules, RuleStatus{
			Rule:    rule.Name,
			Marker:  rule.Marker,
			Present: rule.Applied(src),
		})
	}

	return report, nil
}
