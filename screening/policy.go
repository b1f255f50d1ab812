package screening

import "github.com/cyffeer/launchpad-jia/domain"

// Decision is what the promotion policy derives from a verdict. It is a pure
// function of (result, screening setting, engine options); applying it to the
// application record is a separate step.
type Decision struct {
	// Status is the new pipeline status. Empty means unchanged (manual
	// review policies leave the application at For CV Screening).
	Status      string
	CurrentStep string
	StateClass  string

	// CVSettingResult is Passed/Failed once the policy has run.
	CVSettingResult string

	// Drop marks the application as Dropped in addition to the status.
	Drop bool

	// AuditAction is the history entry action ("" when no stage change).
	AuditAction string
	FromStage   string
	ToStage     string

	// Promoted is set when the policy advanced the candidate to the AI
	// interview stage.
	Promoted bool
}

// policyRule is one row of the promotion policy table. Keeping the table as
// data lets new settings ship without touching the decision logic.
type policyRule struct {
	// promotes lists the verdict results this setting auto-promotes.
	// A nil list means the setting never promotes (manual review).
	promotes []string
	// manual keeps the application at For CV Screening regardless of tier.
	manual bool
}

var policyTable = map[domain.ScreeningSetting]policyRule{
	domain.SettingNoAutoPromotion: {manual: true},
	domain.SettingGoodFitAndAbove: {promotes: []string{domain.ResultGoodFit, domain.ResultStrongFit}},
	domain.SettingOnlyStrongFit:   {promotes: []string{domain.ResultStrongFit}},
}

// PolicyEngine maps a normalized verdict plus the career's screening setting
// to a pipeline decision.
type PolicyEngine struct {
	// ReviewTierHold keeps review-tier results (Ineligible CV, Insufficient
	// Data) at For CV Screening for a human decision even under promoting
	// settings, instead of failing them outright.
	ReviewTierHold bool
}

// Decide computes the pipeline decision for a verdict result under a setting.
func (e PolicyEngine) Decide(result string, setting domain.ScreeningSetting) Decision {
	rule, ok := policyTable[setting]
	if !ok {
		rule = policyTable[domain.SettingNoAutoPromotion]
	}

	tier := domain.TierOf(result)
	promoted := rule.contains(result)

	d := Decision{
		CurrentStep: domain.StepCVScreening,
		StateClass:  stateClassFor(result),
		Promoted:    promoted,
	}

	if promoted {
		d.CVSettingResult = domain.CVSettingPassed
	} else {
		d.CVSettingResult = domain.CVSettingFailed
	}
	if rule.manual && tier == domain.TierPromote {
		// Under manual review a promote-tier verdict still counts as a pass;
		// it just waits for a recruiter.
		d.CVSettingResult = domain.CVSettingPassed
	}

	switch {
	case rule.manual:
		d.Status = domain.StatusForCVScreening
	case promoted:
		d.Status = domain.StatusForAIInterview
		d.CurrentStep = domain.StepAIInterview
		d.StateClass = domain.StateAccepted
		d.AuditAction = domain.ActionAutoPromoted
		d.FromStage = domain.StepCVScreening
		d.ToStage = "Pending AI Interview"
	case e.ReviewTierHold && tier == domain.TierReview:
		d.Status = domain.StatusForCVScreening
	default:
		d.Status = domain.StatusFailedCVScreening
		d.StateClass = domain.StateRejected
	}

	// Drop-tier verdicts never promote under any setting; they leave the
	// pipeline and get an audit entry.
	if tier == domain.TierDrop {
		d.Drop = true
		d.AuditAction = domain.ActionDropped
		d.FromStage = domain.StepCVScreening
		d.ToStage = ""
	}

	return d
}

func (r policyRule) contains(result string) bool {
	for _, p := range r.promotes {
		if p == result {
			return true
		}
	}
	return false
}

func stateClassFor(result string) string {
	switch domain.TierOf(result) {
	case domain.TierPromote:
		if result == domain.ResultGoodFit {
			return domain.StateGood
		}
		return domain.StateAccepted
	default:
		return domain.StateRejected
	}
}
