package domain

// Verdict result values the screening models are allowed to return.
const (
	ResultStrongFit        = "Strong Fit"
	ResultGoodFit          = "Good Fit"
	ResultBadFit           = "Bad Fit"
	ResultNoFit            = "No Fit"
	ResultIneligibleCV     = "Ineligible CV"
	ResultInsufficientData = "Insufficient Data"
)

// AllowedResults is the closed set accepted from a provider response.
var AllowedResults = []string{
	ResultNoFit,
	ResultBadFit,
	ResultGoodFit,
	ResultStrongFit,
	ResultIneligibleCV,
	ResultInsufficientData,
}

// VerdictTier groups the six results before the screening setting is applied.
type VerdictTier int

const (
	// TierReview results need a human decision (Ineligible CV, Insufficient Data).
	TierReview VerdictTier = iota
	// TierPromote results may advance the applicant (Good Fit, Strong Fit).
	TierPromote
	// TierDrop results reject the applicant (No Fit, Bad Fit).
	TierDrop
)

// TierOf classifies a verdict result into its tier. Unknown results fall into
// the review tier so a bad value never auto-promotes or auto-drops anyone.
func TierOf(result string) VerdictTier {
	switch result {
	case ResultGoodFit, ResultStrongFit:
		return TierPromote
	case ResultNoFit, ResultBadFit:
		return TierDrop
	default:
		return TierReview
	}
}

// Verdict is the normalized output of one screening call. It is rebuilt from
// scratch on every screening and never merged with a previous one.
type Verdict struct {
	Result      string  `json:"result"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
	JobFitScore float64 `json:"jobFitScore"`

	// Provenance of the response, for diagnostics.
	Provider string `json:"-"`
	Model    string `json:"-"`
}

// IsValidResult reports whether result belongs to the closed verdict set.
func IsValidResult(result string) bool {
	for _, r := range AllowedResults {
		if r == result {
			return true
		}
	}
	return false
}

// ScreeningSetting is the org-configured promotion policy of a career.
type ScreeningSetting string

const (
	// SettingNoAutoPromotion stores the verdict and leaves the decision to a
	// recruiter. Empty/unknown settings resolve to this.
	SettingNoAutoPromotion ScreeningSetting = "No Automatic Promotion"
	SettingGoodFitAndAbove ScreeningSetting = "Good Fit and above"
	SettingOnlyStrongFit   ScreeningSetting = "Only Strong Fit"
)

// NormalizeSetting maps raw stored values onto the closed setting enum.
func NormalizeSetting(raw string) ScreeningSetting {
	switch ScreeningSetting(raw) {
	case SettingGoodFitAndAbove:
		return SettingGoodFitAndAbove
	case SettingOnlyStrongFit:
		return SettingOnlyStrongFit
	default:
		return SettingNoAutoPromotion
	}
}
