package screening

import (
	"fmt"
	"strings"

	"github.com/cyffeer/launchpad-jia/domain"
)

// PromptInput carries everything that goes into one screening prompt. The
// caller is expected to have validated presence of job, CV and org
// instructions upstream; BuildScreeningPrompt re-checks and fails fast.
type PromptInput struct {
	JobTitle      string
	Description   string
	CandidateName string
	Sections      []domain.CVSection
	Answers       []domain.PreScreeningAnswer

	// Instructions is the org-wide screening evaluation blob, opaque text.
	Instructions string
	// SecretPrompt is the career's hidden evaluation directive, never shown
	// to the candidate. Optional.
	SecretPrompt string
}

// BuildScreeningPrompt assembles the classification prompt in fixed order:
// role framing, job details, candidate name, CV sections, optional
// pre-screening block, org instructions, optional secret directive, and the
// strict output-format contract.
func BuildScreeningPrompt(in PromptInput) (string, error) {
	if strings.TrimSpace(in.JobTitle) == "" || strings.TrimSpace(in.Description) == "" {
		return "", fmt.Errorf("%w: job title and description are required", ErrMissingInput)
	}
	if len(in.Sections) == 0 {
		return "", fmt.Errorf("%w: candidate CV has no sections", ErrMissingInput)
	}
	if strings.TrimSpace(in.Instructions) == "" {
		return "", fmt.Errorf("%w: org screening instructions are not configured", ErrMissingInput)
	}

	var b strings.Builder
	b.WriteString("You are a helpful AI assistant.\n")
	b.WriteString("You are given a candidate's CV and a job description.\n")
	b.WriteString("You need to screen the candidate's CV and determine if they are a good fit for the job.\n\n")

	b.WriteString("Job Details:\n")
	b.WriteString("Job Title:\n")
	b.WriteString(in.JobTitle + "\n")
	b.WriteString("Job Description:\n")
	b.WriteString(in.Description + "\n\n")

	b.WriteString("Applicant CV Information:\n")
	b.WriteString("Applicant Name: " + in.CandidateName + "\n\n")

	b.WriteString("Applicant CV:\n")
	for _, section := range in.Sections {
		b.WriteString(section.Name + "\n" + section.Content + "\n")
	}
	b.WriteString("\n")

	// The pre-screening block is omitted entirely when there are no answers.
	if len(in.Answers) > 0 {
		b.WriteString("Pre-screening Answers Provided by Applicant:\n")
		for i, answer := range in.Answers {
			b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, answer.Question, renderAnswer(answer.Answer)))
		}
		b.WriteString("\n")
	}

	b.WriteString("Processing Steps:\n")
	b.WriteString(in.Instructions + "\n")
	if strings.TrimSpace(in.SecretPrompt) != "" {
		b.WriteString(in.SecretPrompt + "\n")
	}
	b.WriteString("\n")

	b.WriteString(`- Format your response as JSON:
  {
    "result": <Result (No Fit / Bad Fit / Good Fit / Strong Fit / Ineligible CV / Insufficient Data)>,
    "reason": <Reason>,
    "confidence": <AI Assessment Confidence (0-100)>,
    "jobFitScore": <Overall Score (0-100)>
  }
- Return only the JSON, nothing else.
- Carefully analyze the applicant's CV and job description.
- Be as accurate as possible.
- Give a detailed reason for the result: be clear, concise, and specific.
- Set result to "Ineligible CV" if the applicant's CV is not in the correct format.
- Set result to "Insufficient Data" if the applicant's CV is missing important information.
- Do not include any other text or comments.
- DO NOT include ` + "```json or ```" + ` around the response.
`)

	return b.String(), nil
}

// renderAnswer flattens a pre-screening answer to text. Multi-select answers
// arrive as lists and are comma-joined.
func renderAnswer(answer any) string {
	switch val := answer.(type) {
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
