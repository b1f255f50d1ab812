package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cyffeer/launchpad-jia/domain"
)

// Section names the digitizer asks the model to produce, in display order.
var digitalCVSections = []string{
	"Introduction",
	"Current Position",
	"Contact Info",
	"Skills",
	"Experience",
	"Education",
	"Projects",
	"Certifications",
	"Awards",
}

// BuildDigitizePrompt assembles the CV digitization prompt from extracted
// text chunks.
func BuildDigitizePrompt(chunks []string) (string, error) {
	text := strings.TrimSpace(strings.Join(chunks, "\n"))
	if text == "" {
		return "", fmt.Errorf("%w: no CV text extracted", ErrMissingInput)
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant that will extract the following data from the CV:\n\n")
	b.WriteString("CV chunks:\n")
	b.WriteString(text + "\n\n")
	b.WriteString(`Extract the following data from the CV:
  - Name
  - Email
  - Phone
  - Address
  - LinkedIn
  - GitHub
  - Twitter

JSON template:
{
  "errorRemarks": <error remarks>,
  "digitalCV":
    [
`)
	for _, name := range digitalCVSections {
		b.WriteString(fmt.Sprintf("      {\"name\": %q, \"content\": <%s content markdown format>},\n", name, name))
	}
	b.WriteString(`    ]
}

Processing Instructions:
  - follow the JSON template strictly
  - for contact info content make sure links are formatted as markdown links
  - give detailed info in the content field
  - make sure the markdown format is correct, all section headlines are in bold, all lists are in bullet points
  - for the Error Remarks, give a message if the chunks do not seem to be a curriculum vitae, otherwise set it to null
  - Do not include any other text or comments in the JSON output.
  - Only return the JSON output.
  - DO NOT include ` + "```json or ```" + ` around the response.
`)

	return b.String(), nil
}

type digitalCVPayload struct {
	ErrorRemarks string             `json:"errorRemarks"`
	DigitalCV    []domain.CVSection `json:"digitalCV"`
}

// ParseDigitalCV extracts the sectioned CV from raw provider output.
func ParseDigitalCV(raw string) ([]domain.CVSection, string, error) {
	cleaned := CleanJSONResponse(raw)

	var payload digitalCVPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(payload.DigitalCV) == 0 {
		return nil, "", fmt.Errorf("%w: digitalCV is empty", ErrMalformedResponse)
	}
	return payload.DigitalCV, payload.ErrorRemarks, nil
}

// DigitalizeCV runs the extracted CV text through the provider cascade and
// persists the digitized sections for the candidate. Re-running replaces the
// previous digital CV.
func (s *Screener) DigitalizeCV(ctx context.Context, email, fileName string, chunks []string) (*domain.CandidateCV, error) {
	prompt, err := BuildDigitizePrompt(chunks)
	if err != nil {
		return nil, err
	}

	var sections []domain.CVSection
	var remarks string
	resp, err := s.cascade.Generate(ctx, prompt, func(raw string) error {
		secs, rem, perr := ParseDigitalCV(raw)
		if perr != nil {
			return perr
		}
		sections, remarks = secs, rem
		return nil
	})
	if err != nil {
		return nil, err
	}

	cv := &domain.CandidateCV{
		Email:        email,
		Sections:     sections,
		ErrorRemarks: remarks,
		FileName:     fileName,
	}
	if err := s.store.SaveCandidateCV(ctx, cv); err != nil {
		return nil, fmt.Errorf("failed to persist digital CV: %w", err)
	}

	logrus.Infof("digitalized CV for %s: %d sections (%s/%s)", email, len(sections), resp.Provider, resp.Model)
	return cv, nil
}
