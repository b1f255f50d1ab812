package screening

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cyffeer/launchpad-jia/domain"
)

// ErrMalformedResponse marks provider output that could not be turned into a
// verdict. The cascade treats it as cause to advance to the next provider.
var ErrMalformedResponse = errors.New("malformed screening response")

// NormalizeVerdict extracts a well-formed verdict from raw provider output.
// The models are instructed to emit bare JSON, but in practice responses come
// back wrapped in code fences or with stray prose, so the payload is located
// and cleaned before parsing. Confidence and jobFitScore are documented as
// 0-100 but deliberately not clamped; out-of-range values pass through.
func NormalizeVerdict(raw string) (domain.Verdict, error) {
	cleaned := CleanJSONResponse(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	for _, field := range []string{"result", "reason", "confidence", "jobFitScore"} {
		if _, ok := payload[field]; !ok {
			return domain.Verdict{}, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, field)
		}
	}

	result := strings.TrimSpace(coerceString(payload["result"]))
	if !domain.IsValidResult(result) {
		return domain.Verdict{}, fmt.Errorf("%w: unknown result %q", ErrMalformedResponse, result)
	}

	confidence, err := coerceNumber(payload["confidence"])
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: confidence: %v", ErrMalformedResponse, err)
	}

	jobFitScore, err := coerceNumber(payload["jobFitScore"])
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: jobFitScore: %v", ErrMalformedResponse, err)
	}

	return domain.Verdict{
		Result:      result,
		Reason:      strings.TrimSpace(coerceString(payload["reason"])),
		Confidence:  confidence,
		JobFitScore: jobFitScore,
	}, nil
}

// CleanJSONResponse strips code fences, backticks and surrounding prose,
// leaving the outermost JSON object.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}

	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func coerceNumber(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
