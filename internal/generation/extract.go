package generation

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/arcscan/arcscan-api/internal/errors"
)

// ExtractJSON finds the first balanced top-level JSON object in generated
// text and unmarshals it into v. Model output is untrusted prose that is
// merely expected to contain an object, so this scans for braces instead of
// parsing the whole document. String literals are honored so braces inside
// them don't affect the depth count.
func ExtractJSON(text string, v interface{}) error {
	raw, err := firstJSONObject(text)
	if err != nil {
		return apperrors.NewResearchError(apperrors.KindGenerationParse,
			"Could not extract a JSON response from the generated text. Please try again with more specific business details.", err)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return apperrors.NewResearchError(apperrors.KindGenerationParse,
			"The generated response contained malformed JSON. Please try again with more specific business details.", err)
	}

	return nil
}

// firstJSONObject returns the first balanced {...} region of text.
func firstJSONObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	if start < 0 {
		return "", fmt.Errorf("no JSON object found in text")
	}
	return "", fmt.Errorf("unbalanced JSON object in text")
}
