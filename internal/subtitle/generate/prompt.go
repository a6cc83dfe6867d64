package generate

import (
	"fmt"

	"github.com/subgen/backend/internal/subtitle"
)

// instructionText builds the generation instructions. The template is
// parameterized only by the target language's display name, so the same
// language always yields the same instructions.
func instructionText(lang subtitle.Language) string {
	name := lang.DisplayName()
	return fmt.Sprintf(`You are a professional subtitler. Listen to the provided media and produce subtitles in %s.

Rules:
1. First detect the spoken language of the content.
2. If the content is already in %s, transcribe it faithfully. Otherwise, translate it faithfully into %s.
3. Every subtitle line must be written in %s.
4. Timestamps must be tightly synchronized to the speech.
5. Keep each subtitle line short, at most about 10 words.
6. Respond with a single JSON object containing a "subtitles" array. Every entry must have "start" (seconds), "end" (seconds) and "text" fields. All three fields are required.`,
		name, name, name, name)
}

// referenceInstruction appends the external media URL so the service can
// resolve the reference itself via its search tool.
func referenceInstruction(lang subtitle.Language, url string) string {
	return instructionText(lang) + fmt.Sprintf(`

The media is not attached. It is available at this URL: %s
Use your search capability to locate and analyze this media.`, url)
}

// responseSchema is the strict output schema attached to every request.
// The service is contracted to honor it, but the response is re-validated
// regardless.
func responseSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"subtitles": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"start": map[string]interface{}{"type": "NUMBER"},
						"end":   map[string]interface{}{"type": "NUMBER"},
						"text":  map[string]interface{}{"type": "STRING"},
					},
					"required": []string{"start", "end", "text"},
				},
			},
		},
		"required": []string{"subtitles"},
	}
}
