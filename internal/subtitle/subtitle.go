package subtitle

import "fmt"

// Item is a single timed caption. Start and End are in seconds.
type Item struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Sequence is an ordered list of captions produced by one generation.
// Order is significant: it determines the emitted block numbers.
// A validated sequence is treated as read-only by all consumers.
type Sequence []Item

// Language is one of the supported output languages.
type Language string

const (
	LangEnglish    Language = "english"
	LangIndonesian Language = "indonesian"
	LangJapanese   Language = "japanese"
	LangKorean     Language = "korean"
	LangSpanish    Language = "spanish"
)

// languageInfo maps each supported language to its display name (used in
// the generation instructions) and a short tag (used in output filenames).
var languageInfo = map[Language]struct {
	Display string
	Tag     string
}{
	LangEnglish:    {"English", "en"},
	LangIndonesian: {"Indonesian", "id"},
	LangJapanese:   {"Japanese", "ja"},
	LangKorean:     {"Korean", "ko"},
	LangSpanish:    {"Spanish", "es"},
}

// Languages returns the supported languages in a stable order.
func Languages() []Language {
	return []Language{LangEnglish, LangIndonesian, LangJapanese, LangKorean, LangSpanish}
}

// ParseLanguage validates a client-supplied language value.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if _, ok := languageInfo[l]; !ok {
		return "", fmt.Errorf("unsupported language: %q", s)
	}
	return l, nil
}

// DisplayName returns the human-readable name, e.g. "Indonesian".
func (l Language) DisplayName() string {
	if info, ok := languageInfo[l]; ok {
		return info.Display
	}
	return string(l)
}

// Tag returns the short language tag used in filenames, e.g. "id".
func (l Language) Tag() string {
	if info, ok := languageInfo[l]; ok {
		return info.Tag
	}
	return string(l)
}
