package subtitle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawItem uses pointers so a missing field is distinguishable from a zero
// value, and per-item decoding so one bad entry is reported by index.
type rawItem struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Text  *string  `json:"text"`
}

// ParseResponse validates the raw service reply and builds a Sequence.
// The service declares a strict output schema, but it is not a trusted
// boundary: everything is re-checked here. Acceptance is all-or-nothing;
// silently dropping entries would desynchronize timing for the user.
// Array order is preserved as-is, with no re-sorting or clamping.
func ParseResponse(raw string) (Sequence, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var top struct {
		Subtitles []json.RawMessage `json:"subtitles"`
	}
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		// Models occasionally wrap the object in prose or a code fence.
		// One extraction attempt, then give up.
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if err2 := json.Unmarshal([]byte(raw[start:end+1]), &top); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	if top.Subtitles == nil {
		return nil, fmt.Errorf("%w: missing subtitles array", ErrMalformedResponse)
	}

	seq := make(Sequence, 0, len(top.Subtitles))
	for i, entry := range top.Subtitles {
		var item rawItem
		if err := json.Unmarshal(entry, &item); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidItem, i, err)
		}
		if item.Start == nil || item.End == nil {
			return nil, fmt.Errorf("%w: entry %d: missing start or end", ErrInvalidItem, i)
		}
		if item.Text == nil || strings.TrimSpace(*item.Text) == "" {
			return nil, fmt.Errorf("%w: entry %d: missing text", ErrInvalidItem, i)
		}
		seq = append(seq, Item{Start: *item.Start, End: *item.End, Text: *item.Text})
	}
	return seq, nil
}
