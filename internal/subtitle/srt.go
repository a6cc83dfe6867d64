package subtitle

import (
	"fmt"
	"math"
	"strings"
)

// FormatTimestamp renders seconds as an SRT timestamp "HH:MM:SS,mmm".
// The hour field is not wrapped at 24: 90000s renders as 25:00:00,000.
// Milliseconds are rounded, not truncated, so 2.9995 becomes 00:00:03,000.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int64(math.Round(seconds * 1000))
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp converts an SRT or VTT timestamp back to seconds.
func ParseTimestamp(ts string) float64 {
	ts = strings.Replace(ts, ",", ".", 1)
	var h, m, s, ms int
	fmt.Sscanf(ts, "%d:%d:%d.%d", &h, &m, &s, &ms)
	return float64(h*3600+m*60+s) + float64(ms)/1000.0
}

// ToSRT serializes a sequence to SRT: 1-indexed blocks in sequence order,
// separated by a single blank line. Deterministic: the same sequence
// always yields byte-identical output.
func ToSRT(seq Sequence) string {
	blocks := make([]string, len(seq))
	for i, item := range seq {
		blocks[i] = fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1, FormatTimestamp(item.Start), FormatTimestamp(item.End), item.Text)
	}
	return strings.Join(blocks, "\n")
}

// ToTranscript serializes a sequence as plain prose: one text line per
// item, in sequence order, no timestamps.
func ToTranscript(seq Sequence) string {
	var sb strings.Builder
	for _, item := range seq {
		sb.WriteString(item.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
