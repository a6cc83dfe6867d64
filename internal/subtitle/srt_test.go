package subtitle

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{2.5, "00:00:02,500"},
		{59.999, "00:00:59,999"},
		{60, "00:01:00,000"},
		{3599.5, "00:59:59,500"},
		{3600, "01:00:00,000"},
		{3661.25, "01:01:01,250"},
		// Hours must not wrap at 24
		{90000, "25:00:00,000"},
		{359999.999, "99:59:59,999"},
		// Milliseconds round, they do not truncate
		{2.9995, "00:00:03,000"},
		{0.0004, "00:00:00,000"},
		{0.0005, "00:00:00,001"},
	}
	for _, c := range cases {
		if got := FormatTimestamp(c.seconds); got != c.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 0.001, 1.5, 59.999, 61.05, 3599.25, 3600, 86399.5, 90000, 123456.789} {
		got := ParseTimestamp(FormatTimestamp(seconds))
		if math.Abs(got-seconds) > 0.001 {
			t.Errorf("round trip %v -> %q -> %v, drift > 1ms", seconds, FormatTimestamp(seconds), got)
		}
	}
}

func TestToSRT(t *testing.T) {
	seq := Sequence{
		{Start: 0, End: 2.5, Text: "Hello"},
		{Start: 2.5, End: 5, Text: "World"},
	}

	want := "1\n00:00:00,000 --> 00:00:02,500\nHello\n\n2\n00:00:02,500 --> 00:00:05,000\nWorld\n"
	if got := ToSRT(seq); got != want {
		t.Errorf("ToSRT = %q, want %q", got, want)
	}
}

func TestToSRTDeterministic(t *testing.T) {
	seq := Sequence{
		{Start: 1.25, End: 3, Text: "one"},
		{Start: 3, End: 4.5, Text: "two"},
		{Start: 4.5, End: 9, Text: "three"},
	}
	first := ToSRT(seq)
	for i := 0; i < 5; i++ {
		if got := ToSRT(seq); got != first {
			t.Fatalf("serialization %d differs from first pass", i+1)
		}
	}
}

func TestToSRTBlockNumbering(t *testing.T) {
	var seq Sequence
	for i := 0; i < 12; i++ {
		seq = append(seq, Item{Start: float64(i), End: float64(i) + 1, Text: "line"})
	}
	out := ToSRT(seq)

	blocks := strings.Split(strings.TrimSuffix(out, "\n"), "\n\n")
	if len(blocks) != len(seq) {
		t.Fatalf("expected %d blocks, got %d", len(seq), len(blocks))
	}
	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		if got, want := lines[0], strconv.Itoa(i+1); got != want {
			t.Errorf("block %d numbered %q, want %q", i, got, want)
		}
	}
}

// Preserving unsorted, overlapping input order is intentional: the
// serializer never reorders what it was given.
func TestToSRTPreservesOrder(t *testing.T) {
	seq := Sequence{
		{Start: 10, End: 12, Text: "later"},
		{Start: 0, End: 2, Text: "earlier"},
	}
	out := ToSRT(seq)
	if !strings.HasPrefix(out, "1\n00:00:10,000 --> 00:00:12,000\nlater\n") {
		t.Fatalf("sequence order not preserved:\n%s", out)
	}
}

func TestToTranscript(t *testing.T) {
	seq := Sequence{
		{Start: 0, End: 2.5, Text: "Hello"},
		{Start: 2.5, End: 5, Text: "World"},
	}
	if got, want := ToTranscript(seq), "Hello\nWorld\n"; got != want {
		t.Errorf("ToTranscript = %q, want %q", got, want)
	}
	if strings.Contains(ToTranscript(seq), "-->") {
		t.Error("transcript must not contain timestamps")
	}
}

func TestToSRTEmptySequence(t *testing.T) {
	if got := ToSRT(nil); got != "" {
		t.Errorf("empty sequence should serialize to empty string, got %q", got)
	}
}
