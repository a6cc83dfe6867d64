package subtitle

import (
	"errors"
	"testing"
)

func TestParseResponseValid(t *testing.T) {
	raw := `{"subtitles":[{"start":0,"end":2.5,"text":"Hello"},{"start":2.5,"end":5,"text":"World"}]}`
	seq, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expected 2 items, got %d", len(seq))
	}
	if seq[0].Text != "Hello" || seq[0].Start != 0 || seq[0].End != 2.5 {
		t.Errorf("unexpected first item: %+v", seq[0])
	}
	if seq[1].Text != "World" {
		t.Errorf("unexpected second item: %+v", seq[1])
	}
}

func TestParseResponsePreservesOrder(t *testing.T) {
	// Out-of-order timing from the service is kept as-is
	raw := `{"subtitles":[{"start":9,"end":10,"text":"b"},{"start":0,"end":1,"text":"a"}]}`
	seq, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if seq[0].Text != "b" || seq[1].Text != "a" {
		t.Errorf("order changed: %+v", seq)
	}
}

func TestParseResponseEmpty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		if _, err := ParseResponse(raw); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("ParseResponse(%q) = %v, want ErrEmptyResponse", raw, err)
		}
	}
}

func TestParseResponseMalformed(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"subtitles": "nope"}`,
		`{"other": []}`,
		`[]`,
		`{"subtitles": null}`,
	}
	for _, raw := range cases {
		if _, err := ParseResponse(raw); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParseResponse(%q) = %v, want ErrMalformedResponse", raw, err)
		}
	}
}

func TestParseResponseFencedObject(t *testing.T) {
	raw := "```json\n{\"subtitles\":[{\"start\":1,\"end\":2,\"text\":\"ok\"}]}\n```"
	seq, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse returned error: %v", err)
	}
	if len(seq) != 1 || seq[0].Text != "ok" {
		t.Errorf("unexpected sequence: %+v", seq)
	}
}

func TestParseResponseInvalidItemRejectsWholeBatch(t *testing.T) {
	cases := []string{
		// one of three entries lacks text
		`{"subtitles":[{"start":0,"end":1,"text":"a"},{"start":1,"end":2},{"start":2,"end":3,"text":"c"}]}`,
		// empty text
		`{"subtitles":[{"start":0,"end":1,"text":"a"},{"start":1,"end":2,"text":"  "}]}`,
		// missing start
		`{"subtitles":[{"end":1,"text":"a"}]}`,
		// missing end
		`{"subtitles":[{"start":0,"text":"a"}]}`,
		// non-numeric start
		`{"subtitles":[{"start":"0","end":1,"text":"a"}]}`,
		// non-string text
		`{"subtitles":[{"start":0,"end":1,"text":42}]}`,
	}
	for _, raw := range cases {
		seq, err := ParseResponse(raw)
		if !errors.Is(err, ErrInvalidItem) {
			t.Errorf("ParseResponse(%q) = %v, want ErrInvalidItem", raw, err)
		}
		if seq != nil {
			t.Errorf("ParseResponse(%q) returned a partial sequence of %d items", raw, len(seq))
		}
	}
}

func TestParseResponseEmptyArray(t *testing.T) {
	seq, err := ParseResponse(`{"subtitles":[]}`)
	if err != nil {
		t.Fatalf("empty array is valid, got error: %v", err)
	}
	if len(seq) != 0 {
		t.Errorf("expected empty sequence, got %d items", len(seq))
	}
}
