package newsfetch

import (
	"context"
	"errors"
	"testing"
)

func TestLocaleFor(t *testing.T) {
	cases := []struct {
		lang string
		hl   string
		gl   string
		ceid string
	}{
		{"zh", "zh-CN", "CN", "CN:zh-Hans"},
		{"ja", "ja", "JP", "JP:ja"},
		{"en", "en-US", "US", "US:en"},
		{"fr", "en-US", "US", "US:en"}, // unknown falls back to English
	}
	for _, tc := range cases {
		loc := localeFor(tc.lang)
		if loc.HL != tc.hl || loc.GL != tc.gl || loc.CEID != tc.ceid {
			t.Errorf("localeFor(%q) = %+v", tc.lang, loc)
		}
	}
}

func TestCleanSnippet(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"tags stripped", `<a href="x">Apple</a> beats <b>estimates</b>`, "Apple beats estimates"},
		{"entities decoded", "Q1 &amp; Q2 revenue", "Q1 & Q2 revenue"},
		{"plain text untouched", "no markup here", "no markup here"},
		{"whitespace trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanSnippet(tc.in); got != tc.want {
				t.Errorf("cleanSnippet(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

type stubCompleter struct {
	response string
	err      error
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return s.response, s.err
}

func TestExpandParsesVariants(t *testing.T) {
	completer := &stubCompleter{response: "Sure, here it is:\n" +
		`{"zh": ["AAPL 财报", "  ", "AAPL 股价"], "ja": ["AAPL 決算"], "en": ["AAPL earnings", "AAPL stock", "AAPL lawsuit"]}`}
	e := NewExpander(completer, 2)

	got := e.Expand(context.Background(), "AAPL", []string{"zh", "en"})

	if len(got["zh"]) != 2 || got["zh"][0] != "AAPL 财报" || got["zh"][1] != "AAPL 股价" {
		t.Errorf("zh variants = %v", got["zh"])
	}
	// Capped at maxPerLang.
	if len(got["en"]) != 2 {
		t.Errorf("en variants = %v", got["en"])
	}
	// Languages not requested are ignored.
	if _, ok := got["ja"]; ok {
		t.Error("expected ja to be absent")
	}
}

func TestExpandDegradations(t *testing.T) {
	langs := []string{"en"}

	t.Run("completer error", func(t *testing.T) {
		e := NewExpander(&stubCompleter{err: errors.New("down")}, 4)
		if got := e.Expand(context.Background(), "AAPL", langs); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("no json in output", func(t *testing.T) {
		e := NewExpander(&stubCompleter{response: "cannot help"}, 4)
		if got := e.Expand(context.Background(), "AAPL", langs); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		e := NewExpander(&stubCompleter{response: `{"en": [1, 2]}`}, 4)
		if got := e.Expand(context.Background(), "AAPL", langs); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("nil expander", func(t *testing.T) {
		var e *Expander
		if got := e.Expand(context.Background(), "AAPL", langs); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
