package ticker

import (
	"context"
	"errors"
	"testing"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestInferTickerFallbackTables(t *testing.T) {
	completer := &stubCompleter{response: "SHOULD-NOT-BE-USED"}
	r := NewResolver(completer)
	ctx := context.Background()

	cases := []struct {
		company string
		market  string
		want    string
	}{
		{"Apple", "US", "AAPL"},
		{"apple", "JP", "AAPL"}, // single-listing table ignores market
		{"Toyota", "US", "TM"},
		{"Toyota", "JP", "7203"},
		{"toyota", "EU", "TM"}, // unknown market falls back to US listing
		{"SoftBank", "JP", "9984"},
		{"", "US", ""},
	}
	for _, tc := range cases {
		if got := r.InferTicker(ctx, tc.company, tc.market); got != tc.want {
			t.Errorf("InferTicker(%q, %q) = %q, want %q", tc.company, tc.market, got, tc.want)
		}
	}
	if completer.calls != 0 {
		t.Errorf("expected no model calls for table hits, got %d", completer.calls)
	}
}

func TestInferTickerModelPath(t *testing.T) {
	ctx := context.Background()

	r := NewResolver(&stubCompleter{response: " brk.b \n"})
	if got := r.InferTicker(ctx, "Berkshire Hathaway", "US"); got != "BRK.B" {
		t.Errorf("expected trimmed uppercase ticker, got %q", got)
	}

	r = NewResolver(&stubCompleter{err: errors.New("down")})
	if got := r.InferTicker(ctx, "Berkshire Hathaway", "US"); got != "" {
		t.Errorf("expected empty on model failure, got %q", got)
	}
}

func TestInferCompanyName(t *testing.T) {
	ctx := context.Background()

	completer := &stubCompleter{response: "never"}
	r := NewResolver(completer)
	if got := r.InferCompanyName(ctx, "aapl", "US"); got != "Apple" {
		t.Errorf("expected table hit, got %q", got)
	}
	if got := r.InferCompanyName(ctx, "7203", "JP"); got != "Toyota" {
		t.Errorf("expected table hit, got %q", got)
	}
	if completer.calls != 0 {
		t.Errorf("expected no model calls, got %d", completer.calls)
	}

	r = NewResolver(&stubCompleter{response: "Palantir Technologies\n"})
	if got := r.InferCompanyName(ctx, "PLTR", "US"); got != "Palantir Technologies" {
		t.Errorf("model path = %q", got)
	}

	r = NewResolver(&stubCompleter{err: errors.New("down")})
	if got := r.InferCompanyName(ctx, "PLTR", "US"); got != "" {
		t.Errorf("expected empty on failure, got %q", got)
	}
}

func TestNormalizeTickerForMarket(t *testing.T) {
	r := NewResolver(&stubCompleter{})
	ctx := context.Background()

	// A dual-listed US symbol re-resolves to the JP code and back.
	if got := r.NormalizeTickerForMarket(ctx, "TM", "JP"); got != "7203" {
		t.Errorf("TM on JP = %q, want 7203", got)
	}
	if got := r.NormalizeTickerForMarket(ctx, "7203", "US"); got != "TM" {
		t.Errorf("7203 on US = %q, want TM", got)
	}
	// Same-market normalization is a no-op.
	if got := r.NormalizeTickerForMarket(ctx, "AAPL", "US"); got != "AAPL" {
		t.Errorf("AAPL on US = %q", got)
	}
	// Unknown symbols pass through.
	if got := r.NormalizeTickerForMarket(ctx, "pltr", "US"); got != "PLTR" {
		t.Errorf("unknown symbol = %q", got)
	}
	if got := r.NormalizeTickerForMarket(ctx, "", "US"); got != "" {
		t.Errorf("empty symbol = %q", got)
	}
}

func TestInferIndustry(t *testing.T) {
	ctx := context.Background()

	completer := &stubCompleter{response: "never"}
	r := NewResolver(completer)
	if got := r.InferIndustry(ctx, "AAPL"); got != "Consumer Electronics" {
		t.Errorf("table hit = %q", got)
	}
	if got := r.InferIndustry(ctx, "9432"); got != "Telecom" {
		t.Errorf("table hit = %q", got)
	}
	if completer.calls != 0 {
		t.Errorf("expected no model calls, got %d", completer.calls)
	}

	r = NewResolver(&stubCompleter{response: " Cloud Software \n"})
	if got := r.InferIndustry(ctx, "SNOW"); got != "Cloud Software" {
		t.Errorf("model path = %q", got)
	}

	for name, c := range map[string]*stubCompleter{
		"error": {err: errors.New("down")},
		"empty": {response: "   "},
	} {
		r = NewResolver(c)
		if got := r.InferIndustry(ctx, "SNOW"); got != "General Industry" {
			t.Errorf("%s: expected generic label, got %q", name, got)
		}
	}
}
