package pipeline

import (
	"testing"

	"github.com/Alphteow/major-games-reporting-templates/internal"
)

func TestResolveResultType(t *testing.T) {
	entries := []internal.ResultTypeEntry{
		{Sport: "ATHLETICS", ResultType: internal.ResultTime},
		{Sport: "ATHLETICS", Event: "High Jump", ResultType: internal.ResultHeight},
		{Sport: "ATHLETICS", Event: "Long Jump", ResultType: internal.ResultDistance},
		{Sport: "WEIGHTLIFTING", Event: "Men 61kg", ResultType: internal.ResultWeight},
		{Sport: "WEIGHTLIFTING", ResultType: internal.ResultScore},
	}

	cases := []struct {
		name  string
		sport string
		event string
		want  internal.ResultType
	}{
		{name: "exact pair", sport: "ATHLETICS", event: "High Jump", want: internal.ResultHeight},
		{name: "case insensitive pair", sport: "athletics", event: "long jump", want: internal.ResultDistance},
		{name: "sport fallback", sport: "ATHLETICS", event: "100m", want: internal.ResultTime},
		{name: "first sport entry wins", sport: "WEIGHTLIFTING", event: "Women 49kg", want: internal.ResultWeight},
		{name: "default", sport: "KITE FLYING", event: "Freestyle", want: internal.ResultScore},
		{name: "empty sport", sport: "", event: "", want: internal.ResultScore},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveResultType(entries, tc.sport, tc.event); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestResolveResultTypeNeverEmpty(t *testing.T) {
	if got := ResolveResultType(nil, "SWIMMING", "100m"); got != DefaultResultType {
		t.Fatalf("got %q", got)
	}
}
