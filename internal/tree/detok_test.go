package tree

import "testing"

func TestDetokenize(t *testing.T) {
	cases := []struct {
		tokens []string
		want   string
	}{
		{[]string{"Mario", "jumps", "."}, "Mario jumps."},
		{[]string{"Minecraft", "'s", "story"}, "Minecraft's story"},
		{[]string{"it", "does", "n't", "end", ",", "sadly"}, "it doesn't end, sadly"},
		{[]string{"the", "-LRB-", "first", "-RRB-", "game"}, "the (first) game"},
		{[]string{"``", "Hello", "''", "he", "said"}, `"Hello" he said`},
		{[]string{"costs", "$", "60"}, "costs $60"},
		{nil, ""},
	}

	for _, tc := range cases {
		if got := Detokenize(tc.tokens); got != tc.want {
			t.Errorf("Detokenize(%q) = %q, want %q", tc.tokens, got, tc.want)
		}
	}
}
