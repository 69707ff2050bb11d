package recommend

import (
	"reflect"
	"testing"
)

func TestTokenizeBio(t *testing.T) {
	cases := []struct {
		name string
		bio  string
		want []string
	}{
		{
			name: "empty",
			bio:  "",
			want: nil,
		},
		{
			name: "plain_words_lowercased",
			bio:  "Backend Developer",
			want: []string{"backend", "developer"},
		},
		{
			name: "punctuation_and_digits_stripped",
			bio:  "Go! dev, since 2019.",
			want: []string{"go", "dev", "since"},
		},
		{
			name: "single_rune_tokens_dropped",
			bio:  "I do C and go",
			want: []string{"do", "and", "go"},
		},
		{
			name: "hangul_kept",
			bio:  "백엔드 개발자 3학년",
			want: []string{"백엔드", "개발자", "학년"},
		},
		{
			name: "single_hangul_syllable_dropped",
			bio:  "밥 좋아함",
			want: []string{"좋아함"},
		},
		{
			name: "duplicates_collapse",
			bio:  "go go go",
			want: []string{"go"},
		},
		{
			name: "only_symbols",
			bio:  "!!! 123 --",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TokenizeBio(tc.bio)
			want := make(map[string]struct{}, len(tc.want))
			for _, w := range tc.want {
				want[w] = struct{}{}
			}
			if len(got) == 0 && len(want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("TokenizeBio(%q)=%v, want %v", tc.bio, got, want)
			}
		})
	}
}
