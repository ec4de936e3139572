package recommend_test

import (
	"reflect"
	"testing"

	"github.com/dmoretti/bookwise-agent/internal/app/recommend"
)

func TestExtractTitles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single bold title with genre line",
			text: "• **Dune** by Frank Herbert\n📖 Genre: Sci-Fi",
			want: []string{"Dune"},
		},
		{
			name: "multiple bold titles dedup case-insensitive",
			text: "• **Dune** by Frank Herbert\n• **Hyperion** by Dan Simmons\n• **DUNE** again",
			want: []string{"Dune", "Hyperion"},
		},
		{
			name: "whitespace-only bold markers discarded",
			text: "** ** and **Project Hail Mary**",
			want: []string{"Project Hail Mary"},
		},
		{
			name: "bullet fallback cut at author",
			text: "• The Hobbit by J.R.R. Tolkien\n- Circe by Madeline Miller",
			want: []string{"The Hobbit", "Circe"},
		},
		{
			name: "bullet fallback author separator is case-insensitive",
			text: "• The Hobbit BY J.R.R. Tolkien",
			want: []string{"The Hobbit"},
		},
		{
			name: "bullet fallback survives case-folding titles",
			text: "• İİ by Yazar",
			want: []string{"İİ"},
		},
		{
			name: "bullet fallback cut at book emoji",
			text: "• Piranesi 📖 Genre: Fantasy",
			want: []string{"Piranesi"},
		},
		{
			name: "bold takes precedence over bullets",
			text: "• **Dune** by Frank Herbert\n• Some stray bullet line",
			want: []string{"Dune"},
		},
		{
			name: "no markers yields empty set",
			text: "I could not come up with anything today, sorry!",
			want: []string{},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recommend.ExtractTitles(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractTitles(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractTitlesIdempotent(t *testing.T) {
	text := "• **The Seven Husbands of Evelyn Hugo** by Taylor Jenkins Reid\n" +
		"• **Dune** by Frank Herbert\n" +
		"• **The Thursday Murder Club** by Richard Osman"

	first := recommend.ExtractTitles(text)
	second := recommend.ExtractTitles(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not idempotent: %v vs %v", first, second)
	}
	want := []string{"The Seven Husbands of Evelyn Hugo", "Dune", "The Thursday Murder Club"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("got %v, want %v", first, want)
	}
}
