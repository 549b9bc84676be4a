package lyrics

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sukalov/lyricsearch/internal/vision"
)

type fakeSearcher struct {
	replies []string
	err     error

	prompts   []string
	maxTokens []int64
	keys      []string
}

func (f *fakeSearcher) Complete(_ context.Context, apiKey, prompt string, maxTokens int64) (string, error) {
	f.keys = append(f.keys, apiKey)
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	if f.err != nil {
		return "", f.err
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

var shapeOfYou = vision.ParseDescriptor("Shape of You by Ed Sheeran")

func TestParseLyrics(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Result
	}{
		{
			name:  "tagged",
			reply: "\n<LYRICS>\nThe club isn't the best place\n</LYRICS>\n\n<MEANING>  Love at first sight.  </MEANING>\n",
			want:  Result{Lyrics: "The club isn't the best place", Meaning: "Love at first sight."},
		},
		{
			name:  "untagged",
			reply: "  Some plain lyrics text \n",
			want:  Result{Lyrics: "Some plain lyrics text", Meaning: ""},
		},
		{
			name:  "lyrics without meaning",
			reply: "<lyrics>la la</lyrics>",
			want:  Result{Lyrics: "la la", Meaning: ""},
		},
		{
			name:  "empty meaning",
			reply: "<LYRICS>la</LYRICS><MEANING></MEANING>",
			want:  Result{Lyrics: "la", Meaning: ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLyrics(tt.reply); got != tt.want {
				t.Fatalf("ParseLyrics = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResultUnavailable(t *testing.T) {
	tests := []struct {
		lyrics string
		want   bool
	}{
		{"unable to find lyrics", true},
		{"Unable to find lyrics", true},
		{"Sorry, I was UNABLE TO FIND LYRICS for this one.", true},
		{"Unable to find song", false},
		{"Invalid Input", false},
		{"real lyrics", false},
	}
	for _, tt := range tests {
		if got := (Result{Lyrics: tt.lyrics}).Unavailable(); got != tt.want {
			t.Errorf("Unavailable(%q) = %v, want %v", tt.lyrics, got, tt.want)
		}
	}
}

func TestServiceLyrics(t *testing.T) {
	f := &fakeSearcher{replies: []string{"<LYRICS>words</LYRICS><MEANING>sense</MEANING>"}}
	res, err := NewService(f).Lyrics(context.Background(), shapeOfYou, "pplx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Lyrics != "words" || res.Meaning != "sense" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.maxTokens[0] != 2000 {
		t.Fatalf("unexpected max tokens: %d", f.maxTokens[0])
	}
	if f.keys[0] != "pplx" {
		t.Fatalf("unexpected key: %q", f.keys[0])
	}
	for _, want := range []string{`"Shape of You by Ed Sheeran"`, "<LYRICS>", "<MEANING>", UnavailableReply} {
		if !strings.Contains(f.prompts[0], want) {
			t.Fatalf("prompt missing %q:\n%s", want, f.prompts[0])
		}
	}
}

func TestServiceSimilar(t *testing.T) {
	f := &fakeSearcher{replies: []string{"Sure!\n<SIMILAR>1. A - B: x\n2. C - D: y</SIMILAR>"}}
	recs, err := NewService(f).Similar(context.Background(), shapeOfYou, "pplx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs.Raw != "1. A - B: x\n2. C - D: y" {
		t.Fatalf("unexpected payload: %q", recs.Raw)
	}
	if want := []string{"1. A - B: x", "2. C - D: y"}; !reflect.DeepEqual(recs.Entries(), want) {
		t.Fatalf("Entries = %v, want %v", recs.Entries(), want)
	}
	if f.maxTokens[0] != 1000 {
		t.Fatalf("unexpected max tokens: %d", f.maxTokens[0])
	}
	if !strings.Contains(f.prompts[0], "<SIMILAR>") || !strings.Contains(f.prompts[0], NoSimilarReply) {
		t.Fatalf("prompt missing tag protocol:\n%s", f.prompts[0])
	}
}

func TestParseSimilarFallback(t *testing.T) {
	recs := ParseSimilar("  1. A - B: x\n\n2. C - D: y  ")
	if recs.Raw != "1. A - B: x\n\n2. C - D: y" {
		t.Fatalf("unexpected payload: %q", recs.Raw)
	}
	if len(recs.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %v", recs.Entries())
	}
}

func TestRecommendationsNone(t *testing.T) {
	recs := ParseSimilar("<SIMILAR>No similar songs found</SIMILAR>")
	if !recs.None() {
		t.Fatal("expected sentinel")
	}
	if recs.Entries() != nil {
		t.Fatalf("expected no entries, got %v", recs.Entries())
	}
}

func TestServiceErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeSearcher{err: boom})
	if _, err := svc.Lyrics(context.Background(), shapeOfYou, "k"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := svc.Similar(context.Background(), shapeOfYou, "k"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"  \n", true},
		{"Unable to find lyrics", true},
		{"unable to find lyrics", true},
		{"Sorry, I was UNABLE TO FIND LYRICS for this one.", true},
		{"unable to find song", true},
		{"Invalid Input", true},
		{"Is this the real life?", false},
	}
	for _, tt := range tests {
		if got := Missing(tt.text); got != tt.want {
			t.Errorf("Missing(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
