package textscan

import (
	"reflect"
	"testing"
)

func TestContainsAny(t *testing.T) {
	banned := []string{"badword1", "badword2", "offensive"}

	if !ContainsAny("This product is BADWORD1 and badword2.", banned) {
		t.Fatal("expected banned substring to be detected")
	}
	if ContainsAny("Great product! Highly recommended.", banned) {
		t.Fatal("expected clean text to pass")
	}
	if ContainsAny("anything", nil) {
		t.Fatal("empty banned list should never match")
	}
}

func TestContainsAnyMatchesSubstrings(t *testing.T) {
	// Exact substring semantics: "offensive" inside a longer token still matches.
	if !ContainsAny("utterly inoffensive", []string{"offensive"}) {
		t.Fatal("expected substring match inside a longer word")
	}
}

func TestWordsFiltersShortTokens(t *testing.T) {
	got := Words("The cart was Great, great VALUE", 4)
	want := []string{"cart", "great", "great", "value"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTopWordsOrdersByCountThenEncounter(t *testing.T) {
	texts := []string{
		"solid build quality, quality case",
		"case feels solid",
	}
	got := TopWords(texts, 4, 3)
	want := []WordCount{
		{Word: "quality", Count: 2},
		{Word: "solid", Count: 2},
		{Word: "case", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWordsHandlesNonASCII(t *testing.T) {
	got := Words("café cafés coffee", 4)
	want := []string{"café", "cafés", "coffee"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestWordsCountsRunesNotBytes(t *testing.T) {
	// "über" is 4 runes but 5 bytes; it must pass a minLen of 4.
	got := Words("über", 4)
	want := []string{"über"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTopWordsArabicBodies(t *testing.T) {
	texts := []string{
		"منتج رائع والتوصيل سريع",
		"منتج سريع",
	}
	got := TopWords(texts, 4, 2)
	want := []WordCount{
		{Word: "منتج", Count: 2},
		{Word: "سريع", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTopWordsHonorsLimit(t *testing.T) {
	got := TopWords([]string{"alpha beta gamma delta"}, 4, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}
