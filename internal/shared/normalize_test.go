package shared

import "testing"

func TestNormalizeTrackKey(t *testing.T) {
	t.Run("LowercasesAndStripsPunctuation", func(t *testing.T) {
		key := NormalizeTrackKey("Don't Stop Me Now", "Queen")
		if key != "dont stop me now|queen" {
			t.Errorf("unexpected key: %q", key)
		}
	})

	t.Run("CollapsesWhitespace", func(t *testing.T) {
		key := NormalizeTrackKey("  Bohemian   Rhapsody ", " Queen ")
		if key != "bohemian rhapsody|queen" {
			t.Errorf("unexpected key: %q", key)
		}
	})

	t.Run("SameSongDifferentCasing", func(t *testing.T) {
		a := NormalizeTrackKey("HOLIDAY", "Green Day")
		b := NormalizeTrackKey("Holiday", "green day")
		if a != b {
			t.Errorf("expected identical keys, got %q and %q", a, b)
		}
	})

	t.Run("EmptyArtistOmitsSeparator", func(t *testing.T) {
		key := NormalizeTrackKey("Intro", "")
		if key != "intro" {
			t.Errorf("unexpected key: %q", key)
		}
	})
}

func TestSplitTitleArtist(t *testing.T) {
	t.Run("QuotedTitleByArtist", func(t *testing.T) {
		title, artist := SplitTitleArtist("'Clair de Lune' by Debussy")
		if title != "Clair de Lune" || artist != "Debussy" {
			t.Errorf("got title=%q artist=%q", title, artist)
		}
	})

	t.Run("UnquotedTitleByArtist", func(t *testing.T) {
		title, artist := SplitTitleArtist("Weightless by Marconi Union")
		if title != "Weightless" || artist != "Marconi Union" {
			t.Errorf("got title=%q artist=%q", title, artist)
		}
	})

	t.Run("NoArtistFallsBackToWholeString", func(t *testing.T) {
		title, artist := SplitTitleArtist("Some Standalone Title")
		if title != "Some Standalone Title" || artist != "" {
			t.Errorf("got title=%q artist=%q", title, artist)
		}
	})
}

func TestStringSimilarity(t *testing.T) {
	t.Run("ExactMatch", func(t *testing.T) {
		if score := StringSimilarity("Here Comes the Sun", "here comes the sun"); score != 1.0 {
			t.Errorf("expected 1.0, got %f", score)
		}
	})

	t.Run("Containment", func(t *testing.T) {
		if score := StringSimilarity("Here Comes the Sun", "Here Comes the Sun (Remastered)"); score != 0.9 {
			t.Errorf("expected 0.9, got %f", score)
		}
	})

	t.Run("PartialOverlap", func(t *testing.T) {
		score := StringSimilarity("blue monday remix", "blue monday live")
		if score <= 0.0 || score >= 0.9 {
			t.Errorf("expected partial score, got %f", score)
		}
	})

	t.Run("EmptyStrings", func(t *testing.T) {
		if score := StringSimilarity("", "anything"); score != 0.0 {
			t.Errorf("expected 0.0, got %f", score)
		}
	})
}

func TestMatchScore(t *testing.T) {
	t.Run("PerfectMatch", func(t *testing.T) {
		if score := MatchScore("Karma Police", "Radiohead", "Karma Police", "Radiohead"); score != 1.0 {
			t.Errorf("expected 1.0, got %f", score)
		}
	})

	t.Run("TitleWeighsMoreThanArtist", func(t *testing.T) {
		titleOnly := MatchScore("Karma Police", "Radiohead", "Karma Police", "Someone Else")
		artistOnly := MatchScore("Karma Police", "Radiohead", "Different Song", "Radiohead")
		if titleOnly <= artistOnly {
			t.Errorf("expected title match (%f) to outweigh artist match (%f)", titleOnly, artistOnly)
		}
	})
}
