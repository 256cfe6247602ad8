package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// moodEntry pairs trigger words with the profile they produce.
type moodEntry struct {
	tag        string
	triggers   []string
	terms      []string
	commentary string
}

var moodTable = []moodEntry{
	{
		tag:        "melancholy",
		triggers:   []string{"sad", "down", "blue", "lonely", "heartbreak", "crying", "miss"},
		terms:      []string{"sad acoustic songs", "melancholy indie", "heartbreak ballads"},
		commentary: "Sounds like a heavy day. Here's something to sit with it.",
	},
	{
		tag:        "energetic",
		triggers:   []string{"hyped", "energy", "pumped", "workout", "gym", "run", "excited"},
		terms:      []string{"high energy workout", "upbeat dance hits", "power anthems"},
		commentary: "Let's keep that energy going.",
	},
	{
		tag:        "calm",
		triggers:   []string{"calm", "relax", "chill", "unwind", "peaceful", "sleep", "tired"},
		terms:      []string{"calm ambient", "lofi chill beats", "soft piano relaxation"},
		commentary: "Time to slow things down a little.",
	},
	{
		tag:        "focus",
		triggers:   []string{"focus", "study", "work", "concentrate", "deadline", "coding"},
		terms:      []string{"instrumental focus music", "deep focus electronic", "study beats"},
		commentary: "Heads down. This should help you lock in.",
	},
	{
		tag:        "happy",
		triggers:   []string{"happy", "great", "good", "sunny", "celebrate", "joy", "amazing"},
		terms:      []string{"feel good pop", "happy upbeat classics", "sunshine indie pop"},
		commentary: "Love to hear it. Something bright coming up.",
	},
	{
		tag:        "angry",
		triggers:   []string{"angry", "mad", "furious", "frustrated", "rage"},
		terms:      []string{"aggressive rock", "rage metal", "hard hitting rap"},
		commentary: "Let it out. This should match the fire.",
	},
	{
		tag:        "nostalgic",
		triggers:   []string{"nostalgic", "memories", "remember", "old days", "throwback"},
		terms:      []string{"throwback hits", "classic rock anthems", "90s nostalgia"},
		commentary: "A little trip back in time.",
	},
}

// KeywordInterpreter is a deterministic fallback Interpreter.
//
// It scans the message for known mood words and answers with a canned profile,
// so recommendations keep working when the LLM is unreachable.
type KeywordInterpreter struct{}

// NewKeywordInterpreter creates a keyword-table interpreter.
func NewKeywordInterpreter() *KeywordInterpreter {
	return &KeywordInterpreter{}
}

// Name returns the interpreter name.
func (k *KeywordInterpreter) Name() string {
	return "Keywords"
}

// Interpret matches the message against the mood table.
//
// The entry with the most trigger hits wins. Messages with no recognized
// words fall back to a general profile seeded with the message itself.
func (k *KeywordInterpreter) Interpret(ctx context.Context, message string) (*models.MoodProfile, error) {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return nil, shared.ErrEmptyMessage
	}

	// Quoted messages name a song outright and skip the mood table
	if strings.HasPrefix(normalized, "'") || strings.HasPrefix(normalized, `"`) {
		if title, artist := shared.SplitTitleArtist(message); artist != "" {
			return &models.MoodProfile{
				Tag:        "request",
				Terms:      []string{fmt.Sprintf("%s %s", title, artist)},
				Commentary: fmt.Sprintf("Looking for %s by %s.", title, artist),
				Source:     "keywords",
			}, nil
		}
	}

	var best *moodEntry
	bestHits := 0

	for i := range moodTable {
		entry := &moodTable[i]
		hits := 0
		for _, trigger := range entry.triggers {
			if strings.Contains(normalized, trigger) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = entry
		}
	}

	if best == nil {
		return &models.MoodProfile{
			Tag:        "general",
			Terms:      []string{fmt.Sprintf("%s music", normalized), "popular hits"},
			Commentary: "Here's something that might fit.",
			Source:     "keywords",
		}, nil
	}

	terms := make([]string, len(best.terms))
	copy(terms, best.terms)

	return &models.MoodProfile{
		Tag:        best.tag,
		Terms:      terms,
		Commentary: best.commentary,
		Source:     "keywords",
	}, nil
}
