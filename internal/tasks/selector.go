package tasks

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/desertthunder/muse/internal/memory"
	"github.com/desertthunder/muse/internal/models"
	"github.com/desertthunder/muse/internal/shared"
)

// Select picks the first unseen candidate from a shuffled copy of the list and
// claims it in the session's memory.
//
// A fixed seed makes the shuffle deterministic; a zero seed randomizes per call.
// When every candidate has been seen, Select returns [shared.ErrExhausted] and
// the memory is left unchanged: Claim only records keys it actually wins.
func Select(candidates []models.TrackCandidate, mem *memory.SeenMemory, seed int64) (*models.TrackCandidate, error) {
	if len(candidates) == 0 {
		return nil, shared.ErrNoCandidates
	}
	if mem == nil {
		return nil, fmt.Errorf("%w: nil memory", shared.ErrInvalidInput)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	shuffled := make([]models.TrackCandidate, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, candidate := range shuffled {
		if mem.Claim(candidate.Key()) {
			c := candidate
			return &c, nil
		}
	}

	return nil, shared.ErrExhausted
}
