package memory

import (
	"fmt"
	"sync"
	"testing"
)

func TestSeenMemory(t *testing.T) {
	t.Run("RememberAndSeen", func(t *testing.T) {
		m := NewSeenMemory(0)

		if m.Seen("Fade Into You", "Mazzy Star") {
			t.Error("expected fresh memory to not contain track")
		}

		m.Remember("Fade Into You", "Mazzy Star")

		if !m.Seen("Fade Into You", "Mazzy Star") {
			t.Error("expected remembered track to be seen")
		}
		if m.Len() != 1 {
			t.Errorf("expected 1 key, got %d", m.Len())
		}
	})

	t.Run("NormalizedVariantsCollide", func(t *testing.T) {
		m := NewSeenMemory(0)
		m.Remember("Don't Stop Believin'", "Journey")

		if !m.Seen("dont stop believin", "JOURNEY") {
			t.Error("expected normalized variant to be seen")
		}

		m.Remember("DONT STOP BELIEVIN", "journey")
		if m.Len() != 1 {
			t.Errorf("expected variants to share one key, got %d", m.Len())
		}
	})

	t.Run("Claim", func(t *testing.T) {
		m := NewSeenMemory(0)

		if !m.Claim("first key") {
			t.Error("expected first claim to succeed")
		}
		if m.Claim("first key") {
			t.Error("expected second claim of same key to fail")
		}
		if m.Len() != 1 {
			t.Errorf("expected 1 key after duplicate claim, got %d", m.Len())
		}
	})

	t.Run("CapEvictsOldest", func(t *testing.T) {
		m := NewSeenMemory(3)

		for i := 0; i < 5; i++ {
			m.RememberKey(fmt.Sprintf("track %d", i))
		}

		if m.Len() != 3 {
			t.Errorf("expected 3 keys after eviction, got %d", m.Len())
		}

		keys := m.Keys()
		if keys[0] != "track 2" || keys[2] != "track 4" {
			t.Errorf("expected oldest keys evicted, got %v", keys)
		}

		// Evicted tracks become claimable again
		if !m.Claim("track 0") {
			t.Error("expected evicted key to be claimable")
		}
	})

	t.Run("KeysReturnsCopy", func(t *testing.T) {
		m := NewSeenMemory(0)
		m.RememberKey("a")

		keys := m.Keys()
		keys[0] = "mutated"

		if m.Keys()[0] != "a" {
			t.Error("expected internal order to be unaffected by caller mutation")
		}
	})

	t.Run("ConcurrentClaims", func(t *testing.T) {
		m := NewSeenMemory(100)

		var wg sync.WaitGroup
		wins := make(chan bool, 50)

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if m.Claim("contested key") {
					wins <- true
				}
			}()
		}

		wg.Wait()
		close(wins)

		count := 0
		for range wins {
			count++
		}
		if count != 1 {
			t.Errorf("expected exactly one winning claim, got %d", count)
		}
	})
}
