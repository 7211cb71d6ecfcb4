package token

import (
	"sync"
	"testing"
)

func TestNextIsStrictlyIncreasing(t *testing.T) {
	prev := Next()
	for i := 0; i < 1000; i++ {
		got := Next()
		if got <= prev {
			t.Fatalf("Next() = %d, want > %d", got, prev)
		}
		prev = got
	}
}

func TestPairOrdering(t *testing.T) {
	user, assistant := Pair()
	if assistant != user+1 {
		t.Errorf("Pair() = (%d, %d), want consecutive tokens", user, assistant)
	}

	nextUser, _ := Pair()
	if nextUser <= assistant {
		t.Errorf("second Pair() starts at %d, want > %d", nextUser, assistant)
	}
}

func TestPairConcurrentUniqueness(t *testing.T) {
	const goroutines = 50
	const perGoroutine = 20

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				user, assistant := Pair()
				mu.Lock()
				if seen[user] || seen[assistant] {
					t.Errorf("duplicate token issued: (%d, %d)", user, assistant)
				}
				seen[user] = true
				seen[assistant] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}
