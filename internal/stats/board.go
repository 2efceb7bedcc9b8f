package stats

import (
	"sort"
	"sync"
)

// Entry is a single line of the high-score board.
type Entry struct {
	Name  string
	Score int
	seq   int // Submission order, earlier wins ties
}

// Board keeps the best scores submitted during the life of the process.
// It is safe for concurrent use by several game sessions.
type Board struct {
	mu      sync.RWMutex
	size    int
	entries []Entry
	best    map[string]int // Best score per name, to keep one entry per player
	nextSeq int
}

// NewBoard creates a board keeping the top size entries. size < 1 keeps one.
func NewBoard(size int) *Board {
	if size < 1 {
		size = 1
	}
	return &Board{
		size: size,
		best: make(map[string]int),
	}
}

// Submit records a score for name. Only a player's best score is listed.
// Returns true if the score made it onto the board.
func (b *Board) Submit(name string, score int) bool {
	if score <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if prev, ok := b.best[name]; ok && prev >= score {
		return false
	}
	b.best[name] = score

	kept := b.entries[:0]
	for _, e := range b.entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	b.entries = append(kept, Entry{Name: name, Score: score, seq: b.nextSeq})
	b.nextSeq++

	sort.SliceStable(b.entries, func(i, j int) bool {
		if b.entries[i].Score != b.entries[j].Score {
			return b.entries[i].Score > b.entries[j].Score
		}
		return b.entries[i].seq < b.entries[j].seq
	})

	listed := false
	if len(b.entries) > b.size {
		b.entries = b.entries[:b.size]
	}
	for _, e := range b.entries {
		if e.Name == name {
			listed = true
			break
		}
	}
	return listed
}

// Best returns the highest score on the board, or 0 if it is empty.
func (b *Board) Best() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.entries) == 0 {
		return 0
	}
	return b.entries[0].Score
}

// Top returns a copy of the board, best first.
func (b *Board) Top() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}
