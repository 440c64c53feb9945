package game

import "sync"

// Wager is a locked terminal-round stake. Never mutated after locking except
// to record resolution.
type Wager struct {
	PlayerName string `json:"playerName"`
	Amount     int    `json:"amount"`
	Locked     bool   `json:"locked"`
	Resolved   bool   `json:"resolved"`
	Correct    bool   `json:"correct"`
}

// WagerBook holds the final round's wagers, exactly one per player per game.
type WagerBook struct {
	mu     sync.Mutex
	wagers map[string]*Wager
}

func NewWagerBook() *WagerBook {
	return &WagerBook{wagers: make(map[string]*Wager)}
}

// Submit clamps rawAmount into [0, score] and locks the wager. Negative
// requests (and scores) clamp to zero. Resubmission is rejected.
func (b *WagerBook) Submit(playerName string, score, rawAmount int) (Wager, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.wagers[playerName]; exists {
		return Wager{}, ErrWagerLocked
	}

	amount := rawAmount
	if amount < 0 {
		amount = 0
	}
	ceiling := score
	if ceiling < 0 {
		ceiling = 0
	}
	if amount > ceiling {
		amount = ceiling
	}

	w := &Wager{PlayerName: playerName, Amount: amount, Locked: true}
	b.wagers[playerName] = w
	return *w, nil
}

// Resolve finalizes a wager once: +amount when correct, -amount when not.
func (b *WagerBook) Resolve(playerName string, correct bool) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, exists := b.wagers[playerName]
	if !exists {
		return 0, ErrUnknownPlayer
	}
	if w.Resolved {
		return 0, ErrWagerResolved
	}
	w.Resolved = true
	w.Correct = correct

	if correct {
		return w.Amount, nil
	}
	return -w.Amount, nil
}

// Get returns the wager for a player, if submitted.
func (b *WagerBook) Get(playerName string) (Wager, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.wagers[playerName]
	if !ok {
		return Wager{}, false
	}
	return *w, true
}
