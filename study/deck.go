package study

// Deck tracks position and flip state while reviewing a sequence of
// flashcards. Navigation is circular in both directions, and the flip
// state resets to front on every index change.
type Deck struct {
	count   int
	index   int
	flipped bool
}

// NewDeck returns a deck over count cards, positioned at the first card
// showing its front.
func NewDeck(count int) *Deck {
	return &Deck{count: count}
}

// Next advances to the following card, wrapping to the first after the last.
func (d *Deck) Next() {
	if d.count == 0 {
		return
	}
	d.index = (d.index + 1) % d.count
	d.flipped = false
}

// Prev moves to the preceding card, wrapping to the last from the first.
func (d *Deck) Prev() {
	if d.count == 0 {
		return
	}
	d.index = (d.index - 1 + d.count) % d.count
	d.flipped = false
}

// Flip toggles between the card's front and back.
func (d *Deck) Flip() {
	d.flipped = !d.flipped
}

// Index returns the current card position.
func (d *Deck) Index() int { return d.index }

// Flipped reports whether the current card shows its back.
func (d *Deck) Flipped() bool { return d.flipped }
