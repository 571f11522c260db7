package printsheet

import (
	"github.com/KirkDiggler/tentcards/internal/entities"
)

// PageSize is the number of tent cards on one printed sheet
const PageSize = 4

// Card is one printed copy of a creature.
type Card struct {
	Name  string
	Image *entities.ImageRef
}

// Page is one sheet. Nil slots print as empty placeholders.
type Page struct {
	Number int
	Slots  [PageSize]*Card
}

// Filled returns the number of occupied slots
func (p Page) Filled() int {
	n := 0
	for _, c := range p.Slots {
		if c != nil {
			n++
		}
	}
	return n
}

// ImageSource resolves the confirmed image for a creature name.
// *imagecache.Store satisfies it.
type ImageSource interface {
	Lookup(name string) (*entities.ImageRef, bool)
}

// Expand turns the working set into one card per printed copy, in order.
// Entries with a non-positive quantity are skipped.
func Expand(entries []entities.WorkingSetEntry, images ImageSource) []Card {
	var cards []Card
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			continue
		}
		var img *entities.ImageRef
		if images != nil {
			img, _ = images.Lookup(entry.Monster.Name)
		}
		for i := 0; i < entry.Quantity; i++ {
			cards = append(cards, Card{Name: entry.Monster.Name, Image: img})
		}
	}
	return cards
}

// Paginate splits cards into pages of PageSize. The last page is padded with
// empty slots and an empty set still yields one placeholder page.
func Paginate(cards []Card) []Page {
	count := (len(cards) + PageSize - 1) / PageSize
	if count == 0 {
		count = 1
	}

	pages := make([]Page, count)
	for i := range pages {
		pages[i].Number = i + 1
	}
	for i := range cards {
		card := cards[i]
		pages[i/PageSize].Slots[i%PageSize] = &card
	}
	return pages
}
