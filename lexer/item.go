// SPDX-License-Identifier: MIT
package lexer

import "fmt"

type (
	// ItemID int holding an identifier for the Item tokens
	ItemID int

	// Item type holding token, value & item type of scanned rune
	Item struct {
		Err error
		Val string // The value of this Item
		ID  ItemID // The type of this Item
		Pos int    // The starting position, (in bytes) of this Item
	}
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_             = iota // Consume 0 to start actual numbering at 1.
	ItemError            // Notify occurrence of an `error`.
	ItemSplitter         // References the splitter.
	ItemEOF              // End of the source.
	ItemValue            // Node identifier.
	ItemEndMarker        // ')'.
)

// String is the fmt.Stringer implementation for ItemID.
func (i ItemID) String() string {
	switch i {
	case ItemError:
		return "error"
	case ItemSplitter:
		return "splitter"
	case ItemEOF:
		return "EOF"
	case ItemValue:
		return "value"
	case ItemEndMarker:
		return "end marker"
	default:
		return fmt.Sprintf("item(%d)", int(i))
	}
}

// String is the fmt.Stringer implementation for Item.
func (i Item) String() string {
	switch i.ID {
	case ItemError:
		return fmt.Sprintf("%s at %d: %v", i.ID, i.Pos, i.Err)
	case ItemEOF:
		return i.ID.String()
	default:
		return fmt.Sprintf("%s %q at %d", i.ID, i.Val, i.Pos)
	}
}
