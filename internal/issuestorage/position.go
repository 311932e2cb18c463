package issuestorage

import (
	"fmt"
	"strconv"
	"strings"
)

// PositionKind identifies how Reorder computes the new order.
type PositionKind int

const (
	PositionTop PositionKind = iota
	PositionBottom
	PositionAbove
	PositionBelow
	PositionExplicit
)

func (k PositionKind) String() string {
	switch k {
	case PositionTop:
		return "top"
	case PositionBottom:
		return "bottom"
	case PositionAbove:
		return "above"
	case PositionBelow:
		return "below"
	case PositionExplicit:
		return "explicit"
	}
	return fmt.Sprintf("PositionKind(%d)", int(k))
}

// Position is a parsed reorder target.
type Position struct {
	Kind  PositionKind
	Other string // partial ID for PositionAbove and PositionBelow
	Order int    // for PositionExplicit, always >= 1
}

func (p Position) String() string {
	switch p.Kind {
	case PositionAbove, PositionBelow:
		return p.Kind.String() + ":" + p.Other
	case PositionExplicit:
		return strconv.Itoa(p.Order)
	}
	return p.Kind.String()
}

// Top, Bottom, Above, Below and At construct positions directly.
func Top() Position { return Position{Kind: PositionTop} }
func Bottom() Position { return Position{Kind: PositionBottom} }
func Above(other string) Position { return Position{Kind: PositionAbove, Other: other} }
func Below(other string) Position { return Position{Kind: PositionBelow, Other: other} }
func At(order int) Position { return Position{Kind: PositionExplicit, Order: order} }

// ParsePosition parses "top", "bottom", "above:<id>", "below:<id>" or a
// positive integer. Keywords are case-insensitive.
func ParsePosition(s string) (Position, error) {
	raw := strings.TrimSpace(s)
	lower := strings.ToLower(raw)

	switch lower {
	case "top":
		return Top(), nil
	case "bottom":
		return Bottom(), nil
	}

	if kind, rest, ok := strings.Cut(lower, ":"); ok {
		other := strings.TrimSpace(rest)
		if other == "" {
			return Position{}, fmt.Errorf("%w: position %q is missing an issue ID", ErrInvalidInput, s)
		}
		switch kind {
		case "above":
			return Above(other), nil
		case "below":
			return Below(other), nil
		}
		return Position{}, fmt.Errorf("%w: invalid position %q", ErrInvalidInput, s)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return Position{}, fmt.Errorf("%w: invalid position %q. Use top, bottom, above:<id>, below:<id> or a number", ErrInvalidInput, s)
	}
	if n < 1 {
		return Position{}, fmt.Errorf("%w: position must be at least 1, got %d", ErrInvalidInput, n)
	}
	return At(n), nil
}
