package battleship

// ValidateAndCommit accepts mask as a ship of the given length and commits it
// to the fleet. The mask must be a straight, gap free line that does not
// touch any placed ship, diagonals included. The mask is cleared in both
// outcomes. A rejected mask leaves the fleet and the occupancy untouched.
func (b *Board) ValidateAndCommit(mask *Grid[bool], length uint8) bool {
	defer mask.Reset()

	if !b.hasFreeSlot(length) {
		return false
	}
	if Count(mask, true) != int(length) {
		return false
	}

	start, vertical, ok := scanLine(mask)
	if !ok {
		return false
	}
	if b.touchesPlacedShip(mask) {
		return false
	}

	mask.Each(func(at Block, marked bool) {
		if marked {
			b.occupancy.Set(at, true)
		}
	})
	b.fleet.Add(NewShip(length, start, vertical))
	return true
}

func (b *Board) hasFreeSlot(length uint8) bool {
	if b.fleet.IsComplete() {
		return false
	}
	return b.fleet.placed(length) < NewFleetCounts().Of(length)
}

// scanLine walks the mask in row-major order. The first two marked cells fix
// the orientation and every later cell has to continue along that axis.
func scanLine(mask *Grid[bool]) (start Block, vertical bool, ok bool) {
	var (
		prev           Block
		found          bool
		directionKnown bool
		valid          = true
	)

	mask.Each(func(at Block, marked bool) {
		if !marked || !valid {
			return
		}

		if !found {
			found = true
			start, prev = at, at
			return
		}

		right := at.X == prev.X+1 && at.Y == prev.Y
		below := at.Y == prev.Y+1 && at.X == prev.X

		switch {
		case !directionKnown && right:
			vertical, directionKnown = false, true
		case !directionKnown && below:
			vertical, directionKnown = true, true
		case directionKnown && !vertical && right:
		case directionKnown && vertical && below:
		default:
			valid = false
			return
		}
		prev = at
	})

	return start, vertical, found && directionKnown && valid
}

func (b *Board) touchesPlacedShip(mask *Grid[bool]) bool {
	touches := false
	mask.Each(func(at Block, marked bool) {
		if !marked || touches {
			return
		}
		for y := int(at.Y) - 1; y <= int(at.Y)+1; y++ {
			for x := int(at.X) - 1; x <= int(at.X)+1; x++ {
				if occupied, _ := b.occupancy.Lookup(x, y); occupied {
					touches = true
					return
				}
			}
		}
	})
	return touches
}
