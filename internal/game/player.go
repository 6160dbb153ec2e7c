package game

// PlayerID identifies a seat. The lobby assigns identities at game creation.
type PlayerID string

// String returns the identity as a plain string
func (p PlayerID) String() string {
	return string(p)
}

// NoPlayer is the zero PlayerID, used where no seat applies.
const NoPlayer PlayerID = ""

// NextSeat returns the seat after current in clockwise order. If current is
// not seated, the first seat is returned.
func NextSeat(seats []PlayerID, current PlayerID) PlayerID {
	for i, p := range seats {
		if p == current {
			return seats[(i+1)%len(seats)]
		}
	}
	return seats[0]
}

// SeatIndex returns the index of seat, or -1.
func SeatIndex(seats []PlayerID, seat PlayerID) int {
	for i, p := range seats {
		if p == seat {
			return i
		}
	}
	return -1
}
