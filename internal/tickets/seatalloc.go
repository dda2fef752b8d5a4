package tickets

import "fmt"

// seatLetters are the four positions across one row
var seatLetters = [4]string{"A", "B", "C", "D"}

// SeatLabels enumerates every seat label for a bus of the given
// capacity, row-major: 1A 1B 1C 1D 2A ... The last row is truncated
// when capacity is not a multiple of four.
func SeatLabels(capacity int) []string {
	labels := make([]string, 0, capacity)
	for i := 0; i < capacity; i++ {
		row := i/len(seatLetters) + 1
		labels = append(labels, fmt.Sprintf("%d%s", row, seatLetters[i%len(seatLetters)]))
	}
	return labels
}

// AssignSeats picks the first count free labels in enumeration order.
// The same taken set always yields the same assignment.
func AssignSeats(capacity int, taken []string, count int) ([]string, error) {
	occupied := make(map[string]struct{}, len(taken))
	for _, label := range taken {
		occupied[label] = struct{}{}
	}

	assigned := make([]string, 0, count)
	for _, label := range SeatLabels(capacity) {
		if _, ok := occupied[label]; ok {
			continue
		}
		assigned = append(assigned, label)
		if len(assigned) == count {
			return assigned, nil
		}
	}
	return nil, ErrSeatsExhausted
}
