package booking

import "time"

// Adjacent holds the approved bookings around a reference instant for one item.
// Either field may be nil.
type Adjacent struct {
	Last *Booking
	Next *Booking
}

// Resolve picks, among the approved bookings, the latest one that has already
// started (Last) and the earliest one that has not (Next). Bookings in any other
// status are ignored. On equal start times Last takes the later element of the
// slice and Next the earlier one.
func Resolve(bookings []*Booking, now time.Time) Adjacent {
	var adj Adjacent
	for _, b := range bookings {
		if b.Status != StatusApproved {
			continue
		}
		if b.StartTime.After(now) {
			if adj.Next == nil || b.StartTime.Before(adj.Next.StartTime) {
				adj.Next = b
			}
			continue
		}
		if adj.Last == nil || !b.StartTime.Before(adj.Last.StartTime) {
			adj.Last = b
		}
	}
	return adj
}

// ResolveByItem groups bookings by item and resolves each group.
// Items without bookings are absent from the result.
func ResolveByItem(bookings []*Booking, now time.Time) map[string]Adjacent {
	grouped := make(map[string][]*Booking)
	for _, b := range bookings {
		grouped[b.ItemID] = append(grouped[b.ItemID], b)
	}

	result := make(map[string]Adjacent, len(grouped))
	for itemID, group := range grouped {
		result[itemID] = Resolve(group, now)
	}
	return result
}
