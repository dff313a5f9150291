package viewmodel

import "github.com/campushq/portal/internal/upstream"

// BuildingOptions deduplicates the flat (building, room) pairing list by
// building id, preserving first-seen order.
func BuildingOptions(pairs []upstream.RoomPairing) []upstream.NumberedRef {
	seen := make(map[int]bool, len(pairs))
	options := make([]upstream.NumberedRef, 0, len(pairs))
	for _, p := range pairs {
		if seen[p.Building.ID] {
			continue
		}
		seen[p.Building.ID] = true
		options = append(options, p.Building)
	}
	return options
}

// RoomOptions lists the rooms offered in the selected building, in pairing
// order.
func RoomOptions(pairs []upstream.RoomPairing, buildingID int) []upstream.NumberedRef {
	rooms := make([]upstream.NumberedRef, 0, len(pairs))
	for _, p := range pairs {
		if p.Building.ID == buildingID {
			rooms = append(rooms, p.Room)
		}
	}
	return rooms
}

// DefaultBuilding is the building preselected when the form first renders.
func DefaultBuilding(pairs []upstream.RoomPairing) int {
	if len(pairs) == 0 {
		return 0
	}
	return pairs[0].Building.ID
}
