// Package identifier computes the next record id for a collection whose ids
// are decimal integers stored as strings. The computation is a pure function
// of the snapshot it is given; callers that need allocation to be safe against
// concurrent writers must pass a snapshot read under a lock (see
// repository.allocateID).
package identifier

import (
	"fmt"
	"strconv"

	"github.com/ZertGraf/scrumboard/internal/domain"
)

// Next returns max(ids)+1 as a string, or "1" for an empty snapshot.
// A non-numeric id yields ErrMalformedID instead of poisoning the maximum.
func Next(ids []string) (string, error) {
	max := 0
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			return "", fmt.Errorf("parse id %q: %w", id, domain.ErrMalformedID)
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1), nil
}
