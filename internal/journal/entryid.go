package journal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cleared-dev/autojournal/internal/model"
)

// maxLegs is the number of leg suffixes available (a..z).
const maxLegs = 26

// EntryID identifies one journal entry within a month, written
// "2025-01-001". Legs of the entry append a letter: "2025-01-001a".
type EntryID struct {
	Period Month
	Seq    int
}

func (e EntryID) String() string {
	return fmt.Sprintf("%s-%03d", e.Period, e.Seq)
}

// Leg returns the ID of the i'th leg, 0 being 'a'.
func (e EntryID) Leg(i int) string {
	return e.String() + string(rune('a'+i))
}

// ParseEntryID parses an entry or leg ID; a leg suffix is ignored.
func ParseEntryID(s string) (EntryID, error) {
	group := model.Leg{EntryID: s}.EntryGroup()
	cut := strings.LastIndexByte(group, '-')
	if cut < 0 {
		return EntryID{}, fmt.Errorf("invalid entry ID %q", s)
	}

	period, err := ParseMonth(group[:cut])
	if err != nil {
		return EntryID{}, fmt.Errorf("invalid entry ID %q: bad month", s)
	}
	digits := group[cut+1:]
	seq, err := strconv.Atoi(digits)
	if err != nil || seq < 1 || len(digits) < 3 {
		return EntryID{}, fmt.Errorf("invalid entry ID %q: bad sequence %q", s, digits)
	}
	return EntryID{Period: period, Seq: seq}, nil
}

// nextSeq is one past the highest sequence used by legs.
func nextSeq(legs []model.Leg) int {
	high := 0
	for _, leg := range legs {
		if id, err := ParseEntryID(leg.EntryID); err == nil {
			high = max(high, id.Seq)
		}
	}
	return high + 1
}
