package epg

import (
	"sort"
	"time"

	"telecast/models"
)

// Index answers "what's on now / next" queries for one catalog snapshot.
// Program lists arrive in provider order; they are not assumed sorted or
// non-overlapping. On overlap the first entry in list order wins.
type Index struct {
	programs map[string][]models.Program
}

// NewIndex wraps per-channel program lists. A nil map yields an empty index.
func NewIndex(programs map[string][]models.Program) *Index {
	if programs == nil {
		programs = make(map[string][]models.Program)
	}
	return &Index{programs: programs}
}

// ChannelCount returns how many channels carry schedule data.
func (idx *Index) ChannelCount() int {
	return len(idx.programs)
}

// ProgramCount returns the total number of indexed programs.
func (idx *Index) ProgramCount() int {
	n := 0
	for _, list := range idx.programs {
		n += len(list)
	}
	return n
}

// CurrentProgram returns the first program whose window contains now.
// Unknown channels and gaps in the schedule report absent, never an error.
func (idx *Index) CurrentProgram(channelID string, now time.Time) (models.Program, bool) {
	for _, p := range idx.programs[channelID] {
		if !p.Start.After(now) && !p.Stop.Before(now) {
			return p, true
		}
	}
	return models.Program{}, false
}

// UpcomingPrograms returns up to limit programs starting after now, in
// ascending start order.
func (idx *Index) UpcomingPrograms(channelID string, now time.Time, limit int) []models.Program {
	var upcoming []models.Program
	for _, p := range idx.programs[channelID] {
		if p.Start.After(now) {
			upcoming = append(upcoming, p)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}
