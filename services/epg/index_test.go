package epg

import (
	"testing"
	"time"

	"telecast/models"
)

func testIndex() *Index {
	at := func(h int) time.Time { return time.Date(2024, 1, 15, h, 0, 0, 0, time.UTC) }
	return NewIndex(map[string][]models.Program{
		"bbc1.uk": {
			{ChannelID: "bbc1.uk", Title: "Morning Show", Start: at(8), Stop: at(10)},
			{ChannelID: "bbc1.uk", Title: "Midday News", Start: at(12), Stop: at(13)},
			{ChannelID: "bbc1.uk", Title: "Overlap Repeat", Start: at(12), Stop: at(14)},
			{ChannelID: "bbc1.uk", Title: "Evening Film", Start: at(20), Stop: at(22)},
		},
	})
}

func TestCurrentProgram(t *testing.T) {
	idx := testIndex()
	now := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)

	p, ok := idx.CurrentProgram("bbc1.uk", now)
	if !ok {
		t.Fatal("expected a current program")
	}
	// Two windows contain 12:30; the first in list order wins.
	if p.Title != "Midday News" {
		t.Errorf("expected first matching program, got %q", p.Title)
	}
}

func TestCurrentProgramGap(t *testing.T) {
	idx := testIndex()
	now := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)
	if _, ok := idx.CurrentProgram("bbc1.uk", now); ok {
		t.Fatal("expected no program in a schedule gap")
	}
}

func TestCurrentProgramUnknownChannel(t *testing.T) {
	idx := testIndex()
	if _, ok := idx.CurrentProgram("nope", time.Now()); ok {
		t.Fatal("expected absent for unknown channel")
	}
}

func TestUpcomingPrograms(t *testing.T) {
	idx := testIndex()
	now := time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC)

	upcoming := idx.UpcomingPrograms("bbc1.uk", now, 2)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming programs, got %d", len(upcoming))
	}
	if upcoming[0].Title != "Midday News" {
		t.Errorf("expected ascending start order, got %q first", upcoming[0].Title)
	}
	if !upcoming[0].Start.Before(upcoming[1].Start) && !upcoming[0].Start.Equal(upcoming[1].Start) {
		t.Error("upcoming programs not sorted by start")
	}
}

func TestNilProgramsYieldEmptyIndex(t *testing.T) {
	idx := NewIndex(nil)
	if idx.ChannelCount() != 0 || idx.ProgramCount() != 0 {
		t.Fatal("expected empty index")
	}
	if _, ok := idx.CurrentProgram("any", time.Now()); ok {
		t.Fatal("expected absent on empty index")
	}
}
