// Package epg parses XMLTV schedule documents and answers point-in-time
// queries against the resulting per-channel program lists.
package epg

import (
	"encoding/xml"
	"io"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"telecast/models"
)

// MaxHourOffset bounds the configured schedule shift. Offsets outside
// ±48h reset to 0.
const MaxHourOffset = 48.0

type xmltvProgramme struct {
	Start   string      `xml:"start,attr"`
	Stop    string      `xml:"stop,attr"`
	Channel string      `xml:"channel,attr"`
	Title   []xmltvLang `xml:"title"`
	Desc    []xmltvLang `xml:"desc"`
}

type xmltvLang struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

// ParseSchedule parses an XMLTV document into per-channel program lists,
// shifting every timestamp by hourOffset hours. Parsing is fail-closed: any
// document-level error yields an empty schedule so a malformed guide never
// aborts catalog ingestion. Individual malformed programme elements are
// skipped.
func ParseSchedule(r io.Reader, hourOffset float64) map[string][]models.Program {
	programs := make(map[string][]models.Program)
	shift := time.Duration(hourOffset * float64(time.Hour))

	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[epg] schedule parse failed, discarding document: %v", err)
			return make(map[string][]models.Program)
		}

		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "programme" {
			continue
		}
		var prog xmltvProgramme
		if err := decoder.DecodeElement(&prog, &se); err != nil {
			log.Printf("[epg] skipping malformed programme: %v", err)
			continue
		}

		start, err := parseXMLTVTime(prog.Start)
		if err != nil {
			continue
		}
		stop, err := parseXMLTVTime(prog.Stop)
		if err != nil {
			continue
		}

		channelID := strings.TrimSpace(prog.Channel)
		if channelID == "" {
			continue
		}
		programs[channelID] = append(programs[channelID], models.Program{
			ChannelID:   channelID,
			Title:       firstLangValue(prog.Title),
			Description: firstLangValue(prog.Desc),
			Start:       start.Add(shift),
			Stop:        stop.Add(shift),
		})
	}
	return programs
}

func firstLangValue(values []xmltvLang) string {
	for _, v := range values {
		if s := strings.TrimSpace(v.Value); s != "" {
			return s
		}
	}
	return ""
}

var xmltvTimeRe = regexp.MustCompile(`^(\d{14})(?:\s*([+-]\d{4}))?$`)

// parseXMLTVTime parses the XMLTV timestamp format (YYYYMMDDHHmmss with an
// optional signed 4-digit zone offset). When the zone is absent the digits
// are interpreted as local wall-clock time in the serving process's zone.
func parseXMLTVTime(s string) (time.Time, error) {
	m := xmltvTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, &time.ParseError{Layout: "20060102150405 -0700", Value: s}
	}
	loc := time.Local
	if m[2] != "" {
		sign := 1
		if m[2][0] == '-' {
			sign = -1
		}
		hours, _ := strconv.Atoi(m[2][1:3])
		minutes, _ := strconv.Atoi(m[2][3:5])
		loc = time.FixedZone(m[2], sign*(hours*3600+minutes*60))
	}
	t, err := time.ParseInLocation("20060102150405", m[1], loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ClampHourOffset parses the configured hour offset string. Empty input,
// unparseable values, non-finite values, and magnitudes beyond MaxHourOffset
// all reset to 0.
func ClampHourOffset(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v > MaxHourOffset || v < -MaxHourOffset {
		return 0
	}
	return v
}
