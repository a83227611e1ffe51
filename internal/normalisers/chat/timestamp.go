package chat

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// timestampParts splits a header timestamp into date, clock and meridiem.
var timestampParts = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),?\s*(\d{1,2}:\d{2}(?::\d{2})?)\s*([AaPp][Mm])?$`)

// dateLayouts are tried in order; the first that parses wins.
// Day-first precedes month-first, so 01/02/03 is 1 February 2003.
var dateLayouts = []string{
	"2/1/06",
	"2/1/2006",
	"1/2/06",
	"1/2/2006",
}

// parseTimestamp parses a chat export timestamp such as "12/05/23, 14:30"
// or "[5/12/2023 2:30 PM]". 24-hour layouts are tried before 12-hour ones.
func parseTimestamp(raw string) (time.Time, error) {
	token := strings.Trim(strings.TrimSpace(raw), "[]")
	parts := timestampParts.FindStringSubmatch(token)
	if parts == nil {
		return time.Time{}, fmt.Errorf("unable to parse timestamp %q", raw)
	}
	date, clock, meridiem := parts[1], parts[2], strings.ToUpper(parts[3])

	clockLayout := "15:04"
	twelveHour := "3:04 PM"
	if strings.Count(clock, ":") == 2 {
		clockLayout = "15:04:05"
		twelveHour = "3:04:05 PM"
	}

	value := date + ", " + clock
	if meridiem != "" {
		value += " " + meridiem
	}

	for _, clk := range []string{clockLayout, twelveHour} {
		for _, dl := range dateLayouts {
			if t, err := time.Parse(dl+", "+clk, value); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", raw)
}
