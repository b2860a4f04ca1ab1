package keyboard

import (
	"strconv"
	"strings"
)

const (
	dayPrefix  = "calendar_day_"
	prevPrefix = "prevmonth_"
	nextPrefix = "nextmonth_"
	cityPrefix = "city_id_"
	ignoreData = "ignore"
)

// Action is one decoded interactive selection. Callback data is parsed here
// once, at the boundary; anything unrecognized decodes to Ignore.
type Action interface {
	isAction()
}

// Navigate is a month-navigation tap carrying the currently shown month.
type Navigate struct {
	Forward bool
	Year    int
	Month   int
}

// SelectDay is a day-cell tap.
type SelectDay struct {
	Year  int
	Month int
	Day   int
}

// SelectCity is a region-candidate pick.
type SelectCity struct {
	ID string
}

// Ignore is a tap on a non-actionable cell.
type Ignore struct{}

func (Navigate) isAction()   {}
func (SelectDay) isAction()  {}
func (SelectCity) isAction() {}
func (Ignore) isAction()     {}

func Parse(data string) Action {
	switch {
	case data == ignoreData:
		return Ignore{}
	case strings.HasPrefix(data, cityPrefix):
		id := strings.TrimPrefix(data, cityPrefix)
		if id == "" {
			return Ignore{}
		}
		return SelectCity{ID: id}
	case strings.HasPrefix(data, dayPrefix):
		nums, ok := parseInts(strings.TrimPrefix(data, dayPrefix), 3)
		if !ok {
			return Ignore{}
		}
		return SelectDay{Year: nums[0], Month: nums[1], Day: nums[2]}
	case strings.HasPrefix(data, prevPrefix):
		nums, ok := parseInts(strings.TrimPrefix(data, prevPrefix), 2)
		if !ok {
			return Ignore{}
		}
		return Navigate{Forward: false, Year: nums[0], Month: nums[1]}
	case strings.HasPrefix(data, nextPrefix):
		nums, ok := parseInts(strings.TrimPrefix(data, nextPrefix), 2)
		if !ok {
			return Ignore{}
		}
		return Navigate{Forward: true, Year: nums[0], Month: nums[1]}
	}
	return Ignore{}
}

func parseInts(s string, n int) ([]int, bool) {
	parts := strings.Split(s, "_")
	if len(parts) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
