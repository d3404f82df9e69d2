package dashboard

import (
	"sort"
	"time"

	"github.com/oakline/gatehouse/internal/domain/signin"
)

// Group is one calendar day's entries, newest first.
type Group struct {
	Day     time.Time
	Label   string
	Entries []*signin.SignInRecord
}

// GroupByDay buckets rows by the calendar day of created_at in now's
// location. Groups come back most recent day first; entries within a group
// are newest first. Labels read "Today", "Yesterday", or the full date.
func GroupByDay(rows []*signin.SignInRecord, now time.Time) []Group {
	loc := now.Location()
	buckets := make(map[time.Time][]*signin.SignInRecord)
	for _, rec := range rows {
		day := dayOf(rec.CreatedAt, loc)
		buckets[day] = append(buckets[day], rec)
	}

	groups := make([]Group, 0, len(buckets))
	for day, entries := range buckets {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		})
		groups = append(groups, Group{
			Day:     day,
			Label:   dayLabel(day, dayOf(now, loc)),
			Entries: entries,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Day.After(groups[j].Day)
	})
	return groups
}

func dayLabel(day, today time.Time) string {
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("January 2, 2006")
	}
}
