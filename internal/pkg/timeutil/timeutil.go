package timeutil

import "time"

func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// StartOfDay returns local midnight of the day containing t. Day windows
// are half-open: [midnight, midnight+24h).
func StartOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func StartOfTodayMillis() int64 {
	return StartOfDay(time.Now()).UnixMilli()
}
