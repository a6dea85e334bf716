package service

import (
	"fmt"
	"time"

	"masjidku_dashboard/internals/features/school/classes/dto"
	helper "masjidku_dashboard/internals/helpers"
)

// NextEventAt: jadwal paling awal yang masih setelah now; nil bila tidak ada.
func NextEventAt(schedules []dto.Schedule, now time.Time) *time.Time {
	var next *time.Time
	for _, s := range schedules {
		t := s.At.Ptr()
		if t == nil || !t.After(now) {
			continue
		}
		if next == nil || t.Before(*next) {
			tt := *t
			next = &tt
		}
	}
	return next
}

func WithNextEvent(items []dto.Class, now time.Time) []dto.Class {
	for i := range items {
		if items[i].Schedules == nil {
			items[i].Schedules = []dto.Schedule{}
		}
		items[i].NextEventAt = NextEventAt(items[i].Schedules, now)
	}
	return items
}

// ScheduleBody menormalkan input jadwal ke RFC3339 untuk upstream.
func ScheduleBody(in []dto.ScheduleInput) ([]map[string]string, map[string][]string) {
	out := make([]map[string]string, 0, len(in))
	errs := map[string][]string{}
	for i, s := range in {
		t, err := helper.ParseDate(s.At)
		if err != nil {
			key := fmt.Sprintf("schedules[%d].at", i)
			errs[key] = append(errs[key], "Format waktu tidak valid")
			continue
		}
		out = append(out, map[string]string{"day": s.Day, "at": t.Format(time.RFC3339)})
	}
	return out, errs
}
