package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PlanItem is one day of a weekly plan.
type PlanItem struct {
	Day   string   `json:"day"`
	Tasks []string `json:"tasks"`
}

// Plan is a structured weekly plan. The planner tool returns the model's
// raw text to the client; Plan is the shape that text is expected to decode
// into, used to sanity-check the output.
type Plan struct {
	Meta
	WeekStart time.Time  `json:"week_start"`
	Items     []PlanItem `json:"items"`
}

// BuildPlan decodes raw planner output of the shape {days:[{day,tasks[]}]}
// into a Plan for the week starting at weekStart.
func BuildPlan(sessionID string, weekStart time.Time, raw string) (*Plan, error) {
	var decoded struct {
		Days []PlanItem `json:"days"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(decoded.Days) == 0 {
		return nil, errors.New("plan has no days")
	}
	return &Plan{Meta: newMeta(sessionID), WeekStart: weekStart, Items: decoded.Days}, nil
}

// NextWeekStart returns the Monday on or after t, at midnight UTC.
func NextWeekStart(t time.Time) time.Time {
	t = t.UTC()
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	d := t.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
