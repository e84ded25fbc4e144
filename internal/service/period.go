package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"osas-connect/config"
)

// Semester labels used in period names
const (
	SemesterFirst   = "1st Semester"
	SemesterSecond  = "2nd Semester"
	SemesterMidyear = "Midyear"
)

var ErrInvalidPeriod = errors.New("period must look like \"2025-2026 1st Semester\"")

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{4}) (1st Semester|2nd Semester|Midyear)$`)

// Period a parsed academic period
type Period struct {
	Name         string
	AcademicYear string
	Semester     string
	StartYear    int
}

// PeriodCalculator derives academic periods and their renewal deadlines
type PeriodCalculator struct {
	firstDeadline  string // MM-DD
	secondDeadline string // MM-DD
	windowDays     int
	loc            *time.Location
}

// NewPeriodCalculator creates a PeriodCalculator. A nil loc means UTC.
func NewPeriodCalculator(cfg *config.RenewalConfig, loc *time.Location) *PeriodCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &PeriodCalculator{
		firstDeadline:  cfg.FirstSemesterDeadline,
		secondDeadline: cfg.SecondSemesterDeadline,
		windowDays:     cfg.ReminderWindowDays,
		loc:            loc,
	}
}

// CurrentPeriod Aug–Dec is the 1st semester, Jan–May the 2nd, Jun–Jul midyear
func (p *PeriodCalculator) CurrentPeriod(now time.Time) Period {
	t := now.In(p.loc)
	y := t.Year()
	switch m := t.Month(); {
	case m >= time.August:
		return newPeriod(y, SemesterFirst)
	case m <= time.May:
		return newPeriod(y-1, SemesterSecond)
	default:
		return newPeriod(y-1, SemesterMidyear)
	}
}

// Parse validates a period name
func (p *PeriodCalculator) Parse(name string) (Period, error) {
	m := periodPattern.FindStringSubmatch(name)
	if m == nil {
		return Period{}, ErrInvalidPeriod
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return Period{}, ErrInvalidPeriod
	}
	return newPeriod(start, m[3]), nil
}

// Deadline the renewal deadline date (midnight, local) of a period; ok is false for midyear
func (p *PeriodCalculator) Deadline(period Period) (time.Time, bool) {
	var md string
	switch period.Semester {
	case SemesterFirst:
		md = p.firstDeadline
	case SemesterSecond:
		md = p.secondDeadline
	default:
		return time.Time{}, false
	}
	d, err := time.Parse("01-02", md)
	if err != nil {
		return time.Time{}, false
	}

	// the 1st semester runs Aug–Dec of the start year, the 2nd Jan–Jul of the end year
	year := period.StartYear
	if period.Semester == SemesterFirst && d.Month() < time.August {
		year++
	}
	if period.Semester == SemesterSecond && d.Month() <= time.July {
		year++
	}
	return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, p.loc), true
}

// PeriodDeadline Deadline by name
func (p *PeriodCalculator) PeriodDeadline(name string) (time.Time, bool) {
	period, err := p.Parse(name)
	if err != nil {
		return time.Time{}, false
	}
	return p.Deadline(period)
}

// InReminderWindow now falls on a day in [deadline - window days, deadline]
func (p *PeriodCalculator) InReminderWindow(now, deadline time.Time) bool {
	t := now.In(p.loc)
	opens := deadline.AddDate(0, 0, -p.windowDays)
	closes := deadline.AddDate(0, 0, 1)
	return !t.Before(opens) && t.Before(closes)
}

// DaysLeft whole days from now until the deadline day
func (p *PeriodCalculator) DaysLeft(now, deadline time.Time) int {
	t := now.In(p.loc)
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
	return int(math.Round(deadline.Sub(today).Hours() / 24))
}

func newPeriod(startYear int, semester string) Period {
	ay := fmt.Sprintf("%d-%d", startYear, startYear+1)
	return Period{
		Name:         ay + " " + semester,
		AcademicYear: ay,
		Semester:     semester,
		StartYear:    startYear,
	}
}
