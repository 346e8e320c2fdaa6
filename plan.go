package worklog

import (
	"fmt"
	"strings"
	"time"

	"github.com/worklogbot/worklog/pkg/constants"
)

// provisionDay is the day of month from which the following month's folders
// are created ahead of time.
const provisionDay = 28

// Plan is what a run has to do on a given day. It is derived from the date alone.
type Plan struct {
	Today time.Time

	YearFolder  string
	MonthFolder string

	// NextYearFolder is set from December 28th on.
	NextYearFolder string
	// NextMonth is set from the 28th of any month on.
	NextMonth *NextMonthFolders
	// Page is set on Tuesday, Wednesday and Thursday.
	Page *PageSpec
}

// NextMonthFolders names the folders of the month after Today.
type NextMonthFolders struct {
	YearFolder  string
	MonthFolder string
}

// PageSpec describes the worklog page for the upcoming Thursday.
type PageSpec struct {
	Thursday time.Time
	Title    string
	// TargetDate replaces the template placeholder.
	TargetDate string
}

// NewPlan applies the worklog calendar rules to today.
//
// The page always belongs in today's month folder, even when the upcoming
// Thursday is already in the next month.
func NewPlan(today time.Time) Plan {
	year, month, day := today.Date()

	p := Plan{
		Today:       today,
		YearFolder:  YearFolderName(year),
		MonthFolder: MonthFolderName(year, month),
	}

	if month == time.December && day >= provisionDay {
		p.NextYearFolder = YearFolderName(year + 1)
	}

	if day >= provisionDay {
		nextYear, nextMonth := year, month%12+1
		if nextMonth == time.January {
			nextYear++
		}
		p.NextMonth = &NextMonthFolders{
			YearFolder:  YearFolderName(nextYear),
			MonthFolder: MonthFolderName(nextYear, nextMonth),
		}
	}

	if thursday, ok := UpcomingThursday(today); ok {
		p.Page = &PageSpec{
			Thursday:   thursday,
			Title:      PageTitle(thursday),
			TargetDate: thursday.Format(constants.DateLayout),
		}
	}

	return p
}

// YearFolderName is the folder holding a year's month folders, e.g. "2025_워크로그".
func YearFolderName(year int) string {
	return fmt.Sprintf("%d%s", year, constants.YearFolderSuffix)
}

// MonthFolderName is the folder holding a month's pages, e.g. "2025_06".
func MonthFolderName(year int, month time.Month) string {
	return fmt.Sprintf("%d_%02d", year, int(month))
}

// PageTitle is the worklog page title for day, e.g. "06_12_워크로그".
func PageTitle(day time.Time) string {
	return fmt.Sprintf("%02d_%02d%s", int(day.Month()), day.Day(), constants.PageTitleSuffix)
}

// UpcomingThursday returns the Thursday of today's week when today is a
// Tuesday, Wednesday or Thursday. Other days have no page to prepare.
func UpcomingThursday(today time.Time) (time.Time, bool) {
	wd := isoWeekday(today)
	if wd < 1 || wd > 3 {
		return time.Time{}, false
	}
	return today.AddDate(0, 0, 3-wd), true
}

// isoWeekday counts from Monday = 0.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// SubstituteDate replaces every literal occurrence of placeholder in body.
func SubstituteDate(body, placeholder, date string) string {
	if placeholder == "" {
		return body
	}
	return strings.ReplaceAll(body, placeholder, date)
}
