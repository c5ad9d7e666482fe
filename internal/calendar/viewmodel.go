// Package calendar tracks how many books were read in each month of a year.
package calendar

import (
	"context"
	"strconv"
	"strings"

	"bookshelf/internal/logger"
	"bookshelf/internal/viewmodel"
	"bookshelf/pkg/models"
)

const (
	msgLoad = "Could not load the calendar."
	msgSave = "Could not save the calendar."
	msgUser = "Invalid user for saving the calendar."
)

// MonthsPerYear is the number of rows in a calendar.
const MonthsPerYear = 12

type Gateway interface {
	GetCalendar(ctx context.Context, userID models.ID, year int) (*models.Calendar, error)
	SaveCalendarMonth(ctx context.Context, userID models.ID, year, month, count int) error
}

// Month is one row as the user typed it.
type Month struct {
	Month int
	Raw   string
	Count int
}

type ViewModel struct {
	viewmodel.State

	gw  Gateway
	log *logger.Logger

	userID models.ID
	year   int
	raw    [MonthsPerYear]string
}

func New(gw Gateway, log *logger.Logger) *ViewModel {
	vm := &ViewModel{gw: gw, log: logger.OrDiscard(log).With("viewmodel", "calendar")}
	vm.raw = zeroMonths()
	return vm
}

// Load fetches (userID, year). Nothing stored yet reads as twelve zero months.
func (vm *ViewModel) Load(ctx context.Context, userID models.ID, year int) error {
	if userID.IsZero() {
		return nil
	}
	seq := vm.Begin(true)
	cal, err := vm.gw.GetCalendar(ctx, userID, year)
	if err != nil {
		vm.log.Warn("load calendar failed", "user_id", userID, "year", year, "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgLoad), nil)
		return err
	}

	raw := zeroMonths()
	if cal != nil {
		for _, m := range cal.Months {
			if m.Month >= 1 && m.Month <= MonthsPerYear {
				raw[m.Month-1] = strconv.Itoa(m.BookCount)
			}
		}
	}
	vm.Settle(seq, "", func() {
		vm.userID, vm.year = userID, year
		vm.raw = raw
	})
	return nil
}

// SetMonth keeps the raw input for month (1-12); parsing happens on read.
func (vm *ViewModel) SetMonth(month int, raw string) error {
	if month < 1 || month > MonthsPerYear {
		verr := viewmodel.Invalid("Month %d is out of range.", month)
		vm.Reject(verr.Message)
		return verr
	}
	vm.View(func() { vm.raw[month-1] = raw })
	return nil
}

// Months returns the twelve rows in calendar order.
func (vm *ViewModel) Months() []Month {
	out := make([]Month, 0, MonthsPerYear)
	vm.View(func() {
		for i, raw := range vm.raw {
			out = append(out, Month{Month: i + 1, Raw: raw, Count: LeadingInt(raw)})
		}
	})
	return out
}

// Total sums the months; entries that do not start with a number count as 0.
func (vm *ViewModel) Total() int {
	total := 0
	for _, m := range vm.Months() {
		total += m.Count
	}
	return total
}

// Save upserts all twelve months at once. Negative counts are rejected before
// anything is sent; months that succeed stay saved even when others fail.
func (vm *ViewModel) Save(ctx context.Context) ([]viewmodel.UnitResult, error) {
	var (
		userID models.ID
		year   int
	)
	vm.View(func() { userID, year = vm.userID, vm.year })
	if userID.IsZero() {
		verr := viewmodel.Invalid(msgUser)
		vm.Reject(verr.Message)
		return nil, verr
	}

	months := vm.Months()
	keys := make([]string, 0, MonthsPerYear)
	counts := make(map[string]int, MonthsPerYear)
	for _, m := range months {
		if m.Count < 0 {
			verr := viewmodel.Invalid("Month %d cannot have a negative count.", m.Month)
			vm.Reject(verr.Message)
			return nil, verr
		}
		key := strconv.Itoa(m.Month)
		keys = append(keys, key)
		counts[key] = m.Count
	}

	seq := vm.Begin(false)
	results, err := viewmodel.RunAll(ctx, keys, func(ctx context.Context, key string) error {
		month, _ := strconv.Atoi(key)
		return vm.gw.SaveCalendarMonth(ctx, userID, year, month, counts[key])
	})
	if err != nil {
		vm.log.Warn("save calendar failed", "user_id", userID, "year", year,
			"failed_months", viewmodel.Failed(results), "error", err)
		vm.Settle(seq, viewmodel.MessageFor(err, msgSave), nil)
		return results, err
	}
	vm.Settle(seq, "", nil)
	return results, nil
}

// LeadingInt parses an optional sign and the digits that follow, after
// leading whitespace. Anything else yields 0.
func LeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func zeroMonths() [MonthsPerYear]string {
	var raw [MonthsPerYear]string
	for i := range raw {
		raw[i] = "0"
	}
	return raw
}
