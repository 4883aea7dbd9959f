// Package memory provides an in-memory engine.Source for testing and
// development. Data is seeded through exported fields or the Add
// helpers; reads mirror the SQLite source's semantics (month
// filtering, minimum wage carried forward from the most recent row).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/engine"
)

type Source struct {
	mu sync.RWMutex

	People     map[int64]engine.Person
	Reports    []engine.TimeReport
	Templates  map[int64][]engine.SegmentTemplate
	Shabbat    engine.ShabbatTable
	Rates      []engine.StandbyRate
	Wages      map[engine.MonthKey]decimal.Decimal
	Components []engine.PaymentComponent
}

func New() *Source {
	return &Source{
		People:    make(map[int64]engine.Person),
		Templates: make(map[int64][]engine.SegmentTemplate),
		Shabbat:   engine.ShabbatTable{},
		Wages:     make(map[engine.MonthKey]decimal.Decimal),
	}
}

// =============================================================================
// SEEDING HELPERS
// =============================================================================

func (s *Source) AddPerson(p engine.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.People[p.ID] = p
}

func (s *Source) AddReport(r engine.TimeReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reports = append(s.Reports, r)
}

func (s *Source) AddTemplate(t engine.SegmentTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Templates[t.ShiftTypeID] = append(s.Templates[t.ShiftTypeID], t)
}

func (s *Source) SetWage(year int, month time.Month, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Wages[engine.MonthKey{Year: year, Month: month}] = amount
}

// =============================================================================
// engine.Source
// =============================================================================

func (s *Source) Person(_ context.Context, id int64) (engine.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.People[id]
	if !ok {
		return engine.Person{}, engine.ErrPersonNotFound
	}
	return p, nil
}

func (s *Source) ActivePeople(_ context.Context) ([]engine.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var people []engine.Person
	for _, p := range s.People {
		if p.IsActive {
			people = append(people, p)
		}
	}
	sort.Slice(people, func(i, j int) bool { return people[i].Name < people[j].Name })
	return people, nil
}

func (s *Source) ReportsForMonth(_ context.Context, personID int64, year int, month time.Month) ([]engine.TimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []engine.TimeReport
	for _, r := range s.Reports {
		if r.PersonID == personID && r.Date.InMonth(year, month) {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func (s *Source) ReportsForAll(_ context.Context, year int, month time.Month) ([]engine.TimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reports []engine.TimeReport
	for _, r := range s.Reports {
		if r.Date.InMonth(year, month) {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

func (s *Source) TemplatesForShiftTypes(_ context.Context, shiftTypeIDs []int64) (map[int64][]engine.SegmentTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64][]engine.SegmentTemplate)
	for _, id := range shiftTypeIDs {
		if segs, ok := s.Templates[id]; ok {
			out[id] = segs
		}
	}
	return out, nil
}

func (s *Source) ShabbatTable(_ context.Context) (engine.ShabbatTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Shabbat, nil
}

func (s *Source) StandbyRates(_ context.Context) ([]engine.StandbyRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Rates, nil
}

// MinimumWage carries the most recent rate forward, like the SQLite
// source; zero means no rate is effective yet.
func (s *Source) MinimumWage(_ context.Context, year int, month time.Month) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best engine.MonthKey
	found := false
	for key := range s.Wages {
		if key.Year > year || (key.Year == year && key.Month > month) {
			continue
		}
		if !found || key.Year > best.Year || (key.Year == best.Year && key.Month > best.Month) {
			best = key
			found = true
		}
	}
	if !found {
		return decimal.Zero, nil
	}
	return s.Wages[best], nil
}

func (s *Source) PaymentComponents(_ context.Context, personID int64, year int, month time.Month) ([]engine.PaymentComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []engine.PaymentComponent
	for _, c := range s.Components {
		if c.PersonID == personID && c.Date.Year() == year && c.Date.Month() == month {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Source) AllPaymentComponents(_ context.Context, year int, month time.Month) ([]engine.PaymentComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []engine.PaymentComponent
	for _, c := range s.Components {
		if c.Date.Year() == year && c.Date.Month() == month {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Source) AvailableMonths(_ context.Context) ([]engine.MonthKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[engine.MonthKey]struct{})
	var months []engine.MonthKey
	for _, r := range s.Reports {
		key := engine.MonthKey{Year: r.Date.Year(), Month: r.Date.Month()}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		months = append(months, key)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	return months, nil
}
