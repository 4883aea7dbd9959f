package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/diyur/wage-engine/calendar"
	"github.com/diyur/wage-engine/engine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPersonRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := engine.Person{
		ID: 1, Name: "אביגיל כהן", IsMarried: false, IsActive: true,
		StartDate: calendar.NewDate(2025, time.June, 1), PayCode: "1001",
	}
	require.NoError(t, store.SavePerson(ctx, p, 0))

	got, err := store.Person(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "אביגיל כהן", got.Name)
	require.Equal(t, "1001", got.PayCode)
	require.Equal(t, "2025-06-01", got.StartDate.String())
	require.True(t, got.IsActive)

	// Upsert overwrites in place.
	p.Name = "אביגיל לוי"
	p.IsMarried = true
	require.NoError(t, store.SavePerson(ctx, p, 0))
	got, err = store.Person(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "אביגיל לוי", got.Name)
	require.True(t, got.IsMarried)
}

func TestPerson_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Person(context.Background(), 99)
	if !errors.Is(err, engine.ErrPersonNotFound) {
		t.Fatalf("err = %v, want ErrPersonNotFound", err)
	}
}

func TestActivePeople_FiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "דוד", IsActive: true}, 0))
	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 2, Name: "אביגיל", IsActive: true}, 0))
	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 3, Name: "גדעון", IsActive: false}, 0))

	people, err := store.ActivePeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 2)
	require.Equal(t, "אביגיל", people[0].Name)
	require.Equal(t, "דוד", people[1].Name)
}

func TestTemplatesForShiftTypes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveShiftType(ctx, 2, "משמרת לילה"))
	// Saved out of order; reads come back by order_index.
	require.NoError(t, store.SaveSegmentTemplate(ctx, engine.SegmentTemplate{
		ID: 23, ShiftTypeID: 2, StartClock: "06:30", EndClock: "08:00",
		Kind: engine.KindWork, WagePercent: 100, OrderIndex: 2,
	}))
	require.NoError(t, store.SaveSegmentTemplate(ctx, engine.SegmentTemplate{
		ID: 21, ShiftTypeID: 2, StartClock: "16:00", EndClock: "23:00",
		Kind: engine.KindWork, WagePercent: 100, OrderIndex: 0,
	}))
	require.NoError(t, store.SaveSegmentTemplate(ctx, engine.SegmentTemplate{
		ID: 22, ShiftTypeID: 2, StartClock: "23:00", EndClock: "06:30",
		Kind: engine.KindStandby, OrderIndex: 1,
	}))

	templates, err := store.TemplatesForShiftTypes(ctx, []int64{2, 7})
	require.NoError(t, err)
	require.Len(t, templates, 1)

	segs := templates[2]
	require.Len(t, segs, 3)
	require.Equal(t, []int64{21, 22, 23}, []int64{segs[0].ID, segs[1].ID, segs[2].ID})
	require.Equal(t, engine.KindStandby, segs[1].Kind)

	// No ids, no query.
	templates, err = store.TemplatesForShiftTypes(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, templates)
}

func TestReportsForMonth_JoinsPersonContext(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveApartmentType(ctx, 2, "דירת רשת ביטחון"))
	require.NoError(t, store.SaveApartment(ctx, 5, "דירת הדס", 2))
	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "דוד לוי", IsMarried: true, IsActive: true}, 5))
	require.NoError(t, store.SaveShiftType(ctx, 2, "משמרת לילה"))

	require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 9),
		StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2,
	}))
	// Different month, must not come back.
	require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
		ID: 2, PersonID: 1,
		Date:       calendar.NewDate(2026, time.April, 1),
		StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2,
	}))

	reports, err := store.ReportsForMonth(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	require.Equal(t, "2026-03-09", r.Date.String())
	require.Equal(t, "משמרת לילה", r.ShiftName)
	require.True(t, r.IsMarried)
	require.NotNil(t, r.ApartmentTypeID)
	require.EqualValues(t, 2, *r.ApartmentTypeID)

	all, err := store.ReportsForAll(ctx, 2026, time.April)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.EqualValues(t, 2, all[0].ID)
}

func TestReportsForMonth_ReportApartmentOverridesHome(t *testing.T) {
	// A worker covering a shift in another apartment draws that
	// apartment's standby context, not their home apartment's.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveApartmentType(ctx, 2, "דירת רשת ביטחון"))
	require.NoError(t, store.SaveApartmentType(ctx, 3, "דירת המשך"))
	require.NoError(t, store.SaveApartment(ctx, 5, "דירת הדס", 2))
	require.NoError(t, store.SaveApartment(ctx, 6, "דירת רימון", 3))
	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "דוד לוי", IsActive: true}, 5))

	require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 9),
		StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2,
		ApartmentID: 6,
	}))
	require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
		ID: 2, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 10),
		StartClock: "16:00", EndClock: "08:00", ShiftTypeID: 2,
	}))

	reports, err := store.ReportsForMonth(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	covering := reports[0]
	require.EqualValues(t, 6, covering.ApartmentID)
	require.NotNil(t, covering.ApartmentTypeID)
	require.EqualValues(t, 3, *covering.ApartmentTypeID)

	home := reports[1]
	require.EqualValues(t, 5, home.ApartmentID)
	require.NotNil(t, home.ApartmentTypeID)
	require.EqualValues(t, 2, *home.ApartmentTypeID)
}

func TestReportsForMonth_NoApartment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "אביגיל", IsActive: true}, 0))
	require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 2),
		StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1,
	}))

	reports, err := store.ReportsForMonth(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Nil(t, reports[0].ApartmentTypeID)
	require.Equal(t, "", reports[0].ShiftName)
}

func TestAvailableMonths_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "א", IsActive: true}, 0))
	for i, d := range []calendar.Date{
		calendar.NewDate(2026, time.January, 5),
		calendar.NewDate(2026, time.March, 2),
		calendar.NewDate(2026, time.March, 3),
		calendar.NewDate(2025, time.December, 30),
	} {
		require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
			ID: int64(i + 1), PersonID: 1, Date: d,
			StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1,
		}))
	}

	months, err := store.AvailableMonths(ctx)
	require.NoError(t, err)
	require.Equal(t, []engine.MonthKey{
		{Year: 2026, Month: time.March},
		{Year: 2026, Month: time.January},
		{Year: 2025, Month: time.December},
	}, months)
}

func TestShabbatTableRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saturday := calendar.NewDate(2026, time.March, 7)
	require.NoError(t, store.SaveShabbatWindow(ctx, saturday, engine.ShabbatWindow{Candles: "17:00", Havdalah: "18:00"}))
	require.NoError(t, store.SaveShabbatWindow(ctx, saturday, engine.ShabbatWindow{Candles: "17:12", Havdalah: "18:11"}))

	table, err := store.ShabbatTable(ctx)
	require.NoError(t, err)
	require.Len(t, table, 1)
	require.Equal(t, engine.ShabbatWindow{Candles: "17:12", Havdalah: "18:11"}, table["2026-03-07"])
}

func TestStandbyRatesRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	aptType := int64(2)
	require.NoError(t, store.SaveStandbyRate(ctx, engine.StandbyRate{
		TemplateID: 22, MaritalStatus: "single", Priority: 0,
		Amount: decimal.RequireFromString("70"),
	}))
	require.NoError(t, store.SaveStandbyRate(ctx, engine.StandbyRate{
		TemplateID: 22, ApartmentTypeID: &aptType, MaritalStatus: "married", Priority: 10,
		Amount: decimal.RequireFromString("95.50"),
	}))

	rates, err := store.StandbyRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)

	byPriority := map[int]engine.StandbyRate{}
	for _, r := range rates {
		byPriority[r.Priority] = r
	}
	require.Nil(t, byPriority[0].ApartmentTypeID)
	require.Equal(t, "70", byPriority[0].Amount.String())
	require.NotNil(t, byPriority[10].ApartmentTypeID)
	require.EqualValues(t, 2, *byPriority[10].ApartmentTypeID)
	require.Equal(t, "95.5", byPriority[10].Amount.String())
}

func TestMinimumWage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Missing month is zero, not an error.
	wage, err := store.MinimumWage(ctx, 2026, time.March)
	require.NoError(t, err)
	require.True(t, wage.IsZero())

	require.NoError(t, store.SaveMinimumWage(ctx, 2026, time.March, decimal.RequireFromString("34.40")))
	wage, err = store.MinimumWage(ctx, 2026, time.March)
	require.NoError(t, err)
	require.Equal(t, "34.4", wage.String())

	require.NoError(t, store.SaveMinimumWage(ctx, 2026, time.March, decimal.RequireFromString("35.10")))
	wage, err = store.MinimumWage(ctx, 2026, time.March)
	require.NoError(t, err)
	require.Equal(t, "35.1", wage.String())
}

func TestMinimumWage_CarriesForward(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMinimumWage(ctx, 2025, time.April, decimal.RequireFromString("33.00")))
	require.NoError(t, store.SaveMinimumWage(ctx, 2026, time.March, decimal.RequireFromString("34.40")))

	// A month without its own row uses the most recent earlier rate,
	// crossing year boundaries when needed.
	wage, err := store.MinimumWage(ctx, 2026, time.July)
	require.NoError(t, err)
	require.Equal(t, "34.4", wage.String())

	wage, err = store.MinimumWage(ctx, 2026, time.January)
	require.NoError(t, err)
	require.Equal(t, "33", wage.String())

	// Before the oldest row there is nothing to carry forward.
	wage, err = store.MinimumWage(ctx, 2025, time.March)
	require.NoError(t, err)
	require.True(t, wage.IsZero())
}

func TestPaymentComponents_MonthFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "א", IsActive: true}, 0))
	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 2, Name: "ב", IsActive: true}, 0))

	mar := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SavePaymentComponent(ctx, engine.PaymentComponent{
		PersonID: 1, Date: mar, ComponentTypeID: engine.ComponentTypeTravel,
		Amount: decimal.RequireFromString("250"),
	}))
	require.NoError(t, store.SavePaymentComponent(ctx, engine.PaymentComponent{
		PersonID: 2, Date: mar, ComponentTypeID: 5,
		Amount: decimal.RequireFromString("120.50"),
	}))
	require.NoError(t, store.SavePaymentComponent(ctx, engine.PaymentComponent{
		PersonID: 1, Date: apr, ComponentTypeID: engine.ComponentTypeTravel,
		Amount: decimal.RequireFromString("99"),
	}))

	mine, err := store.PaymentComponents(ctx, 1, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "250", mine[0].Amount.String())

	all, err := store.AllPaymentComponents(ctx, 2026, time.March)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePerson(ctx, engine.Person{ID: 1, Name: "א", IsActive: true}, 0))
	require.NoError(t, store.SaveTimeReport(ctx, engine.TimeReport{
		ID: 1, PersonID: 1,
		Date:       calendar.NewDate(2026, time.March, 2),
		StartClock: "08:00", EndClock: "16:00", ShiftTypeID: 1,
	}))

	require.NoError(t, store.Reset(ctx))

	people, err := store.ActivePeople(ctx)
	require.NoError(t, err)
	require.Empty(t, people)

	months, err := store.AvailableMonths(ctx)
	require.NoError(t, err)
	require.Empty(t, months)
}
