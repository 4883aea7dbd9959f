/*
Package sqlite provides the SQLite-backed data source for the wage
computation engine.

PURPOSE:
  Implements engine.Source over a single SQLite file. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  people:             Roster, with marital status and apartment link
  apartments:         Residential units, typed
  apartment_types:    Apartment categories (standby rates key on these)
  shift_types:        Named shift kinds
  shift_segments:     Per-shift-type segment templates, ordered
  time_reports:       Raw clock-in/clock-out rows
  shabbat_times:      Saturday-keyed candle-lighting/havdalah windows
  standby_rates:      Prioritized standby duty rates
  minimum_wages:      Hourly minimum wage per (year, month)
  payment_components: Travel and extra pay rows

MONEY:
  All stored amounts are integer agorot; the boundary converts to
  decimal shekels on read and back on write.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers do not block each other.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/engine.go: the Source interface this package implements
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/diyur/wage-engine/calendar"
	"github.com/diyur/wage-engine/engine"
)

// Store implements engine.Source over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at the given path and migrates
// the schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS apartment_types (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS apartments (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		apartment_type_id INTEGER REFERENCES apartment_types(id)
	);

	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		is_married BOOLEAN NOT NULL DEFAULT FALSE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		start_date TEXT,
		pay_code TEXT NOT NULL DEFAULT '',
		apartment_id INTEGER REFERENCES apartments(id)
	);

	CREATE TABLE IF NOT EXISTS shift_types (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shift_segments (
		id INTEGER PRIMARY KEY,
		shift_type_id INTEGER NOT NULL REFERENCES shift_types(id),
		start_clock TEXT NOT NULL,
		end_clock TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'work',
		wage_percent INTEGER NOT NULL DEFAULT 100,
		order_index INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_shift_segments_type
		ON shift_segments(shift_type_id, order_index);

	CREATE TABLE IF NOT EXISTS time_reports (
		id INTEGER PRIMARY KEY,
		person_id INTEGER NOT NULL REFERENCES people(id),
		date TEXT NOT NULL,
		start_clock TEXT,
		end_clock TEXT,
		shift_type_id INTEGER,
		class TEXT NOT NULL DEFAULT '',
		apartment_id INTEGER REFERENCES apartments(id)
	);

	-- Hot path: all statement queries filter by person and month.
	CREATE INDEX IF NOT EXISTS idx_time_reports_person_date
		ON time_reports(person_id, date);
	CREATE INDEX IF NOT EXISTS idx_time_reports_date
		ON time_reports(date);

	CREATE TABLE IF NOT EXISTS shabbat_times (
		saturday_date TEXT PRIMARY KEY,
		candles TEXT NOT NULL,
		havdalah TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS standby_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		segment_id INTEGER NOT NULL,
		apartment_type_id INTEGER,
		marital_status TEXT NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		amount_agorot INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_standby_rates_segment
		ON standby_rates(segment_id, priority DESC);

	CREATE TABLE IF NOT EXISTS minimum_wages (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		amount_agorot INTEGER NOT NULL,
		PRIMARY KEY (year, month)
	);

	CREATE TABLE IF NOT EXISTS payment_components (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		person_id INTEGER NOT NULL REFERENCES people(id),
		date TEXT NOT NULL,
		component_type_id INTEGER NOT NULL,
		amount_agorot INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payment_components_person_date
		ON payment_components(person_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MONEY CONVERSION
// =============================================================================

var hundred = decimal.NewFromInt(100)

func agorotToShekels(agorot int64) decimal.Decimal {
	return decimal.NewFromInt(agorot).Div(hundred)
}

func shekelsToAgorot(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// =============================================================================
// PEOPLE
// =============================================================================

// Person returns one roster row, active or not.
func (s *Store) Person(ctx context.Context, id int64) (engine.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p engine.Person
	var startDate sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, is_married, is_active, start_date, pay_code FROM people WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.IsMarried, &p.IsActive, &startDate, &p.PayCode)

	if err == sql.ErrNoRows {
		return engine.Person{}, engine.ErrPersonNotFound
	}
	if err != nil {
		return engine.Person{}, fmt.Errorf("failed to load person %d: %w", id, err)
	}

	p.StartDate = parseDate(startDate)
	return p, nil
}

// ActivePeople returns the active roster, ordered by name.
func (s *Store) ActivePeople(ctx context.Context) ([]engine.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, is_married, is_active, start_date, pay_code FROM people WHERE is_active = TRUE ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []engine.Person
	for rows.Next() {
		var p engine.Person
		var startDate sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.IsMarried, &p.IsActive, &startDate, &p.PayCode); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		p.StartDate = parseDate(startDate)
		people = append(people, p)
	}
	return people, rows.Err()
}

// SavePerson upserts a roster row.
func (s *Store) SavePerson(ctx context.Context, p engine.Person, apartmentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var startDate any
	if !p.StartDate.IsZero() {
		startDate = p.StartDate.String()
	}

	query := `
		INSERT INTO people (id, name, is_married, is_active, start_date, pay_code, apartment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_married = excluded.is_married,
			is_active = excluded.is_active,
			start_date = excluded.start_date,
			pay_code = excluded.pay_code,
			apartment_id = excluded.apartment_id
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.IsMarried, p.IsActive, startDate, p.PayCode, nullID(apartmentID))
	return err
}

// =============================================================================
// APARTMENTS
// =============================================================================

// SaveApartmentType upserts an apartment category.
func (s *Store) SaveApartmentType(ctx context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO apartment_types (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		id, name)
	return err
}

// SaveApartment upserts an apartment.
func (s *Store) SaveApartment(ctx context.Context, id int64, name string, apartmentTypeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO apartments (id, name, apartment_type_id) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, apartment_type_id = excluded.apartment_type_id`,
		id, name, nullID(apartmentTypeID))
	return err
}

// =============================================================================
// SHIFT TYPES AND SEGMENT TEMPLATES
// =============================================================================

// SaveShiftType upserts a shift type.
func (s *Store) SaveShiftType(ctx context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO shift_types (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		id, name)
	return err
}

// SaveSegmentTemplate upserts one segment template row.
func (s *Store) SaveSegmentTemplate(ctx context.Context, t engine.SegmentTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shift_segments (id, shift_type_id, start_clock, end_clock, kind, wage_percent, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			shift_type_id = excluded.shift_type_id,
			start_clock = excluded.start_clock,
			end_clock = excluded.end_clock,
			kind = excluded.kind,
			wage_percent = excluded.wage_percent,
			order_index = excluded.order_index
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.ShiftTypeID, t.StartClock, t.EndClock, string(t.Kind), t.WagePercent, t.OrderIndex)
	return err
}

// TemplatesForShiftTypes loads the ordered segment templates for the
// given shift types as a map keyed by shift type id.
func (s *Store) TemplatesForShiftTypes(ctx context.Context, shiftTypeIDs []int64) (map[int64][]engine.SegmentTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	templates := make(map[int64][]engine.SegmentTemplate)
	if len(shiftTypeIDs) == 0 {
		return templates, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(shiftTypeIDs)), ",")
	query := fmt.Sprintf(`
		SELECT id, shift_type_id, start_clock, end_clock, kind, wage_percent, order_index
		FROM shift_segments
		WHERE shift_type_id IN (%s)
		ORDER BY shift_type_id, order_index
	`, placeholders)

	args := make([]any, len(shiftTypeIDs))
	for i, id := range shiftTypeIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t engine.SegmentTemplate
		var kind string
		if err := rows.Scan(&t.ID, &t.ShiftTypeID, &t.StartClock, &t.EndClock, &kind, &t.WagePercent, &t.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan shift segment: %w", err)
		}
		t.Kind = engine.SegmentKind(kind)
		templates[t.ShiftTypeID] = append(templates[t.ShiftTypeID], t)
	}
	return templates, rows.Err()
}

// =============================================================================
// TIME REPORTS
// =============================================================================

// SaveTimeReport upserts a raw report row.
func (s *Store) SaveTimeReport(ctx context.Context, r engine.TimeReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO time_reports (id, person_id, date, start_clock, end_clock, shift_type_id, class, apartment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			person_id = excluded.person_id,
			date = excluded.date,
			start_clock = excluded.start_clock,
			end_clock = excluded.end_clock,
			shift_type_id = excluded.shift_type_id,
			class = excluded.class,
			apartment_id = excluded.apartment_id
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.PersonID, r.Date.String(), r.StartClock, r.EndClock, nullID(r.ShiftTypeID), string(r.Class), nullID(r.ApartmentID))
	return err
}

// A report may carry its own apartment (covering a shift elsewhere);
// otherwise the person's home apartment supplies the standby context.
const reportColumns = `
	SELECT r.id, r.person_id, r.date, r.start_clock, r.end_clock,
	       COALESCE(r.shift_type_id, 0), COALESCE(st.name, ''), r.class,
	       COALESCE(r.apartment_id, p.apartment_id, 0), a.apartment_type_id, p.is_married
	FROM time_reports r
	JOIN people p ON p.id = r.person_id
	LEFT JOIN apartments a ON a.id = COALESCE(r.apartment_id, p.apartment_id)
	LEFT JOIN shift_types st ON st.id = r.shift_type_id
`

// ReportsForMonth returns one person's reports for a month, ordered by
// date and start time.
func (s *Store) ReportsForMonth(ctx context.Context, personID int64, year int, month time.Month) ([]engine.TimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first, last := monthBounds(year, month)
	query := reportColumns + `
		WHERE r.person_id = ? AND r.date >= ? AND r.date <= ?
		ORDER BY r.date, r.start_clock
	`
	return s.queryReports(ctx, query, personID, first, last)
}

// ReportsForAll returns every report in a month across the roster.
func (s *Store) ReportsForAll(ctx context.Context, year int, month time.Month) ([]engine.TimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first, last := monthBounds(year, month)
	query := reportColumns + `
		WHERE r.date >= ? AND r.date <= ?
		ORDER BY r.person_id, r.date, r.start_clock
	`
	return s.queryReports(ctx, query, first, last)
}

func (s *Store) queryReports(ctx context.Context, query string, args ...any) ([]engine.TimeReport, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time reports: %w", err)
	}
	defer rows.Close()

	var reports []engine.TimeReport
	for rows.Next() {
		var (
			r          engine.TimeReport
			date       string
			start, end sql.NullString
			class      string
			aptType    sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.PersonID, &date, &start, &end,
			&r.ShiftTypeID, &r.ShiftName, &class, &r.ApartmentID, &aptType, &r.IsMarried); err != nil {
			return nil, fmt.Errorf("failed to scan time report: %w", err)
		}
		r.Date = parseDate(sql.NullString{String: date, Valid: true})
		r.StartClock = start.String
		r.EndClock = end.String
		r.Class = engine.ReportClass(class)
		if aptType.Valid {
			v := aptType.Int64
			r.ApartmentTypeID = &v
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// AvailableMonths lists months that have any reports, newest first.
func (s *Store) AvailableMonths(ctx context.Context) ([]engine.MonthKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT substr(date, 1, 7) AS ym FROM time_reports ORDER BY ym DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query months: %w", err)
	}
	defer rows.Close()

	var months []engine.MonthKey
	for rows.Next() {
		var ym string
		if err := rows.Scan(&ym); err != nil {
			return nil, err
		}
		t, err := time.Parse("2006-01", ym)
		if err != nil {
			continue
		}
		months = append(months, engine.MonthKey{Year: t.Year(), Month: t.Month()})
	}
	return months, rows.Err()
}

// =============================================================================
// SHABBAT WINDOWS
// =============================================================================

// SaveShabbatWindow upserts one Saturday's window.
func (s *Store) SaveShabbatWindow(ctx context.Context, saturday calendar.Date, w engine.ShabbatWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shabbat_times (saturday_date, candles, havdalah)
		VALUES (?, ?, ?)
		ON CONFLICT(saturday_date) DO UPDATE SET
			candles = excluded.candles,
			havdalah = excluded.havdalah
	`
	_, err := s.db.ExecContext(ctx, query, saturday.String(), w.Candles, w.Havdalah)
	return err
}

// ShabbatTable loads the full Saturday-keyed window table.
func (s *Store) ShabbatTable(ctx context.Context) (engine.ShabbatTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT saturday_date, candles, havdalah FROM shabbat_times")
	if err != nil {
		return nil, fmt.Errorf("failed to query shabbat times: %w", err)
	}
	defer rows.Close()

	table := engine.ShabbatTable{}
	for rows.Next() {
		var date, candles, havdalah string
		if err := rows.Scan(&date, &candles, &havdalah); err != nil {
			return nil, err
		}
		table[date] = engine.ShabbatWindow{Candles: candles, Havdalah: havdalah}
	}
	return table, rows.Err()
}

// =============================================================================
// STANDBY RATES
// =============================================================================

// SaveStandbyRate inserts a rate row.
func (s *Store) SaveStandbyRate(ctx context.Context, r engine.StandbyRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var aptType any
	if r.ApartmentTypeID != nil {
		aptType = *r.ApartmentTypeID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO standby_rates (segment_id, apartment_type_id, marital_status, priority, amount_agorot)
		 VALUES (?, ?, ?, ?, ?)`,
		r.TemplateID, aptType, r.MaritalStatus, r.Priority, shekelsToAgorot(r.Amount))
	return err
}

// StandbyRates returns every rate row; resolution order is the
// engine's concern.
func (s *Store) StandbyRates(ctx context.Context) ([]engine.StandbyRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT segment_id, apartment_type_id, marital_status, priority, amount_agorot FROM standby_rates",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query standby rates: %w", err)
	}
	defer rows.Close()

	var rates []engine.StandbyRate
	for rows.Next() {
		var r engine.StandbyRate
		var aptType sql.NullInt64
		var agorot int64
		if err := rows.Scan(&r.TemplateID, &aptType, &r.MaritalStatus, &r.Priority, &agorot); err != nil {
			return nil, err
		}
		if aptType.Valid {
			v := aptType.Int64
			r.ApartmentTypeID = &v
		}
		r.Amount = agorotToShekels(agorot)
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

// =============================================================================
// MINIMUM WAGE
// =============================================================================

// SaveMinimumWage upserts the hourly minimum for a month.
func (s *Store) SaveMinimumWage(ctx context.Context, year int, month time.Month, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO minimum_wages (year, month, amount_agorot)
		VALUES (?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET amount_agorot = excluded.amount_agorot
	`
	_, err := s.db.ExecContext(ctx, query, year, int(month), shekelsToAgorot(amount))
	return err
}

// MinimumWage returns the most recent hourly minimum effective at or
// before the given month, or zero when no row that old exists (the
// engine falls back to its default).
func (s *Store) MinimumWage(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var agorot int64
	err := s.db.QueryRowContext(ctx, `
		SELECT amount_agorot FROM minimum_wages
		WHERE year < ? OR (year = ? AND month <= ?)
		ORDER BY year DESC, month DESC
		LIMIT 1
	`, year, year, int(month)).Scan(&agorot)

	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load minimum wage: %w", err)
	}
	return agorotToShekels(agorot), nil
}

// =============================================================================
// PAYMENT COMPONENTS
// =============================================================================

// SavePaymentComponent inserts an extra pay row.
func (s *Store) SavePaymentComponent(ctx context.Context, c engine.PaymentComponent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_components (person_id, date, component_type_id, amount_agorot)
		 VALUES (?, ?, ?, ?)`,
		c.PersonID, c.Date.Format("2006-01-02"), c.ComponentTypeID, shekelsToAgorot(c.Amount))
	return err
}

// PaymentComponents returns one person's extra pay rows for a month.
func (s *Store) PaymentComponents(ctx context.Context, personID int64, year int, month time.Month) ([]engine.PaymentComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first, last := monthBounds(year, month)
	query := `
		SELECT person_id, date, component_type_id, amount_agorot
		FROM payment_components
		WHERE person_id = ? AND date >= ? AND date <= ?
	`
	return s.queryComponents(ctx, query, personID, first, last)
}

// AllPaymentComponents returns every extra pay row in a month.
func (s *Store) AllPaymentComponents(ctx context.Context, year int, month time.Month) ([]engine.PaymentComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first, last := monthBounds(year, month)
	query := `
		SELECT person_id, date, component_type_id, amount_agorot
		FROM payment_components
		WHERE date >= ? AND date <= ?
	`
	return s.queryComponents(ctx, query, first, last)
}

func (s *Store) queryComponents(ctx context.Context, query string, args ...any) ([]engine.PaymentComponent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment components: %w", err)
	}
	defer rows.Close()

	var components []engine.PaymentComponent
	for rows.Next() {
		var c engine.PaymentComponent
		var date string
		var agorot int64
		if err := rows.Scan(&c.PersonID, &date, &c.ComponentTypeID, &agorot); err != nil {
			return nil, err
		}
		c.Date, _ = time.Parse("2006-01-02", date)
		c.Amount = agorotToShekels(agorot)
		components = append(components, c)
	}
	return components, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"payment_components", "minimum_wages", "standby_rates", "shabbat_times",
		"time_reports", "shift_segments", "shift_types", "people", "apartments", "apartment_types",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func monthBounds(year int, month time.Month) (string, string) {
	first := calendar.NewDate(year, month, 1)
	last := first.AddDays(daysInMonth(year, month) - 1)
	return first.String(), last.String()
}

func daysInMonth(year int, month time.Month) int {
	return calendar.NewDate(year, month+1, 0).Day()
}

func parseDate(v sql.NullString) calendar.Date {
	if !v.Valid || v.String == "" {
		return calendar.Date{}
	}
	t, err := time.Parse("2006-01-02", v.String)
	if err != nil {
		return calendar.Date{}
	}
	return calendar.NewDate(t.Year(), t.Month(), t.Day())
}

func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
