package pickers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/datepicker/internal/apperror"
	"github.com/keyxmakerx/datepicker/internal/calendar"
)

// WidgetRepository defines persistence operations for widgets and their
// date lists.
type WidgetRepository interface {
	Create(ctx context.Context, w *Widget) error
	FindByID(ctx context.Context, id string) (*Widget, error)
	List(ctx context.Context, opts ListOptions) ([]Widget, int, error)
	Update(ctx context.Context, w *Widget) error
	Delete(ctx context.Context, id string) error

	// AddDates inserts date entries of one kind, replacing the label of
	// dates already present.
	AddDates(ctx context.Context, widgetID, kind string, entries []DateEntry) error
}

// widgetRepo is the MariaDB implementation of WidgetRepository.
type widgetRepo struct {
	db *sql.DB
}

// NewWidgetRepository creates a new MariaDB-backed widget repository.
func NewWidgetRepository(db *sql.DB) WidgetRepository {
	return &widgetRepo{db: db}
}

// widgetCols is the column list for widget queries.
const widgetCols = `id, name, mode, start_of_week, weekends, format, separator_override,
        disable_past, disable_today, disable_future, min_date, max_date,
        fixed_range_length, skip_disabled, allow_fewer, lock_view, blocked_weekdays,
        created_at, updated_at`

// scanWidget reads a row into a Widget struct. Date lists are loaded
// separately.
func scanWidget(scanner interface{ Scan(...any) error }) (*Widget, error) {
	w := &Widget{}
	var (
		weekends, blocked sql.NullString
		minDate, maxDate  sql.NullTime
	)
	err := scanner.Scan(&w.ID, &w.Name, &w.Mode, &w.StartOfWeek, &weekends, &w.Format, &w.Separator,
		&w.DisablePast, &w.DisableToday, &w.DisableFuture, &minDate, &maxDate,
		&w.FixedRangeLength, &w.SkipDisabled, &w.AllowFewer, &w.LockView, &blocked,
		&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if w.Weekends, err = decodeIntList(weekends); err != nil {
		return nil, fmt.Errorf("decoding weekends of widget %s: %w", w.ID, err)
	}
	if w.BlockedWeekdays, err = decodeIntList(blocked); err != nil {
		return nil, fmt.Errorf("decoding blocked weekdays of widget %s: %w", w.ID, err)
	}
	w.MinDate = dateFromNull(minDate)
	w.MaxDate = dateFromNull(maxDate)
	return w, nil
}

// Create inserts a new widget and its date lists in one transaction.
func (r *widgetRepo) Create(ctx context.Context, w *Widget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	weekends, blocked, err := encodeLists(w)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO picker_widgets (id, name, mode, start_of_week, weekends, format, separator_override,
		        disable_past, disable_today, disable_future, min_date, max_date,
		        fixed_range_length, skip_disabled, allow_fewer, lock_view, blocked_weekdays)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, string(w.Mode), w.StartOfWeek, weekends, w.Format, w.Separator,
		w.DisablePast, w.DisableToday, w.DisableFuture, nullDate(w.MinDate), nullDate(w.MaxDate),
		w.FixedRangeLength, w.SkipDisabled, w.AllowFewer, w.LockView, blocked,
	); err != nil {
		return err
	}
	if err := replaceDates(ctx, tx, w); err != nil {
		return err
	}
	return tx.Commit()
}

// FindByID returns a widget with its date lists loaded.
func (r *widgetRepo) FindByID(ctx context.Context, id string) (*Widget, error) {
	w, err := scanWidget(r.db.QueryRowContext(ctx,
		`SELECT `+widgetCols+` FROM picker_widgets WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("widget not found")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadDates(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// List returns a page of widgets, newest first, without date lists, plus
// the total count.
func (r *widgetRepo) List(ctx context.Context, opts ListOptions) ([]Widget, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM picker_widgets`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+widgetCols+` FROM picker_widgets
		 ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, opts.PerPage, opts.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var widgets []Widget
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, 0, err
		}
		widgets = append(widgets, *w)
	}
	return widgets, total, rows.Err()
}

// Update modifies a widget's settings and replaces its date lists.
func (r *widgetRepo) Update(ctx context.Context, w *Widget) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	weekends, blocked, err := encodeLists(w)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE picker_widgets SET name = ?, mode = ?, start_of_week = ?, weekends = ?, format = ?,
		        separator_override = ?, disable_past = ?, disable_today = ?, disable_future = ?,
		        min_date = ?, max_date = ?, fixed_range_length = ?, skip_disabled = ?,
		        allow_fewer = ?, lock_view = ?, blocked_weekdays = ?
		 WHERE id = ?`,
		w.Name, string(w.Mode), w.StartOfWeek, weekends, w.Format,
		w.Separator, w.DisablePast, w.DisableToday, w.DisableFuture,
		nullDate(w.MinDate), nullDate(w.MaxDate), w.FixedRangeLength, w.SkipDisabled,
		w.AllowFewer, w.LockView, blocked, w.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MariaDB reports 0 for unchanged rows too, so confirm existence.
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM picker_widgets WHERE id = ?`, w.ID).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
			return apperror.NewNotFound("widget not found")
		}
	}
	if err := replaceDates(ctx, tx, w); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a widget; its date lists go with it via the FK cascade.
func (r *widgetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM picker_widgets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NewNotFound("widget not found")
	}
	return nil
}

// AddDates upserts date entries of one kind.
func (r *widgetRepo) AddDates(ctx context.Context, widgetID, kind string, entries []DateEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO picker_widget_dates (widget_id, kind, date, label)
			 VALUES (?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE label = VALUES(label)`,
			widgetID, kind, e.Date.String(), e.Label,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// loadDates fills the highlight and blocked lists of w.
func (r *widgetRepo) loadDates(ctx context.Context, w *Widget) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, date, label FROM picker_widget_dates
		 WHERE widget_id = ? ORDER BY date`, w.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind, label string
			date        time.Time
		)
		if err := rows.Scan(&kind, &date, &label); err != nil {
			return err
		}
		entry := DateEntry{Date: calendar.FromTime(date), Label: label}
		switch kind {
		case DateKindHighlight:
			w.Highlights = append(w.Highlights, entry)
		case DateKindBlocked:
			w.BlockedDates = append(w.BlockedDates, entry)
		}
	}
	return rows.Err()
}

// replaceDates rewrites both date lists of w inside tx.
func replaceDates(ctx context.Context, tx *sql.Tx, w *Widget) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM picker_widget_dates WHERE widget_id = ?`, w.ID); err != nil {
		return err
	}
	lists := []struct {
		kind    string
		entries []DateEntry
	}{
		{DateKindHighlight, w.Highlights},
		{DateKindBlocked, w.BlockedDates},
	}
	for _, l := range lists {
		for _, e := range l.entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO picker_widget_dates (widget_id, kind, date, label) VALUES (?, ?, ?, ?)`,
				w.ID, l.kind, e.Date.String(), e.Label,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- Column helpers ---

func encodeLists(w *Widget) (weekends, blocked sql.NullString, err error) {
	if weekends, err = encodeIntList(w.Weekends); err != nil {
		return
	}
	blocked, err = encodeIntList(w.BlockedWeekdays)
	return
}

// encodeIntList stores nil as SQL NULL and anything else as a JSON array.
func encodeIntList(v []int) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeIntList(s sql.NullString) ([]int, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var out []int
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullDate(d *calendar.DateKey) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func dateFromNull(t sql.NullTime) *calendar.DateKey {
	if !t.Valid {
		return nil
	}
	d := calendar.FromTime(t.Time)
	return &d
}
