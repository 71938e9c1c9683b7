package pickers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/keyxmakerx/datepicker/internal/apperror"
	"github.com/keyxmakerx/datepicker/internal/calendar"
	"github.com/keyxmakerx/datepicker/internal/config"
	"github.com/keyxmakerx/datepicker/internal/events"
	"github.com/keyxmakerx/datepicker/internal/sanitize"
)

// PickerService defines business logic for widgets and picker sessions.
type PickerService interface {
	// Widget CRUD.
	CreateWidget(ctx context.Context, input WidgetInput) (*Widget, error)
	GetWidget(ctx context.Context, id string) (*Widget, error)
	ListWidgets(ctx context.Context, opts ListOptions) ([]Widget, int, error)
	UpdateWidget(ctx context.Context, id string, input WidgetInput) (*Widget, error)
	DeleteWidget(ctx context.Context, id string) error

	// ImportHighlights adds the days of an iCalendar feed to a widget's
	// highlights and returns how many dates it read.
	ImportHighlights(ctx context.Context, id string, r io.Reader) (int, error)

	// Sessions.
	OpenSession(ctx context.Context, widgetID string, input SessionInput) (*SessionView, error)
	GetSession(ctx context.Context, token string) (*SessionView, error)
	Navigate(ctx context.Context, token string, action NavAction, value int) (*SessionView, error)
	Click(ctx context.Context, token, date string) (*SessionView, error)
	Hover(ctx context.Context, token, date string) (*SessionView, error)
	CloseSession(ctx context.Context, token string) error
}

// pickerService is the default PickerService implementation.
type pickerService struct {
	repo      WidgetRepository
	store     SessionStore
	publisher events.Publisher
	defaults  config.PickerConfig

	// now is the clock "today" is read from.
	now func() time.Time
}

// NewPickerService creates a PickerService. defaults fill the blanks of
// new widgets and set the timezone "today" is computed in.
func NewPickerService(repo WidgetRepository, store SessionStore, publisher events.Publisher, defaults config.PickerConfig) PickerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	if defaults.DefaultFormat == "" {
		defaults.DefaultFormat = calendar.DefaultFormat
	}
	return &pickerService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		defaults:  defaults,
		now:       time.Now,
	}
}

// today returns the current date in the configured timezone.
func (s *pickerService) today() calendar.DateKey {
	return calendar.FromTime(s.now().In(s.defaults.Location))
}

// --- Widgets ---

// CreateWidget validates the input and stores a new widget.
func (s *pickerService) CreateWidget(ctx context.Context, input WidgetInput) (*Widget, error) {
	w, err := s.buildWidget(input)
	if err != nil {
		return nil, err
	}
	w.ID = uuid.NewString()
	w.CreatedAt = s.now().UTC()
	w.UpdatedAt = w.CreatedAt

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}

	slog.Info("widget created",
		slog.String("widget_id", w.ID),
		slog.String("mode", string(w.Mode)),
	)
	return w, nil
}

// GetWidget returns a widget with its date lists.
func (s *pickerService) GetWidget(ctx context.Context, id string) (*Widget, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get widget: %w", err)
	}
	return w, nil
}

// ListWidgets returns one page of widgets and the total count.
func (s *pickerService) ListWidgets(ctx context.Context, opts ListOptions) ([]Widget, int, error) {
	widgets, total, err := s.repo.List(ctx, opts.normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list widgets: %w", err)
	}
	return widgets, total, nil
}

// UpdateWidget replaces a widget's settings and date lists. Open sessions
// keep the configuration they were opened with.
func (s *pickerService) UpdateWidget(ctx context.Context, id string, input WidgetInput) (*Widget, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get widget: %w", err)
	}

	w, err := s.buildWidget(input)
	if err != nil {
		return nil, err
	}
	w.ID = existing.ID
	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("update widget: %w", err)
	}
	return w, nil
}

// DeleteWidget removes a widget.
func (s *pickerService) DeleteWidget(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	slog.Info("widget deleted", slog.String("widget_id", id))
	return nil
}

// ImportHighlights parses an iCalendar feed into highlight dates.
func (s *pickerService) ImportHighlights(ctx context.Context, id string, r io.Reader) (int, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return 0, fmt.Errorf("get widget: %w", err)
	}

	entries, err := ParseICS(r, s.defaults.Location)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := s.repo.AddDates(ctx, id, DateKindHighlight, entries); err != nil {
		return 0, fmt.Errorf("add highlights: %w", err)
	}

	slog.Info("highlights imported",
		slog.String("widget_id", id),
		slog.Int("count", len(entries)),
	)
	return len(entries), nil
}

// buildWidget turns input into a widget and checks the engine accepts it.
func (s *pickerService) buildWidget(input WidgetInput) (*Widget, error) {
	name := sanitize.Label(input.Name, maxNameLength)
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}

	mode := calendar.Mode(input.Mode)
	if mode == "" {
		mode = calendar.ModeSingle
	}
	if !mode.Valid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unknown mode %q", input.Mode))
	}

	w := &Widget{
		Name:             name,
		Mode:             mode,
		StartOfWeek:      s.defaults.DefaultStartOfWeek,
		Weekends:         input.Weekends,
		Format:           input.Format,
		Separator:        input.Separator,
		DisablePast:      input.DisablePast,
		DisableToday:     input.DisableToday,
		DisableFuture:    input.DisableFuture,
		FixedRangeLength: input.FixedRangeLength,
		SkipDisabled:     input.SkipDisabled,
		AllowFewer:       input.AllowFewer,
		LockView:         input.LockView,
		BlockedWeekdays:  input.BlockedWeekdays,
	}
	if input.StartOfWeek != nil {
		w.StartOfWeek = *input.StartOfWeek
	}
	if w.Format == "" {
		w.Format = s.defaults.DefaultFormat
	}
	if w.Separator == "" {
		w.Separator = s.defaults.DefaultSeparator
	}
	if mode != calendar.ModeFixedRange {
		w.FixedRangeLength = 0
	}

	for _, d := range w.BlockedWeekdays {
		if d < 0 || d > 6 {
			return nil, apperror.NewValidation(fmt.Sprintf("blocked weekday %d outside 0-6", d))
		}
	}

	var err error
	if w.MinDate, err = parseOptionalDate("min_date", input.MinDate); err != nil {
		return nil, err
	}
	if w.MaxDate, err = parseOptionalDate("max_date", input.MaxDate); err != nil {
		return nil, err
	}
	if w.MinDate != nil && w.MaxDate != nil && w.MinDate.After(*w.MaxDate) {
		return nil, apperror.NewValidation("min_date must not be after max_date")
	}
	if w.Highlights, err = parseEntries("highlights", input.Highlights); err != nil {
		return nil, err
	}
	if w.BlockedDates, err = parseEntries("blocked_dates", input.BlockedDates); err != nil {
		return nil, err
	}

	if _, err := calendar.New(w.Options(s.defaults.Location), s.today()); err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	return w, nil
}

func parseOptionalDate(field, value string) (*calendar.DateKey, error) {
	if value == "" {
		return nil, nil
	}
	d, err := calendar.ParseDateKey(value)
	if err != nil {
		return nil, apperror.NewValidation(fmt.Sprintf("%s: %v", field, err))
	}
	return &d, nil
}

// parseEntries parses and de-duplicates date entries; the last label for a
// date wins.
func parseEntries(field string, in []DateEntryInput) ([]DateEntry, error) {
	if len(in) == 0 {
		return nil, nil
	}
	index := make(map[calendar.DateKey]int, len(in))
	out := make([]DateEntry, 0, len(in))
	for _, e := range in {
		d, err := calendar.ParseDateKey(e.Date)
		if err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("%s: %v", field, err))
		}
		label := sanitize.Label(e.Label, maxLabelLength)
		if i, ok := index[d]; ok {
			out[i].Label = label
			continue
		}
		index[d] = len(out)
		out = append(out, DateEntry{Date: d, Label: label})
	}
	return out, nil
}

// --- Sessions ---

// OpenSession starts a picker from a widget and stores it.
func (s *pickerService) OpenSession(ctx context.Context, widgetID string, input SessionInput) (*SessionView, error) {
	w, err := s.repo.FindByID(ctx, widgetID)
	if err != nil {
		return nil, fmt.Errorf("get widget: %w", err)
	}

	opts := w.Options(s.defaults.Location)
	if err := applySessionInput(&opts, input); err != nil {
		return nil, err
	}
	today := s.today()
	p, err := calendar.New(opts, today)
	if err != nil {
		return nil, apperror.NewValidation(err.Error())
	}

	token, err := generateToken()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating session token: %w", err))
	}
	now := s.now().UTC()
	sess := &Session{
		Token:     token,
		Widget:    *w,
		Snapshot:  p.Snapshot(),
		Theme:     input.Theme,
		Embedded:  input.Embedded,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	sessionsOpened.Inc()
	slog.Debug("picker session opened",
		slog.String("widget_id", w.ID),
		slog.String("mode", string(w.Mode)),
	)
	return s.view(sess, p, today, nil), nil
}

func applySessionInput(opts *calendar.Options, input SessionInput) error {
	var err error
	parse := func(field, value string) calendar.DateKey {
		if err != nil || value == "" {
			return calendar.DateKey{}
		}
		d, perr := calendar.ParseDateKey(value)
		if perr != nil {
			err = apperror.NewValidation(fmt.Sprintf("%s: %v", field, perr))
		}
		return d
	}

	opts.Date = parse("date", input.Date)
	opts.RangeStart = parse("range_start", input.RangeStart)
	opts.RangeEnd = parse("range_end", input.RangeEnd)
	opts.InitialView = parse("initial_view", input.InitialView)
	for _, v := range input.Dates {
		if d := parse("dates", v); d.Valid() {
			opts.Dates = append(opts.Dates, d)
		}
	}
	return err
}

// GetSession renders the current state of a session.
func (s *pickerService) GetSession(ctx context.Context, token string) (*SessionView, error) {
	sess, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	today := s.today()
	p, err := s.restore(sess, today)
	if err != nil {
		return nil, err
	}
	return s.view(sess, p, today, nil), nil
}

// Navigate moves a session's view.
func (s *pickerService) Navigate(ctx context.Context, token string, action NavAction, value int) (*SessionView, error) {
	return s.mutate(ctx, token, func(p *calendar.Picker, _ calendar.DateKey) (*calendar.ClickResult, bool, error) {
		switch action {
		case NavPrev:
			p.Prev()
		case NavNext:
			p.Next()
		case NavDays:
			p.ShowDays()
		case NavMonths:
			p.ShowMonths()
		case NavYears:
			p.ShowYears()
		case NavYear:
			if err := p.ChooseYear(value); err != nil {
				return nil, false, apperror.NewValidation(err.Error())
			}
		case NavMonth:
			if err := p.ChooseMonth(calendar.MonthIndex(value)); err != nil {
				return nil, false, apperror.NewValidation(err.Error())
			}
		default:
			return nil, false, apperror.NewBadRequest(fmt.Sprintf("unknown navigation action %q", action))
		}
		return nil, true, nil
	})
}

// Click applies a day click to a session. Committed changes are published.
func (s *pickerService) Click(ctx context.Context, token, date string) (*SessionView, error) {
	d, err := calendar.ParseDateKey(date)
	if err != nil {
		return nil, apperror.NewBadRequest(err.Error())
	}

	var widgetID string
	v, err := s.mutateSession(ctx, token, func(sess *Session, p *calendar.Picker, today calendar.DateKey) (*calendar.ClickResult, bool, error) {
		widgetID = sess.Widget.ID
		res := p.Click(d, today)
		return &res, res.Outcome != calendar.OutcomeIgnored, nil
	})
	if err != nil {
		return nil, err
	}

	mode := string(v.Mode)
	switch v.Outcome {
	case calendar.OutcomeCommitted:
		selectionsCommitted.WithLabelValues(mode).Inc()
		s.publish(ctx, token, widgetID, v.Change)
	case calendar.OutcomeRejected:
		rangesRejected.WithLabelValues(mode).Inc()
	}
	return v, nil
}

// Hover updates an armed free range's preview.
func (s *pickerService) Hover(ctx context.Context, token, date string) (*SessionView, error) {
	d, err := calendar.ParseDateKey(date)
	if err != nil {
		return nil, apperror.NewBadRequest(err.Error())
	}
	return s.mutate(ctx, token, func(p *calendar.Picker, today calendar.DateKey) (*calendar.ClickResult, bool, error) {
		return nil, p.Hover(d, today), nil
	})
}

// CloseSession discards a session.
func (s *pickerService) CloseSession(ctx context.Context, token string) error {
	if err := s.store.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type mutation func(p *calendar.Picker, today calendar.DateKey) (*calendar.ClickResult, bool, error)

type sessionMutation func(sess *Session, p *calendar.Picker, today calendar.DateKey) (*calendar.ClickResult, bool, error)

func (s *pickerService) mutate(ctx context.Context, token string, fn mutation) (*SessionView, error) {
	return s.mutateSession(ctx, token, func(_ *Session, p *calendar.Picker, today calendar.DateKey) (*calendar.ClickResult, bool, error) {
		return fn(p, today)
	})
}

// mutateSession runs fn on a session under its lock and saves the result
// when fn reports a change.
func (s *pickerService) mutateSession(ctx context.Context, token string, fn sessionMutation) (*SessionView, error) {
	unlock, err := s.store.Lock(ctx, token)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.store.Load(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	today := s.today()
	p, err := s.restore(sess, today)
	if err != nil {
		return nil, err
	}

	res, changed, err := fn(sess, p, today)
	if err != nil {
		return nil, err
	}
	if changed {
		sess.Snapshot = p.Snapshot()
		sess.UpdatedAt = s.now().UTC()
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	return s.view(sess, p, today, res), nil
}

// restore rebuilds a session's picker from its widget copy and snapshot.
func (s *pickerService) restore(sess *Session, today calendar.DateKey) (*calendar.Picker, error) {
	p, err := calendar.New(sess.Widget.Options(s.defaults.Location), today)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("rebuilding picker for session: %w", err))
	}
	if err := p.Restore(sess.Snapshot); err != nil {
		if errors.Is(err, calendar.ErrSnapshotMismatch) {
			return nil, apperror.NewConflict("picker session is corrupt, open a new one")
		}
		return nil, apperror.NewInternal(fmt.Errorf("restoring session: %w", err))
	}
	return p, nil
}

// publish sends a committed change to the broker. Failures are logged and
// counted but never fail the click.
func (s *pickerService) publish(ctx context.Context, token, widgetID string, change *calendar.Change) {
	if change == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, events.NewChangeEvent(token, widgetID, change)); err != nil {
		changePublishErrors.Inc()
		slog.Warn("failed to publish selection change",
			slog.String("widget_id", widgetID),
			slog.Any("error", err),
		)
	}
}

// view assembles the response for a session.
func (s *pickerService) view(sess *Session, p *calendar.Picker, today calendar.DateKey, res *calendar.ClickResult) *SessionView {
	timer := prometheus.NewTimer(gridBuildSeconds)
	defer timer.ObserveDuration()

	v := &SessionView{
		Token:         sess.Token,
		WidgetID:      sess.Widget.ID,
		WidgetName:    sess.Widget.Name,
		Mode:          p.Mode(),
		Today:         today,
		View:          p.View(),
		Header:        p.Header(),
		WeekdayHeader: p.WeekdayHeader(),
		Armed:         p.Armed(),
		Value:         p.Value(),
		Theme:         sess.Theme,
		Embedded:      sess.Embedded,
	}
	if res != nil {
		v.Outcome = res.Outcome
		v.Change = res.Change
	}

	switch p.View() {
	case calendar.ViewMonths:
		g := p.MonthGrid(today)
		v.Months = &g
	case calendar.ViewYears:
		g := p.YearGrid(today)
		v.Years = &g
	default:
		g := p.DayGrid(today)
		v.Days = &g
		v.Labels = dayLabels(&sess.Widget, &g)
	}
	return v
}

// dayLabels collects the labels of highlighted and blocked dates in the
// grid, keyed by YYYY-MM-DD.
func dayLabels(w *Widget, g *calendar.DayGrid) map[string]string {
	if len(w.Highlights) == 0 && len(w.BlockedDates) == 0 {
		return nil
	}
	first, last := g[0][0].Date, g[len(g)-1][len(g[0])-1].Date
	labels := make(map[string]string)
	for _, list := range [][]DateEntry{w.BlockedDates, w.Highlights} {
		for _, e := range list {
			if e.Label != "" && calendar.IsWithinRange(first, last, e.Date) {
				labels[e.Date.String()] = e.Label
			}
		}
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}
