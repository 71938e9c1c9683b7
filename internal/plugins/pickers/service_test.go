package pickers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/datepicker/internal/apperror"
	"github.com/keyxmakerx/datepicker/internal/calendar"
	"github.com/keyxmakerx/datepicker/internal/config"
	"github.com/keyxmakerx/datepicker/internal/events"
)

// --- Mock Repository ---

// mockWidgetRepo implements WidgetRepository for testing.
type mockWidgetRepo struct {
	createFn   func(ctx context.Context, w *Widget) error
	findByIDFn func(ctx context.Context, id string) (*Widget, error)
	listFn     func(ctx context.Context, opts ListOptions) ([]Widget, int, error)
	updateFn   func(ctx context.Context, w *Widget) error
	deleteFn   func(ctx context.Context, id string) error
	addDatesFn func(ctx context.Context, widgetID, kind string, entries []DateEntry) error
}

func (m *mockWidgetRepo) Create(ctx context.Context, w *Widget) error {
	if m.createFn != nil {
		return m.createFn(ctx, w)
	}
	return nil
}

func (m *mockWidgetRepo) FindByID(ctx context.Context, id string) (*Widget, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("widget not found")
}

func (m *mockWidgetRepo) List(ctx context.Context, opts ListOptions) ([]Widget, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts)
	}
	return nil, 0, nil
}

func (m *mockWidgetRepo) Update(ctx context.Context, w *Widget) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, w)
	}
	return nil
}

func (m *mockWidgetRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWidgetRepo) AddDates(ctx context.Context, widgetID, kind string, entries []DateEntry) error {
	if m.addDatesFn != nil {
		return m.addDatesFn(ctx, widgetID, kind, entries)
	}
	return nil
}

// --- Recording Publisher ---

type recordingPublisher struct {
	events []events.ChangeEvent
	err    error
}

func (p *recordingPublisher) PublishChange(_ context.Context, ev events.ChangeEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// --- Test Helpers ---

// fixedNow is Friday 15 January 2021, midday UTC.
var fixedNow = time.Date(2021, time.January, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc *pickerService
	pub *recordingPublisher
	mr  *miniredis.Miniredis
}

// newTestService creates a pickerService with a mock repo, a miniredis
// session store, a recording publisher and a fixed clock.
func newTestService(t *testing.T, repo *mockWidgetRepo) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	pub := &recordingPublisher{}
	svc := NewPickerService(repo, NewSessionStore(rdb, time.Hour), pub, config.PickerConfig{
		DefaultFormat:      "DD-MM-YYYY",
		DefaultStartOfWeek: 1,
		Location:           time.UTC,
	}).(*pickerService)
	svc.now = func() time.Time { return fixedNow }
	return &testEnv{svc: svc, pub: pub, mr: mr}
}

// repoWith returns a repo whose FindByID serves w.
func repoWith(w *Widget) *mockWidgetRepo {
	return &mockWidgetRepo{
		findByIDFn: func(ctx context.Context, id string) (*Widget, error) {
			if id != w.ID {
				return nil, apperror.NewNotFound("widget not found")
			}
			cp := *w
			return &cp, nil
		},
	}
}

func testWidget(mode calendar.Mode) *Widget {
	return &Widget{
		ID:          "w-1",
		Name:        "Booking",
		Mode:        mode,
		StartOfWeek: 1,
		Format:      "DD-MM-YYYY",
	}
}

// assertAppError checks that err is an *apperror.AppError with the expected code.
func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", expectedCode)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

func formatted(c *calendar.Change) []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		out = append(out, v.Formatted)
	}
	return out
}

func findCell(t *testing.T, g *calendar.DayGrid, date string) calendar.DayCell {
	t.Helper()
	for _, c := range g.Cells() {
		if c.Date.String() == date {
			return c
		}
	}
	t.Fatalf("date %s not in grid", date)
	return calendar.DayCell{}
}

func intPtr(i int) *int { return &i }

// --- Widget Tests ---

func TestCreateWidget_Success(t *testing.T) {
	var stored *Widget
	env := newTestService(t, &mockWidgetRepo{
		createFn: func(ctx context.Context, w *Widget) error {
			stored = w
			return nil
		},
	})

	w, err := env.svc.CreateWidget(context.Background(), WidgetInput{
		Name:             "  <b>Room</b>   booking ",
		Mode:             "fixed_range",
		FixedRangeLength: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID == "" {
		t.Error("expected ID to be generated")
	}
	if w.Name != "Room booking" {
		t.Errorf("expected sanitized name, got %q", w.Name)
	}
	if w.Format != "DD-MM-YYYY" {
		t.Errorf("expected default format, got %q", w.Format)
	}
	if w.StartOfWeek != 1 {
		t.Errorf("expected default start of week 1, got %d", w.StartOfWeek)
	}
	if stored != w {
		t.Error("expected the created widget to be stored")
	}
}

func TestCreateWidget_ExplicitStartOfWeekZero(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{})
	w, err := env.svc.CreateWidget(context.Background(), WidgetInput{Name: "x", StartOfWeek: intPtr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.StartOfWeek != 0 {
		t.Errorf("expected start of week 0, got %d", w.StartOfWeek)
	}
}

func TestCreateWidget_ValidationErrors(t *testing.T) {
	cases := map[string]WidgetInput{
		"missing name":         {Name: "  "},
		"unknown mode":         {Name: "x", Mode: "weekly"},
		"fixed without length": {Name: "x", Mode: "fixed_range"},
		"bad format":           {Name: "x", Format: "YYYY/MM"},
		"start of week":        {Name: "x", StartOfWeek: intPtr(7)},
		"weekend index":        {Name: "x", Weekends: []int{9}},
		"blocked weekday":      {Name: "x", BlockedWeekdays: []int{-1}},
		"bad min date":         {Name: "x", MinDate: "2021-02-30"},
		"min after max":        {Name: "x", MinDate: "2021-03-01", MaxDate: "2021-02-01"},
		"bad highlight":        {Name: "x", Highlights: []DateEntryInput{{Date: "tomorrow"}}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			env := newTestService(t, &mockWidgetRepo{
				createFn: func(ctx context.Context, w *Widget) error {
					t.Error("create should not be called")
					return nil
				},
			})
			_, err := env.svc.CreateWidget(context.Background(), input)
			assertAppError(t, err, http.StatusUnprocessableEntity)
		})
	}
}

func TestCreateWidget_DedupesDateEntries(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{})
	w, err := env.svc.CreateWidget(context.Background(), WidgetInput{
		Name: "x",
		Highlights: []DateEntryInput{
			{Date: "2021-01-01", Label: "first"},
			{Date: "2021-01-06", Label: "Epiphany"},
			{Date: "2021-01-01", Label: "New Year"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Highlights) != 2 {
		t.Fatalf("expected 2 highlights, got %d", len(w.Highlights))
	}
	if w.Highlights[0].Label != "New Year" {
		t.Errorf("expected last label to win, got %q", w.Highlights[0].Label)
	}
}

func TestCreateWidget_RepoError(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{
		createFn: func(ctx context.Context, w *Widget) error {
			return errors.New("db down")
		},
	})
	if _, err := env.svc.CreateWidget(context.Background(), WidgetInput{Name: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpdateWidget_NotFound(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{})
	_, err := env.svc.UpdateWidget(context.Background(), "missing", WidgetInput{Name: "x"})
	assertAppError(t, err, http.StatusNotFound)
}

func TestUpdateWidget_KeepsIdentity(t *testing.T) {
	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := testWidget(calendar.ModeSingle)
	existing.CreatedAt = created
	repo := repoWith(existing)
	var updated *Widget
	repo.updateFn = func(ctx context.Context, w *Widget) error {
		updated = w
		return nil
	}
	env := newTestService(t, repo)

	w, err := env.svc.UpdateWidget(context.Background(), "w-1", WidgetInput{Name: "Renamed", Mode: "multi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil || updated.ID != "w-1" {
		t.Fatalf("expected update of w-1, got %+v", updated)
	}
	if !w.CreatedAt.Equal(created) {
		t.Errorf("expected created_at kept, got %v", w.CreatedAt)
	}
	if w.Mode != calendar.ModeMulti || w.Name != "Renamed" {
		t.Errorf("unexpected widget %+v", w)
	}
}

func TestListWidgets_NormalizesPaging(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{
		listFn: func(ctx context.Context, opts ListOptions) ([]Widget, int, error) {
			if opts.Page != 1 || opts.PerPage != 25 {
				t.Errorf("expected page 1 of 25, got %+v", opts)
			}
			return []Widget{{ID: "a"}}, 1, nil
		},
	})
	widgets, total, err := env.svc.ListWidgets(context.Background(), ListOptions{Page: -3, PerPage: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(widgets) != 1 {
		t.Errorf("expected one widget, got %d of %d", len(widgets), total)
	}
}

func TestDeleteWidget_PassesNotFoundThrough(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{
		deleteFn: func(ctx context.Context, id string) error {
			return apperror.NewNotFound("widget not found")
		},
	})
	assertAppError(t, env.svc.DeleteWidget(context.Background(), "x"), http.StatusNotFound)
}

func TestImportHighlights_AddsParsedDates(t *testing.T) {
	repo := repoWith(testWidget(calendar.ModeSingle))
	var got []DateEntry
	repo.addDatesFn = func(ctx context.Context, widgetID, kind string, entries []DateEntry) error {
		if kind != DateKindHighlight {
			t.Errorf("expected highlight kind, got %q", kind)
		}
		got = entries
		return nil
	}
	env := newTestService(t, repo)

	n, err := env.svc.ImportHighlights(context.Background(), "w-1", strings.NewReader(sampleICS))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 || len(got) != 3 {
		t.Fatalf("expected 3 dates, got %d (%d stored)", n, len(got))
	}
}

func TestImportHighlights_UnknownWidget(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{})
	_, err := env.svc.ImportHighlights(context.Background(), "nope", strings.NewReader(sampleICS))
	assertAppError(t, err, http.StatusNotFound)
}

// --- Session Tests ---

func TestOpenSession_SingleDefaultsToToday(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))

	v, err := env.svc.OpenSession(context.Background(), "w-1", SessionInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Token == "" {
		t.Fatal("expected a session token")
	}
	if !env.mr.Exists(sessionKeyPrefix + v.Token) {
		t.Error("expected session stored in Redis")
	}
	if got := formatted(v.Value); len(got) != 1 || got[0] != "15-01-2021" {
		t.Errorf("expected today selected, got %v", got)
	}
	if v.Header.Label != "January 2021" {
		t.Errorf("expected January 2021, got %q", v.Header.Label)
	}
	if v.Days == nil || v.Months != nil || v.Years != nil {
		t.Fatal("expected only the day grid")
	}
	if !findCell(t, v.Days, "2021-01-15").IsToday {
		t.Error("expected 15th marked today")
	}
	if v.WeekdayHeader[0].Label != "Mo" {
		t.Errorf("expected Monday first, got %q", v.WeekdayHeader[0].Label)
	}
}

func TestOpenSession_SeedsSelectionAndView(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeFreeRange)))

	v, err := env.svc.OpenSession(context.Background(), "w-1", SessionInput{
		RangeStart:  "2021-03-20",
		RangeEnd:    "2021-03-10",
		InitialView: "2021-03-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := formatted(v.Value); len(got) != 2 || got[0] != "10-03-2021" || got[1] != "20-03-2021" {
		t.Errorf("expected ordered range, got %v", got)
	}
	if v.Header.Month != 2 {
		t.Errorf("expected March in view, got month %d", v.Header.Month)
	}
}

func TestOpenSession_InvalidInput(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))
	_, err := env.svc.OpenSession(context.Background(), "w-1", SessionInput{Date: "2021-13-01"})
	assertAppError(t, err, http.StatusUnprocessableEntity)

	_, err = env.svc.OpenSession(context.Background(), "w-1", SessionInput{Dates: []string{"2021-01-01"}})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestOpenSession_UnknownWidget(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{})
	_, err := env.svc.OpenSession(context.Background(), "nope", SessionInput{})
	assertAppError(t, err, http.StatusNotFound)
}

func TestOpenSession_LabelsInView(t *testing.T) {
	w := testWidget(calendar.ModeSingle)
	w.Highlights = []DateEntry{
		{Date: calendar.NewDateKey(2021, 0, 1), Label: "New Year"},
		{Date: calendar.NewDateKey(2021, 6, 4), Label: "Far away"},
	}
	env := newTestService(t, repoWith(w))

	v, err := env.svc.OpenSession(context.Background(), "w-1", SessionInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Labels["2021-01-01"] != "New Year" {
		t.Errorf("expected label for Jan 1, got %v", v.Labels)
	}
	if _, ok := v.Labels["2021-07-04"]; ok {
		t.Error("expected labels outside the grid to be left out")
	}
	if !findCell(t, v.Days, "2021-01-01").IsHighlighted {
		t.Error("expected Jan 1 highlighted")
	}
}

func TestGetSession_Expired(t *testing.T) {
	env := newTestService(t, &mockWidgetRepo{})
	_, err := env.svc.GetSession(context.Background(), "no-such-token")
	assertAppError(t, err, http.StatusNotFound)
}

func TestClick_RequiresISODate(t *testing.T) {
	repo := repoWith(testWidget(calendar.ModeSingle))
	env := newTestService(t, repo)
	v, err := env.svc.OpenSession(context.Background(), "w-1", SessionInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.findByIDFn = func(ctx context.Context, id string) (*Widget, error) {
		t.Error("session reads should not load the widget")
		return nil, nil
	}
	got, err := env.svc.GetSession(context.Background(), v.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WidgetName != "Booking" {
		t.Errorf("expected widget name from copy, got %q", got.WidgetName)
	}
}

func TestClick_SingleCommitsAndPublishes(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	v, err := env.svc.Click(ctx, open.Token, "2021-01-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Outcome != calendar.OutcomeCommitted {
		t.Fatalf("expected committed, got %q", v.Outcome)
	}
	if got := formatted(v.Change); len(got) != 1 || got[0] != "20-01-2021" {
		t.Errorf("unexpected change %v", got)
	}
	if len(env.pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(env.pub.events))
	}
	ev := env.pub.events[0]
	if ev.WidgetID != "w-1" || ev.SessionToken != open.Token {
		t.Errorf("unexpected event %+v", ev)
	}

	again, err := env.svc.GetSession(ctx, open.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := formatted(again.Value); got[0] != "20-01-2021" {
		t.Errorf("expected selection persisted, got %v", got)
	}
}

func TestClick_DisabledDatesIgnored(t *testing.T) {
	w := testWidget(calendar.ModeSingle)
	w.DisablePast = true
	w.BlockedWeekdays = []int{0}
	w.BlockedDates = []DateEntry{{Date: calendar.NewDateKey(2021, 0, 22), Label: "Closed"}}
	env := newTestService(t, repoWith(w))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	for _, date := range []string{"2021-01-10", "2021-01-17", "2021-01-22"} {
		v, err := env.svc.Click(ctx, open.Token, date)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Outcome != calendar.OutcomeIgnored {
			t.Errorf("%s: expected ignored, got %q", date, v.Outcome)
		}
	}
	if len(env.pub.events) != 0 {
		t.Errorf("expected no events, got %d", len(env.pub.events))
	}

	v, _ := env.svc.GetSession(ctx, open.Token)
	if !findCell(t, v.Days, "2021-01-17").IsDisabled {
		t.Error("expected Sunday disabled")
	}
	if v.Labels["2021-01-22"] != "Closed" {
		t.Errorf("expected blocked label, got %v", v.Labels)
	}
}

func TestClick_InvalidDate(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))
	open, _ := env.svc.OpenSession(context.Background(), "w-1", SessionInput{})
	_, err := env.svc.Click(context.Background(), open.Token, "20/01/2021")
	assertAppError(t, err, http.StatusBadRequest)
}

func TestClick_FreeRangeArmHoverCommit(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeFreeRange)))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	v, err := env.svc.Click(ctx, open.Token, "2021-01-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Outcome != calendar.OutcomeArmed || !v.Armed {
		t.Fatalf("expected armed, got %q", v.Outcome)
	}

	v, err = env.svc.Hover(ctx, open.Token, "2021-01-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !findCell(t, v.Days, "2021-01-22").IsInRange {
		t.Error("expected preview to cover the 22nd")
	}

	v, err = env.svc.Click(ctx, open.Token, "2021-01-18")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Outcome != calendar.OutcomeCommitted {
		t.Fatalf("expected committed, got %q", v.Outcome)
	}
	if got := formatted(v.Change); len(got) != 2 || got[0] != "18-01-2021" || got[1] != "20-01-2021" {
		t.Errorf("expected 18..20, got %v", got)
	}
	if len(env.pub.events) != 1 {
		t.Errorf("expected only the commit published, got %d", len(env.pub.events))
	}
}

func TestClick_FixedRangeRejected(t *testing.T) {
	w := testWidget(calendar.ModeFixedRange)
	w.FixedRangeLength = 5
	w.DisableFuture = true
	env := newTestService(t, repoWith(w))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	v, err := env.svc.Click(ctx, open.Token, "2021-01-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Outcome != calendar.OutcomeRejected {
		t.Fatalf("expected rejected, got %q", v.Outcome)
	}
	if v.Value != nil {
		t.Errorf("expected no selection, got %v", formatted(v.Value))
	}
	if len(env.pub.events) != 0 {
		t.Error("expected nothing published")
	}
}

func TestClick_PublishFailureStillCommits(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeMulti)))
	env.pub.err = errors.New("broker down")
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	v, err := env.svc.Click(ctx, open.Token, "2021-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Outcome != calendar.OutcomeCommitted {
		t.Errorf("expected committed, got %q", v.Outcome)
	}
}

func TestNavigate_Actions(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})
	tok := open.Token

	v, err := env.svc.Navigate(ctx, tok, NavNext, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Header.Label != "February 2021" {
		t.Errorf("expected February 2021, got %q", v.Header.Label)
	}

	v, _ = env.svc.Navigate(ctx, tok, NavYears, 0)
	if v.Years == nil || v.Header.Label != "2021 - 2040" {
		t.Errorf("expected years view 2021 - 2040, got %q", v.Header.Label)
	}

	v, _ = env.svc.Navigate(ctx, tok, NavYear, 2030)
	if v.View != calendar.ViewMonths || v.Months == nil {
		t.Fatalf("expected months view, got %q", v.View)
	}

	v, _ = env.svc.Navigate(ctx, tok, NavMonth, 5)
	if v.View != calendar.ViewDays || v.Header.Label != "June 2030" {
		t.Errorf("expected June 2030, got %q", v.Header.Label)
	}

	_, err = env.svc.Navigate(ctx, tok, NavMonth, 12)
	assertAppError(t, err, http.StatusUnprocessableEntity)

	_, err = env.svc.Navigate(ctx, tok, NavAction("sideways"), 0)
	assertAppError(t, err, http.StatusBadRequest)
}

func TestNavigate_SessionBusy(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	if err := env.mr.Set(lockKeyPrefix+open.Token, "someone-else"); err != nil {
		t.Fatal(err)
	}
	_, err := env.svc.Navigate(ctx, open.Token, NavNext, 0)
	assertAppError(t, err, http.StatusConflict)
}

func TestCloseSession_RemovesIt(t *testing.T) {
	env := newTestService(t, repoWith(testWidget(calendar.ModeSingle)))
	ctx := context.Background()
	open, _ := env.svc.OpenSession(ctx, "w-1", SessionInput{})

	if err := env.svc.CloseSession(ctx, open.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := env.svc.GetSession(ctx, open.Token)
	assertAppError(t, err, http.StatusNotFound)
}
