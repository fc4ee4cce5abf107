package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func addHabit(t *testing.T, store *Store, title, created string, weekDays ...int) models.Habit {
	t.Helper()
	habit := models.Habit{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: date(created),
		WeekDays:  weekDays,
	}
	if err := store.CreateHabit(context.Background(), habit); err != nil {
		t.Fatalf("failed to add habit %q: %v", title, err)
	}
	return habit
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on a missing database should fail")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer reopened.Close()
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", reopened.GetConfigPath(), path)
	}
}

func TestHabitCreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := addHabit(t, store, "Read", "2024-01-01", 5, 1, 3)

	got, err := store.GetHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Title != "Read" {
		t.Errorf("expected title Read, got %q", got.Title)
	}
	if !got.CreatedAt.Equal(date("2024-01-01")) {
		t.Errorf("expected created_at 2024-01-01, got %v", got.CreatedAt)
	}
	if len(got.WeekDays) != 3 || got.WeekDays[0] != 1 || got.WeekDays[1] != 3 || got.WeekDays[2] != 5 {
		t.Errorf("expected week days [1 3 5], got %v", got.WeekDays)
	}

	_, err = store.GetHabit(ctx, uuid.New().String())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound for unknown habit, got %v", err)
	}
}

func TestCreateHabitIsAtomic(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// week_day 9 violates the CHECK constraint, so nothing may be persisted
	habit := models.Habit{ID: uuid.New().String(), Title: "Broken", CreatedAt: date("2024-01-01"), WeekDays: []int{1, 9}}
	if err := store.CreateHabit(ctx, habit); err == nil {
		t.Fatal("expected CreateHabit to fail")
	}

	habits, err := store.GetAllHabits(ctx)
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("expected no habits after failed create, got %d", len(habits))
	}

	var n int
	if err := store.GetDB().QueryRow("SELECT count(*) FROM habit_week_days").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("expected no schedule rows after failed create, got %d", n)
	}
}

func TestGetAllHabitsCreationOrder(t *testing.T) {
	store := setupTestStore(t)

	b := addHabit(t, store, "B", "2024-01-02", 1)
	a := addHabit(t, store, "A", "2024-01-01", 2)
	c := addHabit(t, store, "C", "2024-01-02", 3)
	none := addHabit(t, store, "Unscheduled", "2024-01-03")

	habits, err := store.GetAllHabits(context.Background())
	if err != nil {
		t.Fatalf("GetAllHabits failed: %v", err)
	}
	want := []string{a.ID, b.ID, c.ID, none.ID}
	if len(habits) != len(want) {
		t.Fatalf("expected %d habits, got %d", len(want), len(habits))
	}
	for i, id := range want {
		if habits[i].ID != id {
			t.Errorf("position %d: expected %s, got %s (%s)", i, id, habits[i].ID, habits[i].Title)
		}
	}
	if len(habits[3].WeekDays) != 0 {
		t.Errorf("expected empty schedule, got %v", habits[3].WeekDays)
	}
}

func TestGetPossibleHabits(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	read := addHabit(t, store, "Read", "2024-01-01", 1, 3, 5)
	gym := addHabit(t, store, "Gym", "2024-02-01", 1)

	tests := []struct {
		name     string
		day      string
		expected []string
	}{
		{"creation monday", "2024-01-01", []string{read.ID}},
		{"tuesday", "2024-01-02", nil},
		{"wednesday", "2024-01-03", []string{read.ID}},
		{"monday before creation", "2023-12-25", nil},
		{"monday before gym existed", "2024-01-15", []string{read.ID}},
		{"gym creation day is thursday", "2024-02-01", nil},
		{"monday after both", "2024-02-05", []string{read.ID, gym.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habits, err := store.GetPossibleHabits(ctx, date(tt.day))
			if err != nil {
				t.Fatalf("GetPossibleHabits failed: %v", err)
			}
			if len(habits) != len(tt.expected) {
				t.Fatalf("expected %d habits, got %d", len(tt.expected), len(habits))
			}
			for i, id := range tt.expected {
				if habits[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, habits[i].ID)
				}
			}
		})
	}
}

func TestGetDayNeverCreates(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetDay(ctx, date("2024-01-01"))
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}

	ids, err := store.GetCompletedHabitIDs(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatalf("GetCompletedHabitIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no completions, got %v", ids)
	}

	summary, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if len(summary) != 0 {
		t.Errorf("read queries must not materialize days, got %d", len(summary))
	}
}

func TestGetOrCreateDayIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.GetOrCreateDay(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatalf("GetOrCreateDay failed: %v", err)
	}
	second, err := store.GetOrCreateDay(ctx, time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetOrCreateDay failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same day id, got %s and %s", first.ID, second.ID)
	}

	found, err := store.GetDay(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("GetDay returned %s, want %s", found.ID, first.ID)
	}
}

func TestGetOrCreateDayConcurrent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	const workers = 16
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day, err := store.GetOrCreateDay(ctx, date("2024-03-10"))
			ids[i], errs[i] = day.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d failed: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d got day %s, want %s", i, ids[i], ids[0])
		}
	}

	var n int
	if err := store.GetDB().QueryRow("SELECT count(*) FROM days").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected exactly one day row, got %d", n)
	}
}

func TestToggleCompletion(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := addHabit(t, store, "Read", "2024-01-01", 1)
	day, err := store.GetOrCreateDay(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatalf("GetOrCreateDay failed: %v", err)
	}

	completed, err := store.ToggleCompletion(ctx, day.ID, habit.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !completed {
		t.Error("first toggle should complete the habit")
	}

	ids, _ := store.GetCompletedHabitIDs(ctx, day.Date)
	if len(ids) != 1 || ids[0] != habit.ID {
		t.Errorf("expected [%s], got %v", habit.ID, ids)
	}

	completed, err = store.ToggleCompletion(ctx, day.ID, habit.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if completed {
		t.Error("second toggle should clear the completion")
	}

	ids, _ = store.GetCompletedHabitIDs(ctx, day.Date)
	if len(ids) != 0 {
		t.Errorf("expected no completions after double toggle, got %v", ids)
	}
}

func TestToggleCompletionUnknownHabit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	day, err := store.GetOrCreateDay(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatalf("GetOrCreateDay failed: %v", err)
	}

	_, err = store.ToggleCompletion(ctx, day.ID, uuid.New().String())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected NotFound for unknown habit, got %v", err)
	}
}

func TestToggleCompletionConcurrent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	habit := addHabit(t, store, "Read", "2024-01-01", 1)
	day, err := store.GetOrCreateDay(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatalf("GetOrCreateDay failed: %v", err)
	}

	// An even number of serialized toggles always ends incomplete
	const toggles = 10
	var wg sync.WaitGroup
	errs := make(chan error, toggles)
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ToggleCompletion(ctx, day.ID, habit.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent toggle failed: %v", err)
	}

	ids, err := store.GetCompletedHabitIDs(ctx, day.Date)
	if err != nil {
		t.Fatalf("GetCompletedHabitIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no completion after %d toggles, got %v", toggles, ids)
	}
}

func TestGetSummary(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	read := addHabit(t, store, "Read", "2024-01-01", 1, 3, 5)
	walk := addHabit(t, store, "Walk", "2024-01-01", 1)
	addHabit(t, store, "Late", "2024-02-01", 1)

	monday, err := store.GetOrCreateDay(ctx, date("2024-01-01"))
	if err != nil {
		t.Fatal(err)
	}
	tuesday, err := store.GetOrCreateDay(ctx, date("2024-01-02"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.ToggleCompletion(ctx, monday.ID, read.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ToggleCompletion(ctx, monday.ID, walk.ID); err != nil {
		t.Fatal(err)
	}
	// Completion of an unscheduled habit still counts as completed
	if _, err := store.ToggleCompletion(ctx, tuesday.ID, read.ID); err != nil {
		t.Fatal(err)
	}

	summary, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(summary))
	}

	byDate := map[string]models.DaySummary{}
	for _, row := range summary {
		byDate[row.Date.Format("2006-01-02")] = row
	}

	mon := byDate["2024-01-01"]
	if mon.ID != monday.ID || mon.Possible != 2 || mon.Completed != 2 {
		t.Errorf("unexpected monday summary: %+v", mon)
	}
	tue := byDate["2024-01-02"]
	if tue.Possible != 0 || tue.Completed != 1 {
		t.Errorf("unexpected tuesday summary: %+v", tue)
	}
}
