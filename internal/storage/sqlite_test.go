package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/rocket-lander/internal/lander/flight"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func landing(id, world string, level, score int, velocity float64) flight.Record {
	return flight.Record{
		FlightID:        id,
		World:           world,
		LevelNumber:     level,
		Score:           score,
		FuelRemaining:   40,
		LandingVelocity: velocity,
		LateralOffset:   0.5,
	}
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreSaveAndRank(t *testing.T) {
	store := openTestStore(t)

	recs := []flight.Record{
		landing("a", "earth", 1, 180, 2),
		landing("b", "earth", 1, 245, 0.5),
		landing("c", "earth", 2, 300, 1),
		landing("d", "moon", 1, 500, 1),
	}
	for _, rec := range recs {
		if err := store.RecordFlight(rec); err != nil {
			t.Fatalf("RecordFlight(%s) failed: %v", rec.FlightID, err)
		}
	}

	top, err := store.TopLandings("earth", 1, 10)
	if err != nil {
		t.Fatalf("TopLandings() failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 landings for earth/1, got %d", len(top))
	}
	if top[0].FlightID != "b" || top[0].Score != 245 || top[1].Score != 180 {
		t.Errorf("ranking = %+v", top)
	}
	if top[0].Velocity != 0.5 || top[0].FuelRemaining != 40 || top[0].LateralOffset != 0.5 {
		t.Errorf("landing fields = %+v", top[0])
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("created_at should be populated")
	}

	world, err := store.TopLandings("earth", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(world) != 3 || world[0].Score != 300 {
		t.Errorf("earth landings = %+v", world)
	}

	all, err := store.TopLandings("", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].World != "moon" {
		t.Errorf("top overall = %+v", all)
	}
}

func TestStoreRejectsDuplicateFlight(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveLanding(landing("same", "mars", 1, 100, 1)); err != nil {
		t.Fatal(err)
	}
	_, err := store.SaveLanding(landing("same", "mars", 1, 900, 1))
	if !errors.Is(err, ErrDuplicateFlight) {
		t.Errorf("second save error = %v, expected ErrDuplicateFlight", err)
	}

	high, err := store.HighScore("mars", 1)
	if err != nil {
		t.Fatal(err)
	}
	if high != 100 {
		t.Errorf("HighScore = %d, expected the first record to stand", high)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("asteroids", 3)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("empty level high score = %d, expected 0", high)
	}

	store.RecordFlight(landing("x", "asteroids", 3, 120, 1))
	store.RecordFlight(landing("y", "asteroids", 3, 210, 1))
	store.RecordFlight(landing("z", "asteroids", 2, 999, 1))

	if high, _ = store.HighScore("asteroids", 3); high != 210 {
		t.Errorf("HighScore = %d, expected 210", high)
	}
}

func TestStoreClearLandings(t *testing.T) {
	store := openTestStore(t)
	store.RecordFlight(landing("a", "earth", 1, 100, 1))
	store.RecordFlight(landing("b", "moon", 1, 100, 1))

	if err := store.ClearLandings("earth"); err != nil {
		t.Fatalf("ClearLandings() failed: %v", err)
	}
	if top, _ := store.TopLandings("earth", 0, 10); len(top) != 0 {
		t.Errorf("earth should be empty, got %d", len(top))
	}
	if top, _ := store.TopLandings("moon", 0, 10); len(top) != 1 {
		t.Errorf("moon should be untouched, got %d", len(top))
	}

	if err := store.ClearLandings(""); err != nil {
		t.Fatal(err)
	}
	if top, _ := store.TopLandings("", 0, 10); len(top) != 0 {
		t.Errorf("clearing every world left %d rows", len(top))
	}
}

func TestStoreWorldStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.WorldStats("mars")
	if err != nil {
		t.Fatalf("WorldStats() failed: %v", err)
	}
	if empty.Landings != 0 || !empty.LastLanded.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.RecordFlight(landing("a", "mars", 1, 100, 3))
	store.RecordFlight(landing("b", "mars", 1, 200, 1.5))
	store.RecordFlight(landing("c", "mars", 2, 300, 2))
	store.RecordFlight(landing("d", "earth", 1, 50, 4))

	ws, err := store.WorldStats("mars")
	if err != nil {
		t.Fatal(err)
	}
	if ws.Landings != 3 || ws.LevelsLanded != 2 || ws.HighScore != 300 || ws.TotalScore != 600 {
		t.Errorf("mars stats = %+v", ws)
	}
	if ws.AvgScore != 200 || ws.BestVelocity != 1.5 {
		t.Errorf("mars avg=%v best velocity=%v", ws.AvgScore, ws.BestVelocity)
	}

	all, err := store.AllWorldStats()
	if err != nil {
		t.Fatalf("AllWorldStats() failed: %v", err)
	}
	if len(all) != 2 || all["earth"].Landings != 1 || all["mars"].HighScore != 300 {
		t.Errorf("all stats = %v", all)
	}
}
