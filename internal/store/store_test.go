package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/sreevidya/handrom/internal/landmark"
	"github.com/sreevidya/handrom/internal/rom"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func newTestSession(kind rom.AssessmentKind) *Session {
	return &Session{
		ID:   uuid.New().String(),
		Kind: kind,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	session := newTestSession(rom.AssessTAM)
	if err := repo.Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Kind != rom.AssessTAM {
		t.Errorf("kind = %s, want tam", got.Kind)
	}
	if got.Hand != landmark.HandUnknown {
		t.Errorf("hand = %s, want unknown before finalization", got.Hand)
	}
	if got.Repetitions != 1 {
		t.Errorf("repetitions = %d, want 1", got.Repetitions)
	}
	if got.Finalized() {
		t.Error("fresh session reported finalized")
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Sessions().GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_CreateRejectsUnknownKind(t *testing.T) {
	s := newTestStore(t)

	err := s.Sessions().Create(&Session{ID: uuid.New().String(), Kind: "grip_strength"})
	if err == nil {
		t.Error("expected the kind CHECK constraint to reject an unknown kind")
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	for _, kind := range []rom.AssessmentKind{rom.AssessTAM, rom.AssessKapandji, rom.AssessWristFlexExt} {
		if err := repo.Create(newTestSession(kind)); err != nil {
			t.Fatalf("Create(%s) error = %v", kind, err)
		}
	}

	sessions, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("len = %d, want 3", len(sessions))
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	session := newTestSession(rom.AssessKapandji)
	if err := repo.Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func sampleResult() *rom.Result {
	score := 7
	return &rom.Result{
		Kind:          rom.AssessKapandji,
		HandType:      landmark.HandLeft,
		KapandjiScore: &score,
		Quality: map[rom.Metric]rom.Quality{
			rom.MetricKapandji: {Score: 1.0, Bypassed: true, Accepted: true},
		},
		FrameCount:  180,
		Repetitions: 2,
	}
}

func TestResultRepository_SaveAndGet(t *testing.T) {
	s := newTestStore(t)

	session := newTestSession(rom.AssessKapandji)
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	want := sampleResult()
	if err := s.Results().Save(session.ID, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Results().GetBySessionID(session.ID)
	if err != nil {
		t.Fatalf("GetBySessionID() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// Save also folds the outcome into the session row.
	updated, err := s.Sessions().GetByID(session.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !updated.Finalized() {
		t.Error("session not marked finalized")
	}
	if updated.Hand != landmark.HandLeft {
		t.Errorf("hand = %s, want left", updated.Hand)
	}
	if updated.FrameCount != 180 || updated.Repetitions != 2 {
		t.Errorf("session row = %+v, counters not updated", updated)
	}
}

func TestResultRepository_SaveUnknownSession(t *testing.T) {
	s := newTestStore(t)

	err := s.Results().Save("missing", sampleResult())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestResultRepository_GetBySessionID_NotFound(t *testing.T) {
	s := newTestStore(t)

	session := newTestSession(rom.AssessTAM)
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := s.Results().GetBySessionID(session.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound before finalization", err)
	}
}

func TestResultRepository_CascadeDelete(t *testing.T) {
	s := newTestStore(t)

	session := newTestSession(rom.AssessWristFlexExt)
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Results().Save(session.ID, sampleResult()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Sessions().Delete(session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Results().GetBySessionID(session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("result survived the session delete: %v", err)
	}
}
