package runstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGetRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := &Run{
		ID:        uuid.NewString(),
		AudioPath: "/audio/narration.wav",
		FPS:       30,
		Threshold: 85,
	}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil for an existing run")
	}
	if got.Status != StatusRunning {
		t.Errorf("status = %q, want %q", got.Status, StatusRunning)
	}
	if got.AudioPath != run.AudioPath || got.FPS != 30 || got.Threshold != 85 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not persisted")
	}
}

func TestGetRunMissing(t *testing.T) {
	store := openTestStore(t)
	got, err := store.GetRun(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil run, got %+v", got)
	}
}

func TestUpdateStatusAndDuration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := &Run{ID: uuid.NewString(), AudioPath: "/audio/a.wav"}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := store.UpdateDuration(ctx, run.ID, 42.5); err != nil {
		t.Fatalf("UpdateDuration: %v", err)
	}
	if err := store.UpdateStatus(ctx, run.ID, StatusFailed, "phrase 2 below threshold"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("status = %q", got.Status)
	}
	if got.ErrorMessage != "phrase 2 below threshold" {
		t.Errorf("error message = %q", got.ErrorMessage)
	}
	if got.Duration != 42.5 {
		t.Errorf("duration = %v", got.Duration)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for _, id := range ids {
		if err := store.CreateRun(ctx, &Run{ID: id, AudioPath: "/a.wav"}); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestArtifactsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := &Run{ID: uuid.NewString(), AudioPath: "/a.wav"}
	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	if err := store.SaveArtifact(ctx, run.ID, ArtifactTranscript, "/work/transcript.json"); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}
	if err := store.SaveArtifact(ctx, run.ID, ArtifactTimeline, "/work/timeline.json"); err != nil {
		t.Fatalf("SaveArtifact: %v", err)
	}
	// Saving the same kind again replaces the path.
	if err := store.SaveArtifact(ctx, run.ID, ArtifactTranscript, "/work/transcript2.json"); err != nil {
		t.Fatalf("SaveArtifact replace: %v", err)
	}

	artifact, err := store.Artifact(ctx, run.ID, ArtifactTranscript)
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if artifact == nil || artifact.Path != "/work/transcript2.json" {
		t.Errorf("artifact = %+v", artifact)
	}

	missing, err := store.Artifact(ctx, run.ID, ArtifactVideo)
	if err != nil {
		t.Fatalf("Artifact missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil, got %+v", missing)
	}

	all, err := store.Artifacts(ctx, run.ID)
	if err != nil {
		t.Fatalf("Artifacts: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(artifacts) = %d, want 2", len(all))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Fatal("Open accepted a mismatched schema version")
	}
}
