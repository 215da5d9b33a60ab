package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"fibremap/internal/domain"
)

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func sampleTopology() *domain.Topology {
	return &domain.Topology{
		SpliceClosures: []domain.Closure{
			{Label: "C1", EncType: "5", OLTName: "olt-a", Attributes: map[string]string{"label": "C1", "enc_type": "5", "olt_name": "olt-a"}},
			{Label: "C2", Attributes: map[string]string{}},
		},
		FeederCables: []domain.FeederCable{
			{From: "C1", To: "C2", Label: "F1", Attributes: map[string]string{"length": "120"}},
		},
		OpticalTaps: []domain.OpticalTap{
			{Label: "T1", Attributes: map[string]string{"ratio": "1:8"}},
		},
		FibreCables: []domain.FibreCable{
			{From: "C1", To: "T1", Label: "FB2", Attributes: map[string]string{}},
			{From: "C1", To: "E1", Label: "FB1", Attributes: map[string]string{}},
			{From: "T1", To: "C1", Label: "FB3", Attributes: map[string]string{"colour": "blue"}},
		},
	}
}

func TestLoadTopologyEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	topo, err := repo.LoadTopology(ctx)
	assertNoError(t, err)
	if topo != nil {
		t.Fatalf("expected nil topology before import, got %+v", topo)
	}

	info, err := repo.LastImport(ctx)
	assertNoError(t, err)
	if info != nil {
		t.Fatalf("expected nil import info, got %+v", info)
	}
}

func TestImportAndLoadTopology(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	want := sampleTopology()

	assertNoError(t, repo.ImportTopology(ctx, want, "https://maps.example/network.json"))

	got, err := repo.LoadTopology(ctx)
	assertNoError(t, err)
	if got == nil {
		t.Fatal("expected topology after import")
	}

	assertEqual(t, want.SpliceClosures, got.SpliceClosures)
	assertEqual(t, want.FeederCables, got.FeederCables)
	assertEqual(t, want.OpticalTaps, got.OpticalTaps)

	t.Run("fibres keep document order", func(t *testing.T) {
		labels := make([]string, len(got.FibreCables))
		for i, f := range got.FibreCables {
			labels[i] = f.Label
		}
		assertEqual(t, []string{"FB2", "FB1", "FB3"}, labels)
		assertEqual(t, want.FibreCables, got.FibreCables)
	})

	t.Run("import info", func(t *testing.T) {
		info, err := repo.LastImport(ctx)
		assertNoError(t, err)
		if info == nil {
			t.Fatal("expected import info")
		}
		assertEqual(t, "https://maps.example/network.json", info.Source)
		if info.ImportedAt.IsZero() {
			t.Error("expected import timestamp")
		}
	})
}

func TestImportReplacesSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	assertNoError(t, repo.ImportTopology(ctx, sampleTopology(), "first.json"))

	next := domain.NewTopology()
	next.SpliceClosures = append(next.SpliceClosures, domain.Closure{Label: "X", Attributes: map[string]string{}})
	assertNoError(t, repo.ImportTopology(ctx, next, "second.json"))

	got, err := repo.LoadTopology(ctx)
	assertNoError(t, err)
	assertEqual(t, domain.TopologyStats{SpliceClosures: 1}, got.Stats())

	info, err := repo.LastImport(ctx)
	assertNoError(t, err)
	assertEqual(t, "second.json", info.Source)
}

func TestImportKeepsDuplicateLabels(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	topo := domain.NewTopology()
	topo.SpliceClosures = []domain.Closure{
		{Label: "C1", EncType: "5", Attributes: map[string]string{}},
		{Label: "C1", EncType: "2", Attributes: map[string]string{}},
	}
	assertNoError(t, repo.ImportTopology(ctx, topo, "dupes.json"))

	got, err := repo.LoadTopology(ctx)
	assertNoError(t, err)
	assertEqual(t, 2, len(got.SpliceClosures))
	assertEqual(t, "5", got.SpliceClosures[0].EncType)
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fibremap.db")
	ctx := context.Background()

	repo, err := New(path)
	assertNoError(t, err)
	assertNoError(t, repo.ImportTopology(ctx, sampleTopology(), "net.json"))
	assertNoError(t, repo.Close())

	reopened, err := New(path)
	assertNoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadTopology(ctx)
	assertNoError(t, err)
	assertEqual(t, sampleTopology().Stats(), got.Stats())
}

func TestAttributeHelpers(t *testing.T) {
	null, err := marshalAttributes(nil)
	assertNoError(t, err)
	if null.Valid {
		t.Error("empty attributes should be stored as NULL")
	}

	attrs, err := unmarshalAttributes(null)
	assertNoError(t, err)
	if attrs == nil || len(attrs) != 0 {
		t.Errorf("NULL attributes should decode to an empty map, got %v", attrs)
	}

	stored, err := marshalAttributes(map[string]string{"a": "1"})
	assertNoError(t, err)
	back, err := unmarshalAttributes(stored)
	assertNoError(t, err)
	assertEqual(t, map[string]string{"a": "1"}, back)
}
