package domain

import "testing"

func TestNewFeederEdge(t *testing.T) {
	edge := NewFeederEdge("F1", "C1", "C2", "F1")

	if edge.Kind != EdgeKindFeeder {
		t.Errorf("expected kind %s, got %s", EdgeKindFeeder, edge.Kind)
	}
	if edge.Dashes {
		t.Error("feeder edges should not be dashed")
	}
}

func TestNewFibreEdge(t *testing.T) {
	edge := NewFibreEdge("FB1", "C1", "T1", "FB1")

	if edge.Kind != EdgeKindFibre {
		t.Errorf("expected kind %s, got %s", EdgeKindFibre, edge.Kind)
	}
	if !edge.Dashes {
		t.Error("fibre edges should be dashed")
	}
	if edge.From != "C1" || edge.To != "T1" {
		t.Errorf("unexpected endpoints %s -> %s", edge.From, edge.To)
	}
}

func TestSortEdges(t *testing.T) {
	edges := []Edge{{ID: "b"}, {ID: "c"}, {ID: "a"}}
	SortEdges(edges)

	for i, want := range []string{"a", "b", "c"} {
		if edges[i].ID != want {
			t.Errorf("edges[%d] = %s, want %s", i, edges[i].ID, want)
		}
	}
}
