package digraph

import (
	"reflect"
	"testing"
)

// diamond builds entry -> if -> continue, entry -> else -> continue.
func diamond() Digraph {
	var g Digraph
	entry, then, els, cont := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	g.AddEdge(entry, then)
	g.AddEdge(entry, els)
	g.AddEdge(then, cont)
	g.AddEdge(els, cont)
	return g
}

func TestPreds(t *testing.T) {
	g := diamond()
	tests := []struct {
		Node  int
		Preds []int
		Succs []int
	}{
		{0, nil, []int{1, 2}},
		{1, []int{0}, []int{3}},
		{2, []int{0}, []int{3}},
		{3, []int{1, 2}, nil},
	}
	for _, test := range tests {
		if preds := g.Preds(test.Node); !reflect.DeepEqual(preds, test.Preds) {
			t.Errorf("Preds(%d) = %v, want %v", test.Node, preds, test.Preds)
		}
		if succs := g.Succs(test.Node); !reflect.DeepEqual(succs, test.Succs) {
			t.Errorf("Succs(%d) = %v, want %v", test.Node, succs, test.Succs)
		}
	}
}

func TestReversePostOrder(t *testing.T) {
	g := diamond()
	order := g.ReversePostOrder(0)
	want := []int{0, 2, 1, 3}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("ReversePostOrder(0) = %v, want %v", order, want)
	}
}

func TestReversePostOrderUnreachable(t *testing.T) {
	g := diamond()
	dead := g.AddNode()
	g.AddEdge(dead, 3)
	if order := g.ReversePostOrder(0); !reflect.DeepEqual(order, []int{0, 2, 1, 3}) {
		t.Errorf("ReversePostOrder(0) = %v, want [0 2 1 3]", order)
	}
	if preds := g.Preds(3); !reflect.DeepEqual(preds, []int{1, 2, dead}) {
		t.Errorf("Preds(3) = %v, want [1 2 %d]", preds, dead)
	}
}
