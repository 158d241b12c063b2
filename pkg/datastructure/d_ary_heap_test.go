package datastructure

import (
	"math/rand"
	"sort"
	"testing"
)

func TestHeapExtractOrder(t *testing.T) {
	for _, d := range []int{2, 4} {
		h := NewdAryHeap[int](d)

		ranks := make([]float64, 0, 100)
		for i := 0; i < 100; i++ {
			r := rand.Float64() * 1000
			ranks = append(ranks, r)
			h.Insert(NewPriorityQueueNode(r, i))
		}
		sort.Float64s(ranks)

		for i := 0; i < 100; i++ {
			node, err := h.ExtractMin()
			if err != nil {
				t.Fatalf("d=%d extract %d: %v", d, i, err)
			}
			if node.GetRank() != ranks[i] {
				t.Fatalf("d=%d extract %d: got rank %f, want %f", d, i, node.GetRank(), ranks[i])
			}
		}
		if !h.IsEmpty() {
			t.Errorf("d=%d heap should be empty", d)
		}
	}
}

func TestHeapDecreaseKey(t *testing.T) {
	h := NewFourAryHeap[string]()

	a := NewPriorityQueueNode(10.0, "a")
	b := NewPriorityQueueNode(20.0, "b")
	c := NewPriorityQueueNode(30.0, "c")
	h.Insert(a)
	h.Insert(b)
	h.Insert(c)

	if err := h.DecreaseKey(c, 5.0); err != nil {
		t.Fatalf("DecreaseKey: %v", err)
	}

	if min, err := h.GetMin(); err != nil || min.GetItem() != "c" {
		t.Errorf("peek after decrease: got %v, %v", min, err)
	}

	node, _ := h.ExtractMin()
	if node.GetItem() != "c" {
		t.Errorf("after decrease, min should be c, got %s", node.GetItem())
	}

	// increasing the key must be rejected
	if err := h.DecreaseKey(a, 100.0); err == nil {
		t.Error("DecreaseKey with a larger rank should fail")
	}
}

func TestHeapEmpty(t *testing.T) {
	h := NewBinaryHeap[int]()
	if _, err := h.ExtractMin(); err == nil {
		t.Error("ExtractMin on empty heap should fail")
	}
	if _, err := h.GetMin(); err == nil {
		t.Error("GetMin on empty heap should fail")
	}
	if h.GetMinrank() < 1e15 {
		t.Error("GetMinrank on empty heap should be infinite")
	}
}
