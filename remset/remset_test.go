package remset

import "testing"

func TestAddPopDuplicatesAllowed(t *testing.T) {
	s := New()
	if !s.IsEmpty() {
		t.Fatal("new set should be empty")
	}
	s.Add(10)
	s.Add(10)
	s.Add(20)
	if s.IsEmpty() {
		t.Fatal("set with entries should not be empty")
	}

	count := 0
	for !s.IsEmpty() {
		if _, ok := s.Pop(); ok {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("drained %d entries, want 3", count)
	}
}

func TestPopEmpty(t *testing.T) {
	s := New()
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop on empty set should report !ok")
	}
}

func TestDrain(t *testing.T) {
	s := New()
	s.Add(1)
	s.Add(2)
	s.Add(3)
	got := s.Drain()
	if len(got) != 3 {
		t.Fatalf("Drain() returned %d entries, want 3", len(got))
	}
	if !s.IsEmpty() {
		t.Fatal("set should be empty after Drain")
	}
}
