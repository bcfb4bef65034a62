package markstack

import (
	"sync"
	"testing"

	"zheap/pointer"
)

func TestPushPopOrder(t *testing.T) {
	s := New()
	if !s.IsEmpty() {
		t.Fatal("new stack should be empty")
	}
	s.Push(1)
	s.Push(2)
	s.Push(3)

	for _, want := range []pointer.Ptr{3, 2, 1} {
		got, ok := s.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = (%v, %v), want (%v, true)", got, ok, want)
		}
	}
	if !s.IsEmpty() {
		t.Fatal("stack should be empty after draining")
	}
	if _, ok := s.Pop(); ok {
		t.Fatal("Pop() on empty stack should report !ok")
	}
}

func TestCrossesChunkBoundary(t *testing.T) {
	s := New()
	n := ChunkSize*2 + 7
	for i := 0; i < n; i++ {
		s.Push(pointer.Ptr(i))
	}
	count := 0
	for !s.IsEmpty() {
		if _, ok := s.Pop(); ok {
			count++
		}
	}
	if count != n {
		t.Fatalf("drained %d entries, want %d", count, n)
	}
}

func TestConcurrentPushPop(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	const goroutines = 8
	const perGoroutine = 500
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				s.Push(pointer.Ptr(j))
			}
		}()
	}
	wg.Wait()

	count := 0
	for !s.IsEmpty() {
		if _, ok := s.Pop(); ok {
			count++
		}
	}
	if count != goroutines*perGoroutine {
		t.Fatalf("drained %d entries, want %d", count, goroutines*perGoroutine)
	}
}
