// File: internal/store/store_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package store_test

import (
	"sync"
	"testing"

	"github.com/momentics/lindaring/internal/store"
	"github.com/momentics/lindaring/internal/value"
)

func anyInt() value.Tuple[value.Request] {
	return value.Tuple[value.Request]{value.NewRequest(value.EmptyInt(), value.ANY)}
}

func anyString() value.Tuple[value.Request] {
	return value.Tuple[value.Request]{value.NewRequest(value.EmptyString(), value.ANY)}
}

func TestRemoveNoMatch(t *testing.T) {
	s := store.New()
	if _, ok := s.Remove(anyInt()); ok {
		t.Fatal("expected no match on empty store")
	}
}

func TestInsertRemoveOrdering(t *testing.T) {
	s := store.New()
	s.Insert(value.Tuple[value.Value]{value.Str("first")})
	s.Insert(value.Tuple[value.Value]{value.Str("second")})

	got, ok := s.Remove(anyString())
	if !ok || got[0].StrVal() != "first" {
		t.Fatalf("expected first-inserted match, got %v ok=%v", got, ok)
	}
	got, ok = s.Remove(anyString())
	if !ok || got[0].StrVal() != "second" {
		t.Fatalf("expected second match, got %v ok=%v", got, ok)
	}
}

func TestRemoveThenReinsertPreservesTuple(t *testing.T) {
	s := store.New()
	s.Insert(value.Tuple[value.Value]{value.Int(7)})
	got, ok := s.Remove(anyInt())
	if !ok {
		t.Fatal("expected match")
	}
	s.Insert(got)
	if s.Len() != 1 {
		t.Fatalf("expected 1 tuple after reinsert, got %d", s.Len())
	}
	got2, ok := s.Remove(anyInt())
	if !ok || got2[0].IntVal() != 7 {
		t.Fatalf("expected re-inserted tuple to remain retrievable, got %v", got2)
	}
}

func TestConcurrentInsertRemove(t *testing.T) {
	s := store.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Insert(value.Tuple[value.Value]{value.Int(int32(n))})
		}(i)
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Fatalf("expected 50 tuples, got %d", s.Len())
	}
	for i := 0; i < 50; i++ {
		if _, ok := s.Remove(anyInt()); !ok {
			t.Fatalf("expected match on iteration %d", i)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected store drained, got %d remaining", s.Len())
	}
}
