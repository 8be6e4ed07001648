package session

import (
	"context"
	"testing"

	"github.com/enrollchat/enrollchat/internal/core"
)

type fakeConv struct{ id string }

func (f *fakeConv) SendMessage(ctx context.Context, text string) (*core.GenerateResponse, error) {
	return &core.GenerateResponse{}, nil
}
func (f *fakeConv) SendFunctionResponses(ctx context.Context, results []core.FunctionResponse) (*core.GenerateResponse, error) {
	return &core.GenerateResponse{}, nil
}

func TestStore_GetNeverCreates(t *testing.T) {
	s := NewStore()
	if _, ok := s.Get("missing"); ok {
		t.Error("Get returned an entry for an unknown id")
	}
	if s.Len() != 0 {
		t.Errorf("Get must not create: len %d", s.Len())
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	s := NewStore()
	first := &fakeConv{id: "first"}
	second := &fakeConv{id: "second"}
	s.Put("sess", first)
	s.Put("sess", second)

	got, ok := s.Get("sess")
	if !ok {
		t.Fatal("session missing after Put")
	}
	if got.(*fakeConv).id != "second" {
		t.Error("expected last writer to win")
	}
	if s.Len() != 1 {
		t.Errorf("expected single entry, got %d", s.Len())
	}
}

func TestStore_RemoveIdempotent(t *testing.T) {
	s := NewStore()
	s.Put("a", &fakeConv{})
	s.Remove("nonexistent") // no-op
	if s.Len() != 1 {
		t.Errorf("removing unknown id changed size: %d", s.Len())
	}
	s.Remove("a")
	s.Remove("a")
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}

func TestStore_ClearForgetsEverything(t *testing.T) {
	s := NewStore()
	ids := []string{"one", "two", "three"}
	for _, id := range ids {
		s.Put(id, &fakeConv{id: id})
	}
	s.Clear()
	for _, id := range ids {
		if _, ok := s.Get(id); ok {
			t.Errorf("session %s survived Clear", id)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store after Clear, got %d", s.Len())
	}
}
