package action

import (
	"errors"
	"testing"

	"github.com/sambeau/nanoui/pkg/nanoui/state"
	"github.com/sambeau/nanoui/pkg/nanoui/value"
)

func TestDispatcher_NotifiesListeners(t *testing.T) {
	s := state.New()
	s.Set("count", value.Int{Value: 0})
	d := NewDispatcher(s)

	var seen []Mutation
	unsubscribe := d.Subscribe(func(m Mutation) { seen = append(seen, m) })

	if err := d.Dispatch(Add("count", "1")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	// no-op mutations do not notify
	if err := d.Dispatch(Remove("count", "1")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(seen) != 1 || seen[0].Operation != OpAdd {
		t.Fatalf("listener saw %v, want one ADD", seen)
	}

	unsubscribe()
	d.Dispatch(Add("count", "1"))
	if len(seen) != 1 {
		t.Errorf("listener called after unsubscribe: %v", seen)
	}

	if v, _ := s.Get("count"); v != (value.Int{Value: 2}) {
		t.Errorf("count = %#v, want 2", v)
	}
}

func TestDispatcher_Effects(t *testing.T) {
	s := state.New()
	d := NewDispatcher(s)

	// without a handler effects are dropped
	if err := d.Dispatch(Navigate("/home")); err != nil {
		t.Fatalf("Dispatch without handler: %v", err)
	}

	var handled []Action
	boom := errors.New("offline")
	d.Effects = EffectFunc(func(a Action) error {
		handled = append(handled, a)
		if a.Type == TypeFetch {
			return boom
		}
		return nil
	})

	err := d.Dispatch(Sequence(
		ShowToast("saving"),
		Fetch("https://example.com/save", "POST"),
		Set("saved", "true"),
	))
	if !errors.Is(err, boom) {
		t.Errorf("expected fetch error to surface, got %v", err)
	}
	if len(handled) != 2 {
		t.Errorf("handled %d effects, want 2", len(handled))
	}
	if v, ok := s.Get("saved"); !ok || v.String() != "true" {
		t.Errorf("sequence should continue after a failed effect, saved = %v", v)
	}
}
