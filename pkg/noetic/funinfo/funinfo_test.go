package funinfo

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestNew_AllDefaultAppliesToEveryArg(t *testing.T) {
	info, err := New("m", "f", 3, ArgsSpec{All: &ArgOverride{PreloadScope: boolPtr(true)}}, false, false, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, a := range info.Args {
		if !a.PreloadScope {
			t.Fatalf("arg %d: expected PreloadScope true from 'all' default", i)
		}
	}
}

func TestNew_FirstLastOverrideDefault(t *testing.T) {
	info, err := New("m", "f", 3, ArgsSpec{
		All:   &ArgOverride{PreloadScope: boolPtr(true)},
		First: &ArgOverride{PreloadScope: boolPtr(false)},
		Last:  &ArgOverride{AtomToScope: boolPtr(true)},
	}, false, false, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if info.Args[0].PreloadScope {
		t.Fatalf("expected explicit false on first arg to win over inherited true")
	}
	if !info.Args[1].PreloadScope {
		t.Fatalf("expected middle arg to keep the 'all' default")
	}
	if !info.Args[2].AtomToScope {
		t.Fatalf("expected last arg override to apply")
	}
}

func TestNew_PositionalPadsRemainingWithDefault(t *testing.T) {
	info, err := New("m", "f", 3, ArgsSpec{
		Positional: []ArgOverride{{PreloadScope: boolPtr(true)}},
	}, false, false, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !info.Args[0].PreloadScope {
		t.Fatalf("expected first positional override applied")
	}
	if info.Args[1].PreloadScope || info.Args[2].PreloadScope {
		t.Fatalf("expected remaining args to keep the zero-value default")
	}
}

func TestNew_InvalidPositionRejected(t *testing.T) {
	_, err := New("m", "f", 2, ArgsSpec{ByPosition: map[int]ArgOverride{5: {}}}, false, false, false)
	if err == nil {
		t.Fatalf("expected error for out-of-range position")
	}
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	info, _ := New("m", "f", 1, ArgsSpec{}, false, false, false)
	if err := r.Register("f", info, func(args ...any) (any, error) { return nil, nil }); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register("f", info, func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected error registering duplicate name")
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	info, _ := New("m", "double", 1, ArgsSpec{}, false, false, false)
	r.Register("double", info, func(args ...any) (any, error) { return args[0].(int) * 2, nil })

	callable, ok := r.Lookup("double")
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	out, err := callable.Fn(21)
	if err != nil || out != 42 {
		t.Fatalf("expected 42, got %v %v", out, err)
	}
}
