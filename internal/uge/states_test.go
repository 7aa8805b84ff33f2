package uge

import "testing"

func TestClassifyState(t *testing.T) {
	tests := []struct {
		tag   string
		want  StateClass
		known bool
	}{
		{tag: "qw", want: StatePending, known: true},
		{tag: "hqw", want: StatePending, known: true},
		{tag: "hRwq", want: StatePending, known: true},
		{tag: "r", want: StateRunning, known: true},
		{tag: "t", want: StateRunning, known: true},
		{tag: "Rr", want: StateRunning, known: true},
		{tag: "x", want: StateRunning, known: true},
		{tag: "s", want: StateSuspended, known: true},
		{tag: "RtS", want: StateSuspended, known: true},
		{tag: "Eqw", want: StateError, known: true},
		{tag: "EhRqw", want: StateError, known: true},
		{tag: "dr", want: StateError, known: true},
		{tag: "dRT", want: StateError, known: true},
		{tag: "zz", want: StateUnknown, known: false},
		{tag: "", want: StateUnknown, known: false},
		{tag: "R", want: StateUnknown, known: false},
	}

	for _, tt := range tests {
		got, known := ClassifyState(tt.tag)
		if known != tt.known {
			t.Errorf("ClassifyState(%q) known = %v, want %v", tt.tag, known, tt.known)
		}
		if got != tt.want {
			t.Errorf("ClassifyState(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestStateClassString(t *testing.T) {
	tests := []struct {
		class StateClass
		want  string
	}{
		{StatePending, "pending"},
		{StateRunning, "running"},
		{StateSuspended, "suspended"},
		{StateError, "error"},
		{StateUnknown, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}
