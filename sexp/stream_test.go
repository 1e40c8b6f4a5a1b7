package sexp

import (
	"errors"
	"strings"
	"testing"
)

func TestStreamIteration(t *testing.T) {
	s := NewStreamDecoderString(`(a 1) (b 2)
(c 3)`)
	var got []string
	for {
		more, err := s.More()
		if err != nil {
			t.Fatalf("More failed: %v", err)
		}
		if !more {
			break
		}
		v, err := s.NextValue()
		if err != nil {
			t.Fatalf("NextValue failed: %v", err)
		}
		got = append(got, v.String())
	}
	want := []string{"(a 1)", "(b 2)", "(c 3)"}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestStreamTypedNext(t *testing.T) {
	type event struct {
		Kind string `sexp:"kind"`
		Seq  int    `sexp:"seq"`
	}
	s := NewStreamDecoderString(`((kind . "open") (seq . 1)) ((kind . "close") (seq . 2))`)
	var events []event
	for {
		more, err := s.More()
		if err != nil {
			t.Fatalf("More failed: %v", err)
		}
		if !more {
			break
		}
		var ev event
		if err := s.Next(&ev); err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 || events[0].Kind != "open" || events[1].Seq != 2 {
		t.Errorf("got %+v", events)
	}
}

// After any successful decode, input[ByteOffset():] fed to a fresh
// decoder continues where the stream stopped.
func TestStreamOffsetResume(t *testing.T) {
	input := "(a 1)  (b 2) (c 3)"
	s := NewStreamDecoderString(input)
	if more, err := s.More(); err != nil || !more {
		t.Fatalf("More: %v %v", more, err)
	}
	if _, err := s.NextValue(); err != nil {
		t.Fatalf("NextValue failed: %v", err)
	}
	off := s.ByteOffset()
	if off < len("(a 1)") || off > len(input) {
		t.Fatalf("implausible offset %d", off)
	}

	resumed := NewStreamDecoderString(input[off:])
	var rest []string
	for {
		more, err := resumed.More()
		if err != nil {
			t.Fatalf("resumed More failed: %v", err)
		}
		if !more {
			break
		}
		v, err := resumed.NextValue()
		if err != nil {
			t.Fatalf("resumed NextValue failed: %v", err)
		}
		rest = append(rest, v.String())
	}
	if len(rest) != 2 || rest[0] != "(b 2)" || rest[1] != "(c 3)" {
		t.Errorf("resumed stream got %v", rest)
	}
}

// A truncated final value leaves the offset at the last complete value,
// so the tail can be re-fed once the rest arrives.
func TestStreamTruncatedTail(t *testing.T) {
	full := "(a 1) (b 2)"
	cut := "(a 1) (b"

	s := NewStreamDecoderString(cut)
	if more, err := s.More(); err != nil || !more {
		t.Fatalf("More: %v %v", more, err)
	}
	if _, err := s.NextValue(); err != nil {
		t.Fatalf("first value failed: %v", err)
	}
	off := s.ByteOffset()

	if more, err := s.More(); err != nil || !more {
		t.Fatalf("More before truncation: %v %v", more, err)
	}
	_, err := s.NextValue()
	var se *Error
	if !errors.As(err, &se) || !se.IsEof() {
		t.Fatalf("expected eof error, got %v", err)
	}

	// Offset still points at the last complete value boundary.
	retry := NewStreamDecoderString(full[off:])
	if more, merr := retry.More(); merr != nil || !more {
		t.Fatalf("retry More: %v %v", more, merr)
	}
	v, err := retry.NextValue()
	if err != nil {
		t.Fatalf("retry NextValue failed: %v", err)
	}
	if v.String() != "(b 2)" {
		t.Errorf("retry got %s", v)
	}
}

func TestStreamRejectsNonList(t *testing.T) {
	s := NewStreamDecoderString("foo")
	_, err := s.More()
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if se.Code() != CodeExpectedList {
		t.Errorf("expected CodeExpectedList, got %d", se.Code())
	}
	// A failed stream stays failed.
	if more, err := s.More(); more || err != nil {
		t.Errorf("after failure: more=%v err=%v", more, err)
	}
}

func TestStreamEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n\t "} {
		s := NewStreamDecoderString(input)
		more, err := s.More()
		if err != nil {
			t.Fatalf("More(%q) failed: %v", input, err)
		}
		if more {
			t.Errorf("More(%q): expected end of stream", input)
		}
		if s.ByteOffset() != len(input) {
			t.Errorf("More(%q): offset %d, want %d", input, s.ByteOffset(), len(input))
		}
	}
}

func TestStreamFromReader(t *testing.T) {
	s := NewDecoder(strings.NewReader("(x) (y)")).Stream()
	var names []string
	for {
		more, err := s.More()
		if err != nil {
			t.Fatalf("More failed: %v", err)
		}
		if !more {
			break
		}
		v, err := s.NextValue()
		if err != nil {
			t.Fatalf("NextValue failed: %v", err)
		}
		head, err := v.Index(0)
		if err != nil {
			t.Fatal(err)
		}
		a, err := head.AsAtom()
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, a.Text())
	}
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("got %v", names)
	}
}
