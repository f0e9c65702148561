package tui

import (
	"strings"
	"testing"
)

func TestDiffAnswerMarksMismatches(t *testing.T) {
	runes := diffAnswer("dug", "dog")
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("d") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("u") {
		t.Fatalf("expected incorrect style for second rune")
	}
	if runes[2].s != correctStyle.Render("g") {
		t.Fatalf("expected correct style for third rune")
	}
}

func TestDiffAnswerExtraRunesAreWrong(t *testing.T) {
	runes := diffAnswer("dogs", "dog")
	if len(runes) != 4 {
		t.Fatalf("expected 4 runes, got %d", len(runes))
	}
	if runes[3].s != incorrectStyle.Render("s") {
		t.Fatalf("expected incorrect style for extra rune")
	}
}

func TestDiffAnswerWrongSpaceDot(t *testing.T) {
	runes := diffAnswer("a b", "abc")
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
	if runes[1].isSpace {
		t.Fatalf("wrong space must not be a wrap point")
	}
}

func TestDiffAnswerWideRunes(t *testing.T) {
	runes := diffAnswer("犬", "犬")
	if len(runes) != 1 || runes[0].width != 2 {
		t.Fatalf("expected one rune of width 2, got %+v", runes)
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	out := wrapStyledRunes(plainRunes("one two three", pendingStyle), 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != renderStyledRunes(plainRunes("one two", pendingStyle)) {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != renderStyledRunes(plainRunes("three", pendingStyle)) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestWrapStyledRunesBreaksLongWords(t *testing.T) {
	out := wrapStyledRunes(plainRunes("abcdef", pendingStyle), 4)
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected a hard break, got %q", out)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	runes := plainRunes("one two", pendingStyle)
	if wrapStyledRunes(runes, 0) != renderStyledRunes(runes) {
		t.Fatalf("expected unwrapped output")
	}
}
