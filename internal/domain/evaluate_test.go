package domain

import "testing"

func TestEvaluateExactIgnoresCaseAndDiacritics(t *testing.T) {
	answers := []string{"Ferrari", "Ferrari 458"}

	if got := Evaluate("ferrari", answers, 0); got != OutcomeExact {
		t.Fatalf("expected exact for lowercased guess, got %s", got)
	}
	if got := Evaluate("  FERRARI 458  ", answers, 0); got != OutcomeExact {
		t.Fatalf("expected exact for padded uppercase guess, got %s", got)
	}
	if got := Evaluate("Fèrrari", answers, 0); got != OutcomeExact {
		t.Fatalf("expected exact after diacritic fold, got %s", got)
	}
}

func TestEvaluateCloseOnTypo(t *testing.T) {
	answers := []string{"Ferrari", "Ferrari 458"}

	if got := Evaluate("Ferari", answers, 0); got != OutcomeClose {
		t.Fatalf("expected close for one-letter typo, got %s", got)
	}
	if got := Evaluate("Lamborghini", answers, 0); got != OutcomeIncorrect {
		t.Fatalf("expected incorrect for a different answer, got %s", got)
	}
}

func TestEvaluateShortAnswersNeverClose(t *testing.T) {
	// 20% of a 3-rune answer rounds down to zero edits allowed.
	if got := Evaluate("cat", []string{"car"}, 0); got != OutcomeIncorrect {
		t.Fatalf("expected incorrect, got %s", got)
	}
	if got := Evaluate("car", []string{"car"}, 0); got != OutcomeExact {
		t.Fatalf("expected exact, got %s", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	answers := []string{"Mona Lisa"}
	first := Evaluate("mona  lisa", answers, 0)
	for i := 0; i < 10; i++ {
		if got := Evaluate("mona  lisa", answers, 0); got != first {
			t.Fatalf("evaluation not deterministic: %s vs %s", got, first)
		}
	}
	if first != OutcomeExact {
		t.Fatalf("expected exact after whitespace collapse, got %s", first)
	}
}

func TestEvaluateEmptyGuess(t *testing.T) {
	if got := Evaluate("   ", []string{"Ferrari"}, 0); got != OutcomeIncorrect {
		t.Fatalf("expected incorrect for blank guess, got %s", got)
	}
}
