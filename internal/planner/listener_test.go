package planner

import (
	"reflect"
	"testing"
)

func TestListenerExtractsVibeTimeAndBudget(t *testing.T) {
	l := NewListener()
	intent := l.Run("live music tonight, cheap")

	if got := intent.TopVibe(""); got != "music" {
		t.Fatalf("expected music vibe, got %q (all: %v)", got, intent.PrimaryVibes)
	}
	if intent.TimeHint != "tonight" {
		t.Fatalf("expected time hint tonight, got %q", intent.TimeHint)
	}
	if intent.BudgetHint == nil || *intent.BudgetHint != 20 {
		t.Fatalf("expected cheap to imply budget 20, got %v", intent.BudgetHint)
	}
}

func TestListenerDefaultsOnUnparseableInput(t *testing.T) {
	l := NewListener()
	intent := l.Run("zzzz qqqq")

	if !reflect.DeepEqual(intent.PrimaryVibes, []string{"chill"}) {
		t.Fatalf("expected default chill vibe, got %v", intent.PrimaryVibes)
	}
	if intent.EnergyLevel != EnergyMedium {
		t.Fatalf("expected medium energy, got %v", intent.EnergyLevel)
	}
	if intent.TimeHint != "" || intent.BudgetHint != nil {
		t.Fatalf("expected no hints, got %+v", intent)
	}
}

func TestListenerDollarBudget(t *testing.T) {
	l := NewListener()
	intent := l.Run("dinner under $30 on saturday")

	if got := intent.TopVibe(""); got != "foodie" {
		t.Fatalf("expected foodie vibe, got %q", got)
	}
	if intent.BudgetHint == nil || *intent.BudgetHint != 30 {
		t.Fatalf("expected budget 30, got %v", intent.BudgetHint)
	}
	if intent.TimeHint != "saturday" {
		t.Fatalf("expected saturday hint, got %q", intent.TimeHint)
	}
}

func TestListenerFreeImpliesZeroBudget(t *testing.T) {
	l := NewListener()
	intent := l.Run("something free outside this weekend")

	if intent.BudgetHint == nil || *intent.BudgetHint != 0 {
		t.Fatalf("expected free to imply budget 0, got %v", intent.BudgetHint)
	}
	if got := intent.TopVibe(""); got != "outdoors" {
		t.Fatalf("expected outdoors vibe, got %q", got)
	}
}

func TestListenerEnergyLevels(t *testing.T) {
	l := NewListener()

	if got := l.Run("big rave, dancing all night").EnergyLevel; got != EnergyHigh {
		t.Fatalf("expected high energy, got %v", got)
	}
	if got := l.Run("quiet mellow evening").EnergyLevel; got != EnergyLow {
		t.Fatalf("expected low energy, got %v", got)
	}
	if got := l.Run("dinner with friends").EnergyLevel; got != EnergyMedium {
		t.Fatalf("expected medium energy, got %v", got)
	}
}

func TestListenerVibeTieBreaksOnFirstMention(t *testing.T) {
	l := NewListener()
	// One matched term each; the vibe mentioned first wins the tie.
	intent := l.Run("concert in the park")

	if got := intent.TopVibe(""); got != "music" {
		t.Fatalf("expected music to win the tie, got %q (all: %v)", got, intent.PrimaryVibes)
	}
}

func TestListenerDeterministic(t *testing.T) {
	l := NewListener()
	a := l.Run("cozy board game cafe, cheap, saturday afternoon")
	b := l.Run("cozy board game cafe, cheap, saturday afternoon")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("listener not deterministic:\n%+v\n%+v", a, b)
	}
}
