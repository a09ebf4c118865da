package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
)

func TestRodWrapClassification(t *testing.T) {
	d := &RodDriver{}

	tests := []struct {
		name  string
		err   error
		fault bool
	}{
		{"object not found", cdp.ErrObjNotFound, false},
		{"no node at position", cdp.ErrNodeNotFoundAtPos, false},
		{"context destroyed", cdp.ErrCtxDestroyed, false},
		{"not interactable", &rod.NotInteractableError{}, false},
		{"session closed", cdp.ErrSessionNotFound, true},
		{"tab detached", cdp.ErrNotAttachedToActivePage, true},
		{"other protocol error", &cdp.Error{Code: -32603, Message: "Internal error"}, true},
		{"websocket", errors.New("websocket: close 1006"), true},
		{"canceled", context.Canceled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.wrap("find all li", tt.err)
			if err == nil {
				t.Fatal("wrap returned nil")
			}
			if got := IsFault(err); got != tt.fault {
				t.Errorf("IsFault(%v) = %v, want %v", err, got, tt.fault)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("wrapped error lost its cause: %v", err)
			}
		})
	}

	if d.wrap("click", nil) != nil {
		t.Error("wrap(nil) should be nil")
	}
}

// Ошибки отдельных элементов rod. Error() у них разыменовывает элемент,
// поэтому проверяется сама классификация без форматирования.
func TestIsElementErrorRodTypes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"object not found", &rod.ObjectNotFoundError{}, true},
		{"invisible shape", &rod.InvisibleShapeError{}, true},
		{"covered", &rod.CoveredError{}, true},
		{"no pointer events", &rod.NoPointerEventsError{}, true},
		{"not interactable", &rod.NotInteractableError{}, true},
		{"session closed", cdp.ErrSessionNotFound, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := isElementError(tt.err); got != tt.want {
			t.Errorf("%s: isElementError = %v, want %v", tt.name, got, tt.want)
		}
	}
}
