package logger

import (
	"errors"
	"testing"
)

var errSentinel = errors.New("sentinel")

func TestErrorfAndReturnWraps(t *testing.T) {
	l := Logger{}

	err := l.ErrorfAndReturn("loading %s: %w", "deploy", errSentinel)

	if !errors.Is(err, errSentinel) {
		t.Errorf("Expected wrapped sentinel, got: %v", err)
	}
	if err.Error() != "loading deploy: sentinel" {
		t.Errorf("Unexpected message: %q", err.Error())
	}
}
