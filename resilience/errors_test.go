package resilience

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrBulkheadFull(t *testing.T) {
	if !strings.HasPrefix(ErrBulkheadFull.Error(), "resilience: ") {
		t.Errorf("message %q lacks package prefix", ErrBulkheadFull.Error())
	}
	wrapped := fmt.Errorf("read /srv/a.txt: %w", ErrBulkheadFull)
	if !errors.Is(wrapped, ErrBulkheadFull) {
		t.Error("wrapped error does not match ErrBulkheadFull")
	}
}
