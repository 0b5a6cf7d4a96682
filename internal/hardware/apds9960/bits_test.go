package apds9960

import "testing"

func TestBitHelpers(t *testing.T) {
	if got := withBit(0x80, 0x01, true); got != 0x81 {
		t.Errorf("withBit set: expected 0x81, got 0x%02X", got)
	}
	if got := withBit(0xFF, 0x40, false); got != 0xBF {
		t.Errorf("withBit clear: expected 0xBF, got 0x%02X", got)
	}
	if got := field(0x73, PERS_PPERS_SHIFT, PERS_PPERS_MASK); got != 7 {
		t.Errorf("field: expected 7, got %d", got)
	}
	if got := withField(0x73, PERS_PPERS_SHIFT, PERS_PPERS_MASK, 4); got != 0x43 {
		t.Errorf("withField: expected 0x43, got 0x%02X", got)
	}
	if got := withField(0x03, PERS_PPERS_SHIFT, PERS_PPERS_MASK, 0x1F); got != 0xF3 {
		t.Errorf("withField overflow: expected 0xF3, got 0x%02X", got)
	}
}
