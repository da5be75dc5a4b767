package dsmr

import (
	"strings"
	"testing"
)

func TestAssembler(t *testing.T) {
	a := &assembler{}

	lines := []string{
		"/KFM5KAIFA-METER\r\n",
		"\r\n",
		"0-0:1.0.0(170124213128W)\r\n",
		"1-0:1.7.0(01.193*kW)\r\n",
		"!29ED\r\n",
	}

	var raw []byte
	for i, line := range lines {
		raw = a.Feed(line)
		if i < len(lines)-1 && raw != nil {
			t.Fatalf("telegram completed early at line %d", i)
		}
	}

	expected := "KFM5KAIFA-METER\r\n" +
		"\r\n" +
		"0-0:1.0.0(170124213128W)\r\n" +
		"1-0:1.7.0(01.193*kW)\r\n"
	if string(raw) != expected {
		t.Errorf("assembled payload got %q, expected %q", raw, expected)
	}
}

func TestAssemblerDropsPartialTelegramOnNewStart(t *testing.T) {
	a := &assembler{}

	a.Feed("/OLD5METER\r\n")
	a.Feed("1-0:1.7.0(99.999*kW)\r\n")

	// a fresh identification line arrives before the old telegram terminated
	a.Feed("/NEW5METER\r\n")
	a.Feed("1-0:1.7.0(01.000*kW)\r\n")
	raw := a.Feed("!0000\r\n")

	if strings.Contains(string(raw), "99.999") {
		t.Errorf("payload contains lines from the dropped telegram: %q", raw)
	}
	if !strings.HasPrefix(string(raw), "NEW5METER") {
		t.Errorf("payload does not start with the new identification line: %q", raw)
	}
}

func TestAssemblerIgnoresLinesOutsideTelegram(t *testing.T) {
	a := &assembler{}

	if raw := a.Feed("1-0:1.7.0(01.000*kW)\r\n"); raw != nil {
		t.Errorf("got payload %q from stray line, expected none", raw)
	}
	if raw := a.Feed("!ABCD\r\n"); raw != nil {
		t.Errorf("got payload %q from stray terminator, expected none", raw)
	}
}
