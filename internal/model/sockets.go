package model

import "log/slog"

// SocketCounts holds the number of essence sockets of each type on an equipment item.
type SocketCounts struct {
	Basic    int
	Primary  int
	Vital    int
	Cloak    int
	Necklace int
	PvP      int
}

// MaxSocketRun caps the basic socket count a single digit run can add.
const MaxSocketRun = 64

// ParseSockets parses a compact socket token string such as "SPV" or "2PV".
//
// Letters count one socket each: S basic, P primary, V vital, C cloak,
// N necklace, W pvp. A run of decimal digits adds its numeric value to the
// basic count, capped at MaxSocketRun. Other characters are ignored.
func ParseSockets(s string) SocketCounts {
	var c SocketCounts
	num, inNum, capped := 0, false, false
	flush := func() {
		if inNum {
			c.Basic += num
		}
		num, inNum = 0, false
	}

	for _, r := range s {
		if r >= '0' && r <= '9' {
			inNum = true
			if num = num*10 + int(r-'0'); num > MaxSocketRun {
				num, capped = MaxSocketRun, true
			}
			continue
		}
		flush()
		switch r {
		case 'S':
			c.Basic++
		case 'P':
			c.Primary++
		case 'V':
			c.Vital++
		case 'C':
			c.Cloak++
		case 'N':
			c.Necklace++
		case 'W':
			c.PvP++
		}
	}
	flush()

	if capped {
		slog.Warn("socket count capped", "sockets", s, "max", MaxSocketRun)
	}
	return c
}

// String renders counts back into token form (letters only).
func (c SocketCounts) String() string {
	b := make([]byte, 0, 8)
	for _, part := range []struct {
		n int
		r byte
	}{{c.Basic, 'S'}, {c.Primary, 'P'}, {c.Vital, 'V'}, {c.Cloak, 'C'}, {c.Necklace, 'N'}, {c.PvP, 'W'}} {
		for i := 0; i < part.n; i++ {
			b = append(b, part.r)
		}
	}
	return string(b)
}

// Total returns the total number of sockets.
func (c SocketCounts) Total() int {
	return c.Basic + c.Primary + c.Vital + c.Cloak + c.Necklace + c.PvP
}

// Summary returns counts keyed by socket type name.
func (c SocketCounts) Summary() map[string]int {
	return map[string]int{
		"basic":    c.Basic,
		"primary":  c.Primary,
		"vital":    c.Vital,
		"cloak":    c.Cloak,
		"necklace": c.Necklace,
		"pvp":      c.PvP,
	}
}
