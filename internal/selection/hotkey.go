package selection

import (
	"fmt"
	"strings"
)

const DefaultHotkey = "alt+o"

type KeyEvent struct {
	Key   string
	Alt   bool
	Ctrl  bool
	Shift bool
	Meta  bool
}

// Hotkey is a key with the modifiers that must be held. Shift is ignored when
// matching so that "O" and "o" both trigger.
type Hotkey struct {
	Key  string
	Alt  bool
	Ctrl bool
	Meta bool
}

// ParseHotkey reads strings like "alt+o", "ctrl+shift+k" or "option+o".
func ParseHotkey(s string) (Hotkey, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	var hotkey Hotkey
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Hotkey{}, fmt.Errorf("invalid hotkey %q", s)
		}
		if i == len(parts)-1 {
			hotkey.Key = part
			break
		}
		switch part {
		case "alt", "option", "opt":
			hotkey.Alt = true
		case "ctrl", "control":
			hotkey.Ctrl = true
		case "meta", "cmd", "command", "super":
			hotkey.Meta = true
		case "shift":
		default:
			return Hotkey{}, fmt.Errorf("unknown modifier %q in hotkey %q", part, s)
		}
	}
	if !hotkey.Alt && !hotkey.Ctrl && !hotkey.Meta {
		return Hotkey{}, fmt.Errorf("hotkey %q needs alt, ctrl or meta", s)
	}
	return hotkey, nil
}

func (h Hotkey) Matches(event KeyEvent) bool {
	return strings.EqualFold(event.Key, h.Key) &&
		event.Alt == h.Alt &&
		event.Ctrl == h.Ctrl &&
		event.Meta == h.Meta
}

func (h Hotkey) String() string {
	var parts []string
	if h.Ctrl {
		parts = append(parts, "ctrl")
	}
	if h.Alt {
		parts = append(parts, "alt")
	}
	if h.Meta {
		parts = append(parts, "meta")
	}
	return strings.Join(append(parts, h.Key), "+")
}
