package id

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/krisalay/ui-memory/internal/buildmode"
)

// provenance maps ids to a readable description of how they were derived.
// Only populated in uimemdebug builds; it grows with every distinct id and is never pruned.
var provenance sync.Map

const maxDescription = 48

func recordNew(out ID, source any) {
	if !buildmode.Debug {
		return
	}
	provenance.LoadOrStore(out, describe(source))
}

func recordWith(out, parent ID, child any) {
	if !buildmode.Debug {
		return
	}
	p := parent.Provenance()
	if p == "" {
		p = parent.Short()
	}
	provenance.LoadOrStore(out, p+"/"+describe(child))
}

// Provenance returns how i was derived, e.g. `"settings"/3/"advanced"`.
// Reserved ids always have a name; other ids are described only in uimemdebug builds.
func (i ID) Provenance() string {
	switch i {
	case Null:
		return "null"
	case Background:
		return "background"
	case Tooltip:
		return "tooltip"
	}
	v, ok := provenance.Load(i)
	if !ok {
		return ""
	}
	return v.(string)
}

func describe(v any) string {
	var s string
	switch x := v.(type) {
	case string:
		s = fmt.Sprintf("%q", x)
	case ID:
		s = x.Short()
	default:
		s = fmt.Sprintf("%v", x)
	}
	if len(s) > maxDescription {
		cut := maxDescription
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}
