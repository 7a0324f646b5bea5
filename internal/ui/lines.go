package ui

import (
	"fmt"

	"mad-sand/internal/core"
)

// Lines flattens a parameter snapshot into display rows: a header per group
// followed by indented "Label: value" rows.
func Lines(snap core.ParameterSnapshot) []string {
	var out []string
	for _, g := range snap.Groups {
		if len(g.Params) == 0 {
			continue
		}
		out = append(out, g.Name)
		for _, p := range g.Params {
			out = append(out, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return out
}

// StatusLine is the one-line summary shown by compact viewers.
func StatusLine(snap core.ParameterSnapshot, hover string) string {
	get := func(key string) string {
		v, ok := snap.Lookup(key)
		if !ok {
			return "-"
		}
		return v
	}
	state := "running"
	if get("paused") == "true" {
		state = "paused"
	}
	line := fmt.Sprintf("%s tick %s %s | cells %s chunks %s | brush %s",
		get("scene"), get("tick"), state, get("cells"), get("chunks"), get("brush"))
	if hover != "" {
		line += " | " + hover
	}
	return line
}
