// Command scran-packcheck loads the embedded lexicon (plus an optional
// overlay), validates it, and prints list statistics. Run it in CI whenever
// lexicon.json or an overlay changes
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"scran/internal/core/lexicon"
)

func must(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	var (
		overlay = flag.String("overlay", "", "optional lexicon overlay YAML to merge before checking")
		asJSON  = flag.Bool("json", false, "emit stats as JSON")
	)
	flag.Parse()

	p, err := lexicon.Load()
	must(err)
	if *overlay != "" {
		must(p.MergeOverlayFile(*overlay))
	}

	stats := map[string]int{
		"food_strong":        len(p.StrongFood),
		"food_weak":          len(p.WeakFood),
		"food_modifiers":     len(p.Modifiers),
		"paid_signals":       len(p.PaidSignals),
		"paid_membership":    len(p.MembershipTerms),
		"paid_free_override": len(p.FreeOverrides),
		"nightlife":          len(p.Nightlife),
		"off_campus":         len(p.OffCampus),
		"religious":          len(p.Religious),
		"staff_only":         len(p.StaffOnly),
		"other_institutions": len(p.OtherInstitutions),
		"recap":              len(p.Recap),
		"giveaway":           len(p.Giveaway),
		"online":             len(p.Online),
		"location_aliases":   len(p.Aliases),
		"room_prefixes":      len(p.RoomPrefixes),
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		must(enc.Encode(map[string]any{"version": p.Version, "lists": stats}))
		return
	}

	fmt.Printf("lexicon v%d ok\n", p.Version)
	for _, k := range []string{
		"food_strong", "food_weak", "food_modifiers",
		"paid_signals", "paid_membership", "paid_free_override",
		"nightlife", "off_campus", "religious", "staff_only",
		"other_institutions", "recap", "giveaway", "online",
		"location_aliases", "room_prefixes",
	} {
		fmt.Printf("  %-20s %d\n", k, stats[k])
	}
}
