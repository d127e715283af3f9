package syntax

import "github.com/hbollon/go-edlib"

// wellKnownProviders is the suggestion target list. Kept short and specific
// on purpose: a typo-correction feature that fires on every obscure domain
// is more annoying than helpful.
var wellKnownProviders = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "live.com",
	"msn.com", "icloud.com", "aol.com", "protonmail.com",
}

const maxSuggestDistance = 2

// EnrichSuggestion sets d.Suggestion to the closest well-known provider
// domain when it is within edit distance 2 of d.Domain. Called only on the
// MX-failure and SMTP-failure paths of the orchestrator, never on success —
// that asymmetry is deliberate, see DESIGN.md.
func EnrichSuggestion(d *Details) {
	if d.Domain == "" {
		return
	}
	if _, known := knownProviderSet[d.Domain]; known {
		return
	}

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range wellKnownProviders {
		dist := edlib.LevenshteinDistance(d.Domain, candidate)
		if dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}
	if bestDist <= maxSuggestDistance {
		d.Suggestion = best
	}
}

var knownProviderSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(wellKnownProviders))
	for _, p := range wellKnownProviders {
		m[p] = struct{}{}
	}
	return m
}()
