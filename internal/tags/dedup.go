package tags

import "github.com/teamgrow/studymatch/pkg/models"

// Deduplicate collapses resolutions that landed on the same concept into
// one canonical label each, preserving first-occurrence order. Resolved
// entries group by canonical id; fallbacks group by the normalized key of
// their label, so two spellings of the same unresolved tag still collapse.
func Deduplicate(resolutions []models.TagResolution) []string {
	seen := make(map[string]bool, len(resolutions))
	unique := make([]string, 0, len(resolutions))

	for _, r := range resolutions {
		var key string
		if r.Resolved() {
			key = "canon:" + r.CanonicalUID
		} else {
			key = "raw:" + NormalizeKey(r.Canonical)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, r.Canonical)
	}

	return unique
}
