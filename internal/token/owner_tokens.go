package token

import "strings"

const (
	OwnerTokensCookie = "atsumeru_owner_tokens"
	MaxOwnerTokens    = 50
	OwnerTokensMaxAge = 60 * 60 * 24 * 365
)

// ParseOwnerTokens reads the cookie value: comma separated, normalized to
// lower case, malformed entries dropped, duplicates removed, at most MaxOwnerTokens.
func ParseOwnerTokens(raw string) []string {
	if raw == "" {
		return nil
	}

	seen := make(map[string]struct{})
	tokens := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if !WellFormed(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
		if len(tokens) >= MaxOwnerTokens {
			break
		}
	}
	return tokens
}

// MergeOwnerTokens puts add in front of existing, keeping the list deduplicated and capped.
func MergeOwnerTokens(existing []string, add string) []string {
	add = strings.ToLower(strings.TrimSpace(add))
	if !WellFormed(add) {
		return existing
	}

	merged := make([]string, 0, len(existing)+1)
	merged = append(merged, add)
	for _, t := range existing {
		if t != add {
			merged = append(merged, t)
		}
	}
	if len(merged) > MaxOwnerTokens {
		merged = merged[:MaxOwnerTokens]
	}
	return merged
}

func JoinOwnerTokens(tokens []string) string {
	return strings.Join(tokens, ",")
}
