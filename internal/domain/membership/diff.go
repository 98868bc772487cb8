package membership

// Diff computes the set difference between the stored and requested
// reference lists. Order follows first appearance in the inputs;
// duplicates collapse.
func Diff(current, requested []string) RefDiff {
	currentSet := toSet(current)
	requestedSet := toSet(requested)

	var diff RefDiff
	seen := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := currentSet[id]; !ok {
			diff.Added = append(diff.Added, id)
		}
	}

	seen = make(map[string]struct{}, len(current))
	for _, id := range current {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := requestedSet[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	return diff
}

// AddRef appends id when absent, preserving order.
func AddRef(refs []string, id string) []string {
	for _, existing := range refs {
		if existing == id {
			return refs
		}
	}
	return append(refs, id)
}

// RemoveRef drops every occurrence of id.
func RemoveRef(refs []string, id string) []string {
	out := refs[:0]
	for _, existing := range refs {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}
