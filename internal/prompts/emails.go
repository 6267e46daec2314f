package prompts

import (
	"regexp"
	"strings"
)

// shareAddressPattern matches the organization address format: five
// alphanumeric characters, then @, then the fixed domain prefix.
var shareAddressPattern = regexp.MustCompile(`^[a-zA-Z0-9]{5}@eg\.`)

// FilterShareable trims the given addresses and keeps those matching the
// organization format. Addresses that fail the check are dropped without
// being reported individually.
func FilterShareable(addresses []string) []string {
	valid := make([]string, 0, len(addresses))
	for _, address := range addresses {
		trimmed := strings.TrimSpace(address)
		if shareAddressPattern.MatchString(trimmed) {
			valid = append(valid, trimmed)
		}
	}
	return valid
}

// union appends the addresses from additions that are not already present,
// preserving first-seen order.
func union(existing, additions []string) []string {
	merged := make([]string, 0, len(existing)+len(additions))
	seen := make(map[string]struct{}, len(existing)+len(additions))

	for _, address := range existing {
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		merged = append(merged, address)
	}
	for _, address := range additions {
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		merged = append(merged, address)
	}

	return merged
}
