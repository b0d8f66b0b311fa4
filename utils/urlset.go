package utils

// URLSet tracks URLs already seen during a single fetch.
type URLSet struct {
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}
