// Package autocomplete drives the candidate dropdown shown while typing a
// skill name.
//
// A Session is a value: every operation returns the next state and leaves the
// receiver untouched, so the UI can keep it inside a tea.Model without locks.
package autocomplete

import "strings"

// MaxCandidates bounds the number of suggestions shown at once.
const MaxCandidates = 10

// Searcher returns up to limit names matching query, in catalog order.
type Searcher interface {
	Search(query string, limit int) []string
}

// Session is the state of one autocomplete interaction.
//
// highlight is -1 when no candidate is selected; otherwise it indexes
// candidates. The dropdown is visible only while candidates is non-empty and
// dismissed is false.
type Session struct {
	source     Searcher
	query      string
	candidates []string
	highlight  int
	dismissed  bool
}

// New returns an empty session over source.
func New(source Searcher) Session {
	return Session{source: source, highlight: -1}
}

// Query returns the text typed so far.
func (s Session) Query() string { return s.query }

// Candidates returns the current suggestions.
func (s Session) Candidates() []string { return s.candidates }

// Highlighted returns the highlighted index, or -1.
func (s Session) Highlighted() int { return s.highlight }

// Visible reports whether the dropdown should be drawn.
func (s Session) Visible() bool {
	return !s.dismissed && len(s.candidates) > 0
}

// Selected returns the highlighted candidate.
func (s Session) Selected() (string, bool) {
	if !s.Visible() || s.highlight < 0 {
		return "", false
	}
	return s.candidates[s.highlight], true
}

// SetQuery replaces the query, recomputes candidates and clears the highlight.
// Typing re-opens a dismissed dropdown.
func (s Session) SetQuery(query string) Session {
	s.query = query
	s.highlight = -1
	s.dismissed = false
	s.candidates = nil
	if s.source != nil && strings.TrimSpace(query) != "" {
		s.candidates = s.source.Search(query, MaxCandidates)
	}
	return s
}

// MoveDown highlights the next candidate, stopping at the last one.
func (s Session) MoveDown() Session {
	if !s.Visible() {
		return s
	}
	if s.highlight < len(s.candidates)-1 {
		s.highlight++
	}
	return s
}

// MoveUp highlights the previous candidate. Moving up from the first one
// clears the highlight; with nothing highlighted it stays that way.
func (s Session) MoveUp() Session {
	if !s.Visible() {
		return s
	}
	if s.highlight > -1 {
		s.highlight--
	}
	return s
}

// Confirm accepts the highlighted candidate. It returns the updated session,
// the accepted name and true, with the query replaced by the name and the
// dropdown closed. Without a highlight the session is returned unchanged with
// false.
func (s Session) Confirm() (Session, string, bool) {
	name, ok := s.Selected()
	if !ok {
		return s, "", false
	}
	s.query = name
	s.candidates = nil
	s.highlight = -1
	s.dismissed = false
	return s, name, true
}

// Dismiss hides the dropdown without touching the query.
func (s Session) Dismiss() Session {
	s.dismissed = true
	s.highlight = -1
	return s
}

// Reset clears the query and candidates.
func (s Session) Reset() Session {
	return New(s.source)
}
