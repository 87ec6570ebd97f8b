package journal

// MultiJournal sends events to multiple journals.
type MultiJournal struct {
	journals []Journal
}

// NewMultiJournal creates a MultiJournal. Nil entries are skipped.
func NewMultiJournal(journals ...Journal) *MultiJournal {
	m := &MultiJournal{}
	for _, j := range journals {
		if j != nil {
			m.journals = append(m.journals, j)
		}
	}
	return m
}

// Record sends the event to all configured journals.
func (m *MultiJournal) Record(event Event) {
	for _, j := range m.journals {
		j.Record(event)
	}
}

// Compile-time interface satisfaction check.
var _ Journal = (*MultiJournal)(nil)
