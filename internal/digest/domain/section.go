package domain

// Section is a presentation bucket label. T0 never takes SectionSkip; T1
// adds SectionSkip for past-grace items that must be hidden entirely.
type Section string

const (
	SectionCritical     Section = "critical"
	SectionToday        Section = "today"
	SectionComingUp     Section = "coming_up"
	SectionWorthKnowing Section = "worth_knowing"
	SectionNoise        Section = "noise"
	SectionSkip         Section = "skip"
)

// Rank orders sections for the fixed critical→today→coming_up→worth_knowing
// presentation order. Lower ranks present
// first; SectionNoise and SectionSkip are never featured so their rank is
// irrelevant to ordering.
func (s Section) Rank() int {
	switch s {
	case SectionCritical:
		return 0
	case SectionToday:
		return 1
	case SectionComingUp:
		return 2
	case SectionWorthKnowing:
		return 3
	default:
		return 99
	}
}

// Featured reports whether items in this section are shown individually
// rather than summarized in the noise rollup or hidden outright.
func (s Section) Featured() bool {
	switch s {
	case SectionCritical, SectionToday, SectionComingUp, SectionWorthKnowing:
		return true
	default:
		return false
	}
}
