package types

// Section is one of the top-level ESRS evaluation axes.
type Section string

// The three main analysis sections, matching the ESRS topical standards.
const (
	SectionEnvironmental Section = "environmental"
	SectionSocial        Section = "social"
	SectionGovernance    Section = "governance"
)

// MainSections returns the analysis sections in their fixed evaluation order.
// Consumers rely on this order for deterministic aggregation.
func MainSections() []Section {
	return []Section{SectionEnvironmental, SectionSocial, SectionGovernance}
}

// IsMain reports whether s is one of the three main analysis sections.
func (s Section) IsMain() bool {
	switch s {
	case SectionEnvironmental, SectionSocial, SectionGovernance:
		return true
	}
	return false
}
