package gauge

import "sort"

const DefaultSection = "Default"

// Section is a named, independently collapsible group of gauges.
type Section struct {
	Name   string
	Gauges []Definition
}

// GroupSections groups defs by section. Gauges are ordered by display order within
// a section, and sections by the smallest display order they contain.
func GroupSections(defs []Definition) []Section {
	index := make(map[string]int)
	var sections []Section
	minOrder := make(map[string]int)

	for _, d := range defs {
		name := d.Section
		if name == "" {
			name = DefaultSection
		}
		i, ok := index[name]
		if !ok {
			i = len(sections)
			index[name] = i
			sections = append(sections, Section{Name: name})
			minOrder[name] = d.DisplayOrder
		}
		sections[i].Gauges = append(sections[i].Gauges, d)
		if d.DisplayOrder < minOrder[name] {
			minOrder[name] = d.DisplayOrder
		}
	}

	for i := range sections {
		g := sections[i].Gauges
		sort.SliceStable(g, func(a, b int) bool { return g[a].DisplayOrder < g[b].DisplayOrder })
	}
	sort.SliceStable(sections, func(a, b int) bool {
		return minOrder[sections[a].Name] < minOrder[sections[b].Name]
	})
	return sections
}
