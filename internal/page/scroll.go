package page

import (
	"fmt"
	"strconv"
	"strings"
)

// Extent is a section's vertical position in document coordinates.
type Extent struct {
	Top    float64
	Height float64
}

// Contains reports whether y falls in [Top, Top+Height).
func (e Extent) Contains(y float64) bool {
	return y >= e.Top && y < e.Top+e.Height
}

// Layout maps rendered sections to their measured extents. Sections missing
// from the layout are skipped.
type Layout map[Section]Extent

// Scroll recomputes the active section from the viewport position. The first
// section, in document order, that contains the viewport midpoint wins; when
// none does the previous value stays. It reports whether Active changed.
func (s *State) Scroll(scrollY, viewportHeight float64, layout Layout) bool {
	mid := scrollY + viewportHeight/2
	for _, sec := range Sections {
		ext, ok := layout[sec]
		if !ok || !ext.Contains(mid) {
			continue
		}
		if s.Active == sec {
			return false
		}
		s.Active = sec
		return true
	}
	return false
}

// ParseLayout decodes "id:top:height" entries separated by ";", the format the
// page script posts. Unknown section ids are ignored.
func ParseLayout(raw string) (Layout, error) {
	layout := Layout{}
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("layout entry %q: want id:top:height", entry)
		}
		top, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("layout entry %q: top: %w", entry, err)
		}
		height, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("layout entry %q: height: %w", entry, err)
		}
		if height < 0 {
			return nil, fmt.Errorf("layout entry %q: negative height", entry)
		}
		sec, ok := ParseSection(parts[0])
		if !ok {
			continue
		}
		layout[sec] = Extent{Top: top, Height: height}
	}
	return layout, nil
}
