package layout

// Layout holds the calculated dimensions of the screen regions.
type Layout struct {
	Width  int
	Height int

	ContentWidth  int // width of the centered content column
	FormWidth     int
	HistoryWidth  int
	ContentHeight int // height minus header and status bar

	SideBySide bool // history panel beside the form
	Compact    bool // logo and taglines collapse to a single line
}

const (
	headerHeight    = 1
	statusBarHeight = 1
	toastHeight     = 3
	maxContentWidth = 120
	minHistoryWidth = 30
	maxHistoryWidth = 44
	sideBySideWidth = 100
	compactHeight   = 24
)

// Calculate computes the layout from terminal dimensions.
func Calculate(width, height int) Layout {
	l := Layout{
		Width:         width,
		Height:        height,
		ContentHeight: height - headerHeight - statusBarHeight - toastHeight,
		Compact:       height < compactHeight || width < 60,
	}
	if l.ContentHeight < 1 {
		l.ContentHeight = 1
	}

	l.ContentWidth = width - 4
	if l.ContentWidth > maxContentWidth {
		l.ContentWidth = maxContentWidth
	}
	if l.ContentWidth < 20 {
		l.ContentWidth = max(width, 1)
	}

	if width >= sideBySideWidth {
		l.SideBySide = true
		l.HistoryWidth = clamp(l.ContentWidth/3, minHistoryWidth, maxHistoryWidth)
		l.FormWidth = l.ContentWidth - l.HistoryWidth - 2
	} else {
		l.FormWidth = l.ContentWidth
		l.HistoryWidth = l.ContentWidth
	}
	return l
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
