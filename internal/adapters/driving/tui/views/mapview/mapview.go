// Package mapview provides the map tab. The view is the mount point the
// map lifecycle draws into; it never holds a widget itself.
package mapview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/aptview/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/aptview/internal/core/domain"
	"github.com/custodia-labs/aptview/internal/core/ports/driven"
	"github.com/custodia-labs/aptview/internal/core/ports/driving"
)

// Ensure View can host a map.
var _ driven.MountPoint = (*View)(nil)

// View is the map tab.
type View struct {
	styles     *styles.Styles
	mapService driving.MapService

	total   int
	located int
	width   int
	height  int
}

// NewView creates a new map view.
func NewView(s *styles.Styles, mapService driving.MapService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:     s,
		mapService: mapService,
		width:      80,
		height:     20,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the map view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.ResultsChanged:
		v.total = len(msg.Geocoded)
		v.located = locatedCount(msg.Geocoded)
	}
	return v, nil
}

// Size reports the region available to the map.
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// View renders the live map, or a placeholder when there is none.
func (v *View) View() string {
	if v.mapService != nil {
		if out, ok := v.mapService.Render(); ok {
			return out
		}
	}

	var text string
	switch {
	case v.total == 0:
		text = "조회 결과가 있어야 지도를 표시할 수 있습니다."
	case v.located == 0:
		text = fmt.Sprintf("거래 %d건 중 좌표가 확인된 거래가 없습니다.", v.total)
	default:
		text = "지도를 표시할 수 없습니다."
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, v.styles.Muted.Render(text))
}

// Counts returns the number of geocoded rows and how many have coordinates.
func (v *View) Counts() (total, located int) {
	return v.total, v.located
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

func locatedCount(rows []domain.GeocodedTransaction) int {
	n := 0
	for i := range rows {
		if rows[i].HasCoordinates() {
			n++
		}
	}
	return n
}
