package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/hud/internal/model"
)

// Waybar classes.
const (
	ClassEmpty     = "empty"
	ClassActive    = "active"
	ClassPermanent = "permanent"
	ClassOffline   = "offline"
)

// waybarTooltipMax bounds each tooltip line.
const waybarTooltipMax = 60

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

// NewWaybarStatus summarizes the active notifications. The class is
// "permanent" while anything pinned is on screen, "active" for timed items
// only and "empty" otherwise.
func NewWaybarStatus(notifications []model.Notification) WaybarStatus {
	if len(notifications) == 0 {
		return WaybarStatus{
			Text:    "",
			Alt:     ClassEmpty,
			Tooltip: "No notifications",
			Class:   ClassEmpty,
		}
	}

	class := ClassActive
	lines := make([]string, 0, len(notifications))
	for _, n := range notifications {
		if n.Permanent {
			class = ClassPermanent
		}
		lines = append(lines, truncate(singleLine(n.Message), waybarTooltipMax))
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%d", len(notifications)),
		Alt:        class,
		Tooltip:    strings.Join(lines, "\n"),
		Class:      class,
		Percentage: min(len(notifications), 100),
	}
}

// OfflineWaybarStatus is reported when hudd is not running.
func OfflineWaybarStatus() WaybarStatus {
	return WaybarStatus{
		Text:    "",
		Alt:     ClassOffline,
		Tooltip: "hudd is not running",
		Class:   ClassOffline,
	}
}

// Write encodes s as a single JSON line, which is what Waybar reads.
func (s WaybarStatus) Write(w io.Writer) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
