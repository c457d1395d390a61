package ui

import (
	"fmt"
	"time"

	"aetui/model"
)

// TimeAgo formats the engine's epoch timestamp as a relative age, falling
// back to an absolute date past thirty days.
func TimeAgo(epoch model.EpochString, now time.Time) string {
	updated := time.Unix(0, int64(epoch.Seconds()*float64(time.Second))).UTC()
	seconds := now.UTC().Sub(updated).Seconds()

	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds ago", int(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", int(seconds/60))
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", int(seconds/3600))
	case seconds < 30*86400:
		return fmt.Sprintf("%d days ago", int(seconds/86400))
	default:
		return updated.Format("2006-01-02")
	}
}
