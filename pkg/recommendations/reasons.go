package recommendations

import (
	"fmt"
	"strings"
)

const (
	reasonHighRating = "Hoog beoordeelde route"
	reasonDuration   = "Past bij je gewenste tijdsduur"
	reasonRegion     = "Ligt in een van je favoriete regio's"
	reasonStyle      = "Sluit aan bij je reisstijl"
	reasonActivity   = "Lijkt op routes die je onlangs bekeek"
	reasonSeasonal   = "Perfect voor dit seizoen"
	reasonFallback   = "Aanbevolen op basis van je profiel"
)

func categoryReason(category string) string {
	return fmt.Sprintf("Past bij je interesse in %s", category)
}

// JoinReasons renders reasons as "a", "a en b" or "a, b en c".
func JoinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return reasonFallback
	case 1:
		return reasons[0]
	case 2:
		return reasons[0] + " en " + reasons[1]
	default:
		last := len(reasons) - 1
		return strings.Join(reasons[:last], ", ") + " en " + reasons[last]
	}
}
