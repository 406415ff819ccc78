package model

import (
	"fmt"
	"strings"
)

// Quality is the item quality tier.
type Quality int8

const (
	QualityCommon Quality = iota
	QualityUncommon
	QualityRare
	QualityIncomparable
	QualityLegendary
)

// QualityCount is the number of quality tiers.
const QualityCount = int(QualityLegendary) + 1

// String returns the lowercase storage name.
func (q Quality) String() string {
	switch q {
	case QualityCommon:
		return "common"
	case QualityUncommon:
		return "uncommon"
	case QualityRare:
		return "rare"
	case QualityIncomparable:
		return "incomparable"
	case QualityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// ParseQuality parses a quality name case-insensitively ("RARE", "rare").
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return QualityCommon, nil
	case "uncommon":
		return QualityUncommon, nil
	case "rare":
		return QualityRare, nil
	case "incomparable":
		return QualityIncomparable, nil
	case "legendary":
		return QualityLegendary, nil
	default:
		return QualityCommon, fmt.Errorf("unknown quality %q", s)
	}
}
