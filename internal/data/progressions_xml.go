package data

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/lotroev/internal/progression"
)

var (
	// ErrUnknownMode is returned for a progression element of unknown type.
	ErrUnknownMode = errors.New("unknown progression type")
	// ErrMissingAttr is returned when a required XML attribute is absent.
	ErrMissingAttr = errors.New("missing required attribute")
)

// --- XML structures (progressions.xml) ---

type xmlProgressions struct {
	XMLName xml.Name         `xml:"progressions"`
	Tables  []xmlProgression `xml:",any"`
}

type xmlProgression struct {
	XMLName    xml.Name
	Identifier string     `xml:"identifier,attr"`
	Name       string     `xml:"name,attr"`
	Points     []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	X     string `xml:"x,attr"`
	Y     string `xml:"y,attr"`
	Count string `xml:"count,attr"`
}

const (
	tagLinearProgression = "linearInterpolationProgression"
	tagArrayProgression  = "arrayProgression"
)

// ParseProgressions parses progressions.xml.
//
// linearInterpolationProgression points carry x (level) and y (value).
// arrayProgression points carry y and an optional count; levels are assigned
// sequentially starting at 1. Invalid tables and points are skipped with a
// warning. If required is non-empty, only tables with those IDs are returned.
func ParseProgressions(r io.Reader, required map[string]struct{}) ([]*progression.Table, error) {
	var doc xmlProgressions
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding progressions: %w", err)
	}

	tables := make([]*progression.Table, 0, len(doc.Tables))
	for _, xt := range doc.Tables {
		if len(required) > 0 {
			if _, ok := required[xt.Identifier]; !ok {
				continue
			}
		}
		t, err := convertProgression(xt)
		if err != nil {
			slog.Warn("skipping progression table", "id", xt.Identifier, "err", err)
			continue
		}
		tables = append(tables, t)
	}

	slog.Info("parsed progression tables", "count", len(tables))
	return tables, nil
}

func convertProgression(xt xmlProgression) (*progression.Table, error) {
	if xt.Identifier == "" {
		return nil, fmt.Errorf("identifier: %w", ErrMissingAttr)
	}

	var (
		mode   progression.Mode
		points []progression.Point
	)
	switch xt.XMLName.Local {
	case tagLinearProgression:
		mode = progression.ModeLinear
		points = make([]progression.Point, 0, len(xt.Points))
		for i, p := range xt.Points {
			x, errX := strconv.Atoi(strings.TrimSpace(p.X))
			y, errY := strconv.ParseFloat(strings.TrimSpace(p.Y), 64)
			if errX != nil || errY != nil {
				slog.Warn("skipping invalid point", "table", xt.Identifier, "index", i, "x", p.X, "y", p.Y)
				continue
			}
			points = append(points, progression.Point{Level: x, Value: y})
		}
	case tagArrayProgression:
		mode = progression.ModeArray
		points = make([]progression.Point, 0, len(xt.Points))
		for i, p := range xt.Points {
			y, err := strconv.ParseFloat(strings.TrimSpace(p.Y), 64)
			if err != nil {
				slog.Warn("skipping invalid point", "table", xt.Identifier, "index", i, "y", p.Y)
				continue
			}
			count := 1
			if p.Count != "" {
				if count, err = strconv.Atoi(p.Count); err != nil || count < 1 {
					slog.Warn("skipping invalid point count", "table", xt.Identifier, "index", i, "count", p.Count)
					continue
				}
			}
			for range count {
				points = append(points, progression.Point{Level: len(points) + 1, Value: y})
			}
		}
	default:
		return nil, fmt.Errorf("%q: %w", xt.XMLName.Local, ErrUnknownMode)
	}

	if len(points) == 0 {
		return nil, errors.New("table has no points")
	}
	return progression.NewTable(xt.Identifier, mode, points), nil
}
