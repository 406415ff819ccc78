package data

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// --- XML structures (dpsTables.xml) ---

type xmlDPSTables struct {
	XMLName xml.Name        `xml:"dpsTables"`
	Tables  []xmlValueTable `xml:"valueTable"`
}

type xmlValueTable struct {
	ID         string         `xml:"id,attr"`
	Qualities  []xmlQuality   `xml:"quality"`
	BaseValues []xmlBaseValue `xml:"baseValue"`
}

type xmlQuality struct {
	Key    string `xml:"key,attr"`
	Factor string `xml:"factor,attr"`
}

type xmlBaseValue struct {
	Level string `xml:"level,attr"`
	Value string `xml:"value,attr"`
}

// ParseDPSTables parses dpsTables.xml. Tables without an id are skipped;
// invalid quality factors and base values are skipped with a warning.
func ParseDPSTables(r io.Reader) ([]*dps.Table, error) {
	var doc xmlDPSTables
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding dps tables: %w", err)
	}

	tables := make([]*dps.Table, 0, len(doc.Tables))
	for _, xt := range doc.Tables {
		if xt.ID == "" {
			continue
		}

		factors := make(map[model.Quality]float64, len(xt.Qualities))
		for _, q := range xt.Qualities {
			quality, err := model.ParseQuality(q.Key)
			if err != nil {
				slog.Warn("skipping quality factor", "table", xt.ID, "key", q.Key, "err", err)
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(q.Factor), 64)
			if err != nil {
				slog.Warn("invalid quality factor", "table", xt.ID, "key", q.Key, "factor", q.Factor)
				continue
			}
			factors[quality] = f
		}

		points := make([]progression.Point, 0, len(xt.BaseValues))
		for _, bv := range xt.BaseValues {
			lvl, errL := strconv.Atoi(strings.TrimSpace(bv.Level))
			v, errV := strconv.ParseFloat(strings.TrimSpace(bv.Value), 64)
			if errL != nil || errV != nil {
				slog.Warn("invalid base value", "table", xt.ID, "level", bv.Level, "value", bv.Value)
				continue
			}
			points = append(points, progression.Point{Level: lvl, Value: v})
		}

		tables = append(tables, dps.NewTable(xt.ID, factors, points))
	}

	slog.Info("parsed dps tables", "count", len(tables))
	return tables, nil
}
