package data

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/udisondev/lotroev/internal/model"
)

// --- XML structures (items.xml) ---

type xmlItems struct {
	XMLName xml.Name  `xml:"items"`
	Items   []xmlItem `xml:"item"`
}

type xmlItem struct {
	Key        string `xml:"key,attr"`
	Name       string `xml:"name,attr"`
	Level      string `xml:"level,attr"`
	Slot       string `xml:"slot,attr"`
	Quality    string `xml:"quality,attr"`
	Icon       string `xml:"icon,attr"`
	ArmourType string `xml:"armourType,attr"`
	Scaling    string `xml:"scaling,attr"`
	Category   string `xml:"category,attr"`
	Sockets    string `xml:"sockets,attr"`

	// Weapon
	DPS        string `xml:"dps,attr"`
	DPSTableID string `xml:"dpsTableId,attr"`
	MinDamage  string `xml:"minDamage,attr"`
	MaxDamage  string `xml:"maxDamage,attr"`
	DamageType string `xml:"damageType,attr"`
	WeaponType string `xml:"weaponType,attr"`

	// Essence
	Tier        string `xml:"tier,attr"`
	EssenceType string `xml:"essenceType,attr"`

	Stats []xmlStat `xml:"stats>stat"`
}

type xmlStat struct {
	Name    string `xml:"name,attr"`
	Scaling string `xml:"scaling,attr"`
}

// ParseItems parses items.xml into item templates.
//
// The kind of each item is derived from its attributes: category="ESSENCE"
// or an essenceType makes an essence; dpsTableId, dps or weaponType make a
// weapon; any other item with a slot is equipment; the rest are plain items.
// Stat order follows the XML; a repeated stat name keeps its first
// occurrence. Invalid items are skipped with a warning.
// keep may be nil; otherwise only items it accepts are returned.
func ParseItems(r io.Reader, keep func(*model.ItemTemplate) bool) ([]*model.ItemTemplate, error) {
	var doc xmlItems
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}

	items := make([]*model.ItemTemplate, 0, len(doc.Items))
	for _, xi := range doc.Items {
		it, err := convertItem(xi)
		if err != nil {
			slog.Warn("skipping item", "key", xi.Key, "name", xi.Name, "err", err)
			continue
		}
		if keep != nil && !keep(it) {
			continue
		}
		items = append(items, it)
	}

	slog.Info("parsed items", "total", len(doc.Items), "kept", len(items))
	return items, nil
}

func convertItem(xi xmlItem) (*model.ItemTemplate, error) {
	key, err := strconv.ParseInt(strings.TrimSpace(xi.Key), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", xi.Key, ErrMissingAttr)
	}
	level := 1
	if xi.Level != "" {
		if level, err = strconv.Atoi(xi.Level); err != nil {
			return nil, fmt.Errorf("level %q: %w", xi.Level, err)
		}
	}
	quality := model.QualityCommon
	if xi.Quality != "" {
		if quality, err = model.ParseQuality(xi.Quality); err != nil {
			return nil, err
		}
	}

	stats := make([]model.StatRef, 0, len(xi.Stats))
	seen := make(map[string]struct{}, len(xi.Stats))
	for order, s := range xi.Stats {
		if s.Name == "" || s.Scaling == "" {
			continue
		}
		if _, dup := seen[s.Name]; dup {
			slog.Warn("skipping duplicate stat", "key", key, "item", xi.Name, "stat", s.Name, "scaling", s.Scaling)
			continue
		}
		seen[s.Name] = struct{}{}
		stats = append(stats, model.StatRef{Name: s.Name, TableID: s.Scaling, Order: order})
	}

	var it *model.ItemTemplate
	switch {
	case strings.EqualFold(xi.Category, "ESSENCE") || xi.EssenceType != "":
		it = model.NewEssenceItem(key, xi.Name, level, quality, stats, model.Essence{
			Tier: parseInt(xi.Tier),
			Type: parseInt(xi.EssenceType),
		})
	case xi.DPSTableID != "" || xi.DPS != "" || xi.WeaponType != "":
		it = model.NewWeaponItem(key, xi.Name, level, quality, stats, equipmentOf(xi), model.Weapon{
			BaseDPS:    parseFloat(xi.DPS),
			DPSTableID: xi.DPSTableID,
			MinDamage:  parseInt(xi.MinDamage),
			MaxDamage:  parseInt(xi.MaxDamage),
			DamageType: xi.DamageType,
			WeaponType: xi.WeaponType,
		})
	case xi.Slot != "":
		it = model.NewEquipmentItem(key, xi.Name, level, quality, stats, equipmentOf(xi))
	default:
		it = model.NewItem(key, xi.Name, level, quality, stats)
	}
	it.Icon = xi.Icon
	return it, nil
}

func equipmentOf(xi xmlItem) model.Equipment {
	return model.Equipment{
		Slot:       xi.Slot,
		ArmourType: xi.ArmourType,
		Scaling:    xi.Scaling,
		Sockets:    model.ParseSockets(xi.Sockets),
	}
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

// RequiredTables returns the set of progression table IDs referenced by items.
func RequiredTables(items []*model.ItemTemplate) map[string]struct{} {
	out := make(map[string]struct{}, len(items)*3)
	for _, it := range items {
		for _, s := range it.Stats {
			out[s.TableID] = struct{}{}
		}
	}
	return out
}
