package model

import (
	"fmt"
	"sort"
)

// ItemTemplate is the authored definition of an item from items.xml.
// Stat values are not stored; each StatRef points at a progression table
// and is resolved for a concrete item level on demand.
//
// The item kind is a tagged variant: Kind selects which of the optional
// payloads (Equipment, Weapon, Essence) is populated.
type ItemTemplate struct {
	Key       int64  // item identifier from XML
	Name      string // e.g. "Vivid Essence of Might"
	BaseLevel int    // authored item level
	Quality   Quality
	Icon      string // hyphen-separated icon IDs
	Kind      ItemKind

	Stats []StatRef // sorted by Order

	Equipment *Equipment // KindEquipment and KindWeapon
	Weapon    *Weapon    // KindWeapon only
	Essence   *Essence   // KindEssence only
}

// ItemKind selects the item variant.
type ItemKind int8

const (
	KindItem ItemKind = iota
	KindEquipment
	KindWeapon
	KindEssence
)

// String returns the storage name of the kind.
func (k ItemKind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindEquipment:
		return "equipment"
	case KindWeapon:
		return "weapon"
	case KindEssence:
		return "essence"
	default:
		return "unknown"
	}
}

// ParseItemKind parses the storage name produced by ItemKind.String.
func ParseItemKind(s string) (ItemKind, error) {
	switch s {
	case "item":
		return KindItem, nil
	case "equipment":
		return KindEquipment, nil
	case "weapon":
		return KindWeapon, nil
	case "essence":
		return KindEssence, nil
	default:
		return KindItem, fmt.Errorf("unknown item kind %q", s)
	}
}

// StatRef binds a stat name to a progression table.
// Order reproduces the authored order and is the display order.
type StatRef struct {
	Name    string
	TableID string
	Order   int
}

// Equipment holds fields shared by wearable items (armour, jewellery, weapons).
type Equipment struct {
	Slot       string // e.g. "NECK", "MAIN_HAND"
	ArmourType string // "HEAVY", "MEDIUM", "LIGHT" or empty
	Scaling    string
	Sockets    SocketCounts
}

// Weapon holds weapon-only fields.
type Weapon struct {
	BaseDPS    float64 // flat authored DPS, 0 if unknown
	DPSTableID string  // empty when the weapon does not scale
	MinDamage  int
	MaxDamage  int
	DamageType string // e.g. "COMMON", "WESTERNESSE"
	WeaponType string // e.g. "BOW", "ONE_HANDED_SWORD"
}

// Essence holds essence-only fields.
type Essence struct {
	Tier int
	Type int // essence type code, see EssenceTypeName
}

var essenceTypeNames = map[int]string{
	1:  "Basic",
	18: "PVP",
	19: "Cloak",
	20: "Necklace",
	22: "Primary",
	23: "Vital",
}

// TypeName returns the readable essence type, or "Unknown (N)".
func (e *Essence) TypeName() string {
	if name, ok := essenceTypeNames[e.Type]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", e.Type)
}

// NewItem creates a plain item.
func NewItem(key int64, name string, baseLevel int, quality Quality, stats []StatRef) *ItemTemplate {
	return &ItemTemplate{
		Key:       key,
		Name:      name,
		BaseLevel: baseLevel,
		Quality:   quality,
		Kind:      KindItem,
		Stats:     sortStats(stats),
	}
}

// NewEquipmentItem creates an equipment item.
func NewEquipmentItem(key int64, name string, baseLevel int, quality Quality, stats []StatRef, eq Equipment) *ItemTemplate {
	t := NewItem(key, name, baseLevel, quality, stats)
	t.Kind = KindEquipment
	t.Equipment = &eq
	return t
}

// NewWeaponItem creates a weapon. Weapons are equipment too.
func NewWeaponItem(key int64, name string, baseLevel int, quality Quality, stats []StatRef, eq Equipment, w Weapon) *ItemTemplate {
	t := NewEquipmentItem(key, name, baseLevel, quality, stats, eq)
	t.Kind = KindWeapon
	t.Weapon = &w
	return t
}

// NewEssenceItem creates an essence.
func NewEssenceItem(key int64, name string, baseLevel int, quality Quality, stats []StatRef, e Essence) *ItemTemplate {
	t := NewItem(key, name, baseLevel, quality, stats)
	t.Kind = KindEssence
	t.Essence = &e
	return t
}

// IsEquipment returns true for equipment and weapons.
func (t *ItemTemplate) IsEquipment() bool {
	return t.Equipment != nil && (t.Kind == KindEquipment || t.Kind == KindWeapon)
}

// IsWeapon returns true if this template is a weapon.
func (t *ItemTemplate) IsWeapon() bool {
	return t.Kind == KindWeapon && t.Weapon != nil
}

// IsEssence returns true if this template is an essence.
func (t *ItemTemplate) IsEssence() bool {
	return t.Kind == KindEssence && t.Essence != nil
}

// Sockets returns socket counts; non-equipment items have none.
func (t *ItemTemplate) Sockets() SocketCounts {
	if t.Equipment == nil {
		return SocketCounts{}
	}
	return t.Equipment.Sockets
}

// Stat returns the stat reference with the given name.
func (t *ItemTemplate) Stat(name string) (StatRef, bool) {
	for _, s := range t.Stats {
		if s.Name == name {
			return s, true
		}
	}
	return StatRef{}, false
}

func sortStats(stats []StatRef) []StatRef {
	out := make([]StatRef, len(stats))
	copy(out, stats)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
