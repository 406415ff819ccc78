package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/lotroev/internal/model"
)

// ItemRepository stores item templates with their stat references and
// kind-specific attributes.
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

// Save replaces the stored items with the same keys in one transaction.
func (r *ItemRepository) Save(ctx context.Context, items []*model.ItemTemplate) error {
	if len(items) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return r.SaveTx(ctx, tx, items)
	})
}

// SaveTx replaces items within an existing transaction.
func (r *ItemRepository) SaveTx(ctx context.Context, tx pgx.Tx, items []*model.ItemTemplate) error {
	keys := make([]int64, 0, len(items))
	base := make([][]any, 0, len(items))
	var stats, equipment, weapons, essences [][]any

	for _, it := range items {
		keys = append(keys, it.Key)
		base = append(base, []any{it.Key, it.Name, it.BaseLevel, int16(it.Quality), it.Icon, it.Kind.String()})
		for i, s := range it.Stats {
			stats = append(stats, []any{it.Key, i, s.Name, s.TableID})
		}
		if eq := it.Equipment; eq != nil {
			sc := eq.Sockets
			equipment = append(equipment, []any{it.Key, eq.Slot, eq.ArmourType, eq.Scaling,
				sc.Basic, sc.Primary, sc.Vital, sc.Cloak, sc.Necklace, sc.PvP})
		}
		if w := it.Weapon; w != nil {
			weapons = append(weapons, []any{it.Key, w.BaseDPS, w.DPSTableID, w.MinDamage, w.MaxDamage, w.DamageType, w.WeaponType})
		}
		if e := it.Essence; e != nil {
			essences = append(essences, []any{it.Key, e.Tier, e.Type})
		}
	}

	// child rows cascade
	if _, err := tx.Exec(ctx, `DELETE FROM items WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"items", []string{"key", "name", "base_level", "quality", "icon", "kind"}, base},
		{"item_stats", []string{"item_key", "ord", "stat", "table_id"}, stats},
		{"item_equipment", []string{"item_key", "slot", "armour_type", "scaling",
			"sockets_basic", "sockets_primary", "sockets_vital", "sockets_cloak", "sockets_necklace", "sockets_pvp"}, equipment},
		{"item_weapons", []string{"item_key", "base_dps", "dps_table_id", "min_damage", "max_damage", "damage_type", "weapon_type"}, weapons},
		{"item_essences", []string{"item_key", "tier", "essence_type"}, essences},
	}
	for _, c := range copies {
		if len(c.rows) == 0 {
			continue
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("inserting %s: %w", c.table, err)
		}
	}

	slog.Debug("saved items",
		"items", len(items),
		"stats", len(stats),
		"weapons", len(weapons),
		"essences", len(essences))
	return nil
}

const selectItems = `
	SELECT i.key, i.name, i.base_level, i.quality, i.icon, i.kind,
	       e.item_key IS NOT NULL, COALESCE(e.slot, ''), COALESCE(e.armour_type, ''), COALESCE(e.scaling, ''),
	       COALESCE(e.sockets_basic, 0), COALESCE(e.sockets_primary, 0), COALESCE(e.sockets_vital, 0),
	       COALESCE(e.sockets_cloak, 0), COALESCE(e.sockets_necklace, 0), COALESCE(e.sockets_pvp, 0),
	       w.item_key IS NOT NULL, COALESCE(w.base_dps, 0), COALESCE(w.dps_table_id, ''),
	       COALESCE(w.min_damage, 0), COALESCE(w.max_damage, 0), COALESCE(w.damage_type, ''), COALESCE(w.weapon_type, ''),
	       s.item_key IS NOT NULL, COALESCE(s.tier, 0), COALESCE(s.essence_type, 0)
	FROM items i
	LEFT JOIN item_equipment e ON e.item_key = i.key
	LEFT JOIN item_weapons w ON w.item_key = i.key
	LEFT JOIN item_essences s ON s.item_key = i.key
`

func scanItem(row pgx.Row) (*model.ItemTemplate, error) {
	var (
		it                  model.ItemTemplate
		quality             int16
		kind                string
		hasEq, hasW, hasEss bool
		eq                  model.Equipment
		w                   model.Weapon
		ess                 model.Essence
	)
	err := row.Scan(
		&it.Key, &it.Name, &it.BaseLevel, &quality, &it.Icon, &kind,
		&hasEq, &eq.Slot, &eq.ArmourType, &eq.Scaling,
		&eq.Sockets.Basic, &eq.Sockets.Primary, &eq.Sockets.Vital,
		&eq.Sockets.Cloak, &eq.Sockets.Necklace, &eq.Sockets.PvP,
		&hasW, &w.BaseDPS, &w.DPSTableID, &w.MinDamage, &w.MaxDamage, &w.DamageType, &w.WeaponType,
		&hasEss, &ess.Tier, &ess.Type,
	)
	if err != nil {
		return nil, err
	}

	k, err := model.ParseItemKind(kind)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", it.Key, err)
	}
	it.Kind = k
	it.Quality = model.Quality(quality)
	if hasEq {
		it.Equipment = &eq
	}
	if hasW {
		it.Weapon = &w
	}
	if hasEss {
		it.Essence = &ess
	}
	return &it, nil
}

// Get loads one item by key. Returns ErrNotFound if it does not exist.
func (r *ItemRepository) Get(ctx context.Context, key int64) (*model.ItemTemplate, error) {
	it, err := scanItem(r.db.QueryRow(ctx, selectItems+` WHERE i.key = $1`, key))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("item %d: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying item %d: %w", key, err)
	}

	stats, err := r.loadStats(ctx, `WHERE item_key = $1`, key)
	if err != nil {
		return nil, err
	}
	it.Stats = stats[key]
	return it, nil
}

// LoadAll loads every stored item ordered by key.
func (r *ItemRepository) LoadAll(ctx context.Context) ([]*model.ItemTemplate, error) {
	rows, err := r.db.Query(ctx, selectItems+` ORDER BY i.key`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := make([]*model.ItemTemplate, 0, 4096)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	stats, err := r.loadStats(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		it.Stats = stats[it.Key]
	}
	return items, nil
}

func (r *ItemRepository) loadStats(ctx context.Context, where string, args ...any) (map[int64][]model.StatRef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_key, ord, stat, table_id FROM item_stats `+where+` ORDER BY item_key, ord`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying item stats: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]model.StatRef)
	for rows.Next() {
		var key int64
		var s model.StatRef
		if err := rows.Scan(&key, &s.Order, &s.Name, &s.TableID); err != nil {
			return nil, fmt.Errorf("scanning item stat: %w", err)
		}
		out[key] = append(out[key], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item stats: %w", err)
	}
	return out, nil
}

// Count returns the number of stored items of kind.
func (r *ItemRepository) Count(ctx context.Context, kind model.ItemKind) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE kind = $1`, kind.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s items: %w", kind, err)
	}
	return n, nil
}
