package catalogue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"housemem/common"
)

// ErrNoCatalogue is returned when the catalogue database does not exist.
var ErrNoCatalogue = errors.New("catalogue: database not found")

// Schema creates the catalogue tables.
const Schema = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	additional_data INTEGER NOT NULL DEFAULT 0,
	search_category INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS stains (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	color INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS furniture (
	id INTEGER PRIMARY KEY,
	item_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS yard_objects (
	id INTEGER PRIMARY KEY,
	item_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS united_exteriors (
	group_id INTEGER NOT NULL,
	part_item_id INTEGER NOT NULL,
	PRIMARY KEY (group_id, part_item_id)
);
CREATE TABLE IF NOT EXISTS land_sets (
	territory_id INTEGER NOT NULL,
	plot_index INTEGER NOT NULL,
	land_range INTEGER NOT NULL,
	placard_id INTEGER NOT NULL,
	unknown_range1 INTEGER NOT NULL,
	initial_price INTEGER NOT NULL,
	size INTEGER NOT NULL,
	PRIMARY KEY (territory_id, plot_index)
);
`

// OpenSQLite loads a catalogue database into memory.
func OpenSQLite(ctx context.Context, path string, logger common.Logger) (*Catalogue, error) {
	if logger == nil {
		logger = common.NewNoOpLogger()
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoCatalogue, path)
		}
		return nil, fmt.Errorf("stat catalogue: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	b := NewBuilder()
	if err := loadItems(ctx, db, b); err != nil {
		return nil, err
	}
	if err := loadStains(ctx, db, b); err != nil {
		return nil, err
	}
	if err := loadObjects(ctx, db, b); err != nil {
		return nil, err
	}
	if err := loadUnited(ctx, db, b); err != nil {
		return nil, err
	}
	if err := loadLandSets(ctx, db, b); err != nil {
		return nil, err
	}
	c := b.Build()

	st := c.Stats()
	logger.Logf(common.SeverityInfo, "Loaded %d landset rows", st.LandSetRows)
	logger.Logf(common.SeverityInfo, "Loaded %d furniture", st.Furniture)
	logger.Logf(common.SeverityInfo, "Loaded %d yard objects", st.YardObjects)
	logger.Logf(common.SeverityInfo, "Loaded %d united parts", st.UnitedParts)
	logger.Logf(common.SeverityInfo, "Loaded %d stain infos", st.Stains)
	logger.Logf(common.SeverityInfo, "Loaded %d items with AdditionalData", st.Fixtures)
	return c, nil
}

func loadItems(ctx context.Context, db *sql.DB, b *Builder) error {
	rows, err := db.QueryContext(ctx, `SELECT id, name, additional_data, search_category FROM items`)
	if err != nil {
		return fmt.Errorf("select items: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.AdditionalData, &it.SearchCategory); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		b.AddItem(it)
	}
	return rows.Err()
}

func loadStains(ctx context.Context, db *sql.DB, b *Builder) error {
	rows, err := db.QueryContext(ctx, `SELECT id, name, color FROM stains`)
	if err != nil {
		return fmt.Errorf("select stains: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var s Stain
		if err := rows.Scan(&s.ID, &s.Name, &s.Color); err != nil {
			return fmt.Errorf("scan stain: %w", err)
		}
		b.AddStain(s)
	}
	return rows.Err()
}

func loadObjects(ctx context.Context, db *sql.DB, b *Builder) error {
	for _, table := range []string{"furniture", "yard_objects"} {
		rows, err := db.QueryContext(ctx, `SELECT id, item_id FROM `+table)
		if err != nil {
			return fmt.Errorf("select %s: %w", table, err)
		}
		for rows.Next() {
			var id, itemID uint32
			if err := rows.Scan(&id, &itemID); err != nil {
				_ = rows.Close()
				return fmt.Errorf("scan %s: %w", table, err)
			}
			if table == "furniture" {
				b.AddFurniture(Furniture{ID: id, ItemID: itemID})
			} else {
				b.AddYardObject(YardObject{ID: id, ItemID: itemID})
			}
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", table, err)
		}
	}
	return nil
}

func loadUnited(ctx context.Context, db *sql.DB, b *Builder) error {
	rows, err := db.QueryContext(ctx, `SELECT group_id, part_item_id FROM united_exteriors ORDER BY group_id`)
	if err != nil {
		return fmt.Errorf("select united_exteriors: %w", err)
	}
	defer func() { _ = rows.Close() }()
	groups := make(map[uint32][]uint32)
	var order []uint32
	for rows.Next() {
		var group, part uint32
		if err := rows.Scan(&group, &part); err != nil {
			return fmt.Errorf("scan united exterior: %w", err)
		}
		if _, ok := groups[group]; !ok {
			order = append(order, group)
		}
		groups[group] = append(groups[group], part)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, g := range order {
		b.AddUnitedExterior(g, groups[g]...)
	}
	return nil
}

func loadLandSets(ctx context.Context, db *sql.DB, b *Builder) error {
	rows, err := db.QueryContext(ctx, `SELECT territory_id, land_range, placard_id, unknown_range1, initial_price, size
		FROM land_sets ORDER BY territory_id, plot_index`)
	if err != nil {
		return fmt.Errorf("select land_sets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	byTerritory := make(map[uint32][]LandSetRow)
	var order []uint32
	for rows.Next() {
		var terr uint32
		var r LandSetRow
		if err := rows.Scan(&terr, &r.LandRange, &r.PlacardID, &r.UnknownRange1, &r.InitialPrice, &r.Size); err != nil {
			return fmt.Errorf("scan land set: %w", err)
		}
		if _, ok := byTerritory[terr]; !ok {
			order = append(order, terr)
		}
		byTerritory[terr] = append(byTerritory[terr], r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, terr := range order {
		b.AddLandSets(terr, byTerritory[terr])
	}
	return nil
}

// WriteSQLite stores c in a new or existing database at path, replacing its contents.
func WriteSQLite(ctx context.Context, path string, c *Catalogue) (retErr error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"items", "stains", "furniture", "yard_objects", "united_exteriors", "land_sets"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, it := range c.items {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (id, name, additional_data, search_category) VALUES (?, ?, ?, ?)`,
			it.ID, it.Name, it.AdditionalData, it.SearchCategory); err != nil {
			return fmt.Errorf("insert item %d: %w", it.ID, err)
		}
	}
	for _, s := range c.stains {
		if _, err := tx.ExecContext(ctx, `INSERT INTO stains (id, name, color) VALUES (?, ?, ?)`,
			s.ID, s.Name, s.Color); err != nil {
			return fmt.Errorf("insert stain %d: %w", s.ID, err)
		}
	}
	for _, f := range c.furniture {
		if _, err := tx.ExecContext(ctx, `INSERT INTO furniture (id, item_id) VALUES (?, ?)`, f.ID, f.ItemID); err != nil {
			return fmt.Errorf("insert furniture %d: %w", f.ID, err)
		}
	}
	for _, y := range c.yard {
		if _, err := tx.ExecContext(ctx, `INSERT INTO yard_objects (id, item_id) VALUES (?, ?)`, y.ID, y.ItemID); err != nil {
			return fmt.Errorf("insert yard object %d: %w", y.ID, err)
		}
	}
	for part, group := range c.united {
		if _, err := tx.ExecContext(ctx, `INSERT INTO united_exteriors (group_id, part_item_id) VALUES (?, ?)`,
			group, part); err != nil {
			return fmt.Errorf("insert united exterior %d: %w", part, err)
		}
	}
	for terr, sets := range c.landSets {
		for _, ls := range sortedLandSets(sets) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO land_sets
				(territory_id, plot_index, land_range, placard_id, unknown_range1, initial_price, size)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				terr, ls.PlotIndex, ls.LandRange, ls.PlacardID, ls.UnknownRange1, ls.InitialPrice, uint8(ls.Size)); err != nil {
				return fmt.Errorf("insert land set %d/%d: %w", terr, ls.PlotIndex, err)
			}
		}
	}
	return tx.Commit()
}

func sortedLandSets(sets map[uint32]CommonLandSet) []CommonLandSet {
	out := make([]CommonLandSet, 0, len(sets))
	for _, ls := range sets {
		out = append(out, ls)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlotIndex < out[j].PlotIndex })
	return out
}
