// Package cache stores computed difficulty attributes in sqlite, keyed by
// the map file checksum, the mods and the passed object count.
package cache

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"osustars/mods"
	"osustars/stars"
)

// schemaVersion is bumped whenever evaluation or keying changes so stale rows are ignored.
const schemaVersion = 2

const createTable = `
CREATE TABLE IF NOT EXISTS attributes (
	checksum     TEXT    NOT NULL,
	mods         INTEGER NOT NULL,
	passed       INTEGER NOT NULL,
	version      INTEGER NOT NULL,
	ar           REAL    NOT NULL,
	hp           REAL    NOT NULL,
	od           REAL    NOT NULL,
	aim          REAL    NOT NULL,
	speed        REAL    NOT NULL,
	flashlight   REAL    NOT NULL,
	n_circles    INTEGER NOT NULL,
	n_sliders    INTEGER NOT NULL,
	n_spinners   INTEGER NOT NULL,
	max_combo    INTEGER NOT NULL,
	stars        REAL    NOT NULL,
	PRIMARY KEY (checksum, mods, passed)
)`

type Key struct {
	Checksum string
	// Mods that cannot change the result are ignored, so HR and HDHR share an entry.
	Mods mods.Mods
	// Passed is stars.AllObjects for a full play.
	Passed int
}

// Checksum is the hex MD5 of a map file, the same hash osu! uses to identify maps.
func Checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

type Cache struct {
	db *sql.DB
}

func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	// sqlite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get reports false when there is no up to date entry for key.
func (c *Cache) Get(ctx context.Context, key Key) (stars.DifficultyAttributes, bool, error) {
	var (
		a       stars.DifficultyAttributes
		version int
	)

	row := c.db.QueryRowContext(ctx, `
		SELECT version, ar, hp, od, aim, speed, flashlight,
		       n_circles, n_sliders, n_spinners, max_combo, stars
		FROM attributes
		WHERE checksum = ? AND mods = ? AND passed = ?`,
		key.Checksum, uint32(key.Mods.DifficultyMods()), normalizePassed(key.Passed),
	)

	err := row.Scan(
		&version, &a.AR, &a.HP, &a.OD, &a.AimRating, &a.SpeedRating, &a.FlashlightRating,
		&a.NCircles, &a.NSliders, &a.NSpinners, &a.MaxCombo, &a.Stars,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return stars.DifficultyAttributes{}, false, nil
	}
	if err != nil {
		return stars.DifficultyAttributes{}, false, fmt.Errorf("read cache %s: %w", key.Checksum, err)
	}

	if version != schemaVersion {
		return stars.DifficultyAttributes{}, false, nil
	}

	return a, true, nil
}

func (c *Cache) Put(ctx context.Context, key Key, a stars.DifficultyAttributes) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO attributes (
			checksum, mods, passed, version, ar, hp, od, aim, speed, flashlight,
			n_circles, n_sliders, n_spinners, max_combo, stars
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key.Checksum, uint32(key.Mods.DifficultyMods()), normalizePassed(key.Passed), schemaVersion,
		a.AR, a.HP, a.OD, a.AimRating, a.SpeedRating, a.FlashlightRating,
		a.NCircles, a.NSliders, a.NSpinners, a.MaxCombo, a.Stars,
	)
	if err != nil {
		return fmt.Errorf("write cache %s: %w", key.Checksum, err)
	}

	return nil
}

// normalizePassed folds every negative count onto stars.AllObjects.
func normalizePassed(passed int) int {
	if passed < 0 {
		return stars.AllObjects
	}

	return passed
}
