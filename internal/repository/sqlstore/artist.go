package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

var _ repository.ArtistRepository = (*DB)(nil)

const artistColumns = `id, name, city, state, phone, image_link, facebook_link,
	website_link, genres, seeking_venue, seeking_description, created_at, updated_at`

func scanArtist(row rowScanner) (model.Artist, error) {
	var a model.Artist
	err := row.Scan(
		&a.ID, &a.Name, &a.City, &a.State, &a.Phone,
		&a.ImageLink, &a.FacebookLink, &a.WebsiteLink, &a.GenreList,
		&a.SeekingVenue, &a.SeekingDescription, &a.CreatedAt, &a.UpdatedAt,
	)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, err
}

// CreateArtist inserts artist and fills in its ID and timestamps.
func (db *DB) CreateArtist(ctx context.Context, artist *model.Artist) error {
	ts := now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		id, err := db.insert(ctx, tx,
			`INSERT INTO artists (name, city, state, phone, image_link, facebook_link,
				website_link, genres, seeking_venue, seeking_description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			artist.Name, artist.City, artist.State, artist.Phone,
			artist.ImageLink, artist.FacebookLink, artist.WebsiteLink, artist.GenreList,
			artist.SeekingVenue, artist.SeekingDescription, ts, ts,
		)
		if err != nil {
			return err
		}
		artist.ID = id
		return nil
	})
	if err != nil {
		return db.translateErr("creating artist", err)
	}

	artist.CreatedAt = ts
	artist.UpdatedAt = ts
	return nil
}

// GetArtist returns apperror.ErrNotFound when no artist has the id.
func (db *DB) GetArtist(ctx context.Context, id int64) (*model.Artist, error) {
	row := db.conn.QueryRowContext(ctx,
		db.rebind(`SELECT `+artistColumns+` FROM artists WHERE id = ?`), id)

	a, err := scanArtist(row)
	if err != nil {
		return nil, db.notFoundOr("artist", id, fmt.Sprintf("getting artist %d", id), err)
	}
	return &a, nil
}

// ListArtists returns every artist ordered by name.
func (db *DB) ListArtists(ctx context.Context) ([]model.Artist, error) {
	return db.queryArtists(ctx, "listing artists",
		`SELECT `+artistColumns+` FROM artists ORDER BY name, id`)
}

// SearchArtists returns artists whose name, city or state contains term,
// ignoring case.
func (db *DB) SearchArtists(ctx context.Context, term string) ([]model.Artist, error) {
	pattern := containsPattern(term)
	return db.queryArtists(ctx, "searching artists",
		`SELECT `+artistColumns+` FROM artists
		 WHERE `+db.containsClause("name", "city", "state")+`
		 ORDER BY name, id`,
		pattern, pattern, pattern)
}

func (db *DB) queryArtists(ctx context.Context, op, query string, args ...any) ([]model.Artist, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, db.translateErr(op, err)
	}
	defer rows.Close()

	artists := []model.Artist{}
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning artist row: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, db.translateErr(op, err)
	}
	return artists, nil
}

// UpdateArtist overwrites every editable column of artist.
func (db *DB) UpdateArtist(ctx context.Context, artist *model.Artist) error {
	ts := now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, db.rebind(
			`UPDATE artists
			 SET name = ?, city = ?, state = ?, phone = ?, image_link = ?, facebook_link = ?,
				 website_link = ?, genres = ?, seeking_venue = ?, seeking_description = ?,
				 updated_at = ?
			 WHERE id = ?`),
			artist.Name, artist.City, artist.State, artist.Phone, artist.ImageLink,
			artist.FacebookLink, artist.WebsiteLink, artist.GenreList, artist.SeekingVenue,
			artist.SeekingDescription, ts, artist.ID,
		)
		if err != nil {
			return err
		}
		return checkAffected(res, "artist", artist.ID)
	})
	if err != nil {
		return db.translateErr(fmt.Sprintf("updating artist %d", artist.ID), err)
	}

	artist.UpdatedAt = ts
	return nil
}
