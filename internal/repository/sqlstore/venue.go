package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

var _ repository.VenueRepository = (*DB)(nil)

const venueColumns = `id, name, city, state, address, phone, image_link, facebook_link,
	website_link, genres, seeking_talent, seeking_description, created_at, updated_at`

func scanVenue(row rowScanner) (model.Venue, error) {
	var v model.Venue
	err := row.Scan(
		&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone,
		&v.ImageLink, &v.FacebookLink, &v.WebsiteLink, &v.GenreList,
		&v.SeekingTalent, &v.SeekingDescription, &v.CreatedAt, &v.UpdatedAt,
	)
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, err
}

// CreateVenue inserts venue and fills in its ID and timestamps.
func (db *DB) CreateVenue(ctx context.Context, venue *model.Venue) error {
	ts := now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		id, err := db.insert(ctx, tx,
			`INSERT INTO venues (name, city, state, address, phone, image_link, facebook_link,
				website_link, genres, seeking_talent, seeking_description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			venue.Name, venue.City, venue.State, venue.Address, venue.Phone,
			venue.ImageLink, venue.FacebookLink, venue.WebsiteLink, venue.GenreList,
			venue.SeekingTalent, venue.SeekingDescription, ts, ts,
		)
		if err != nil {
			return err
		}
		venue.ID = id
		return nil
	})
	if err != nil {
		return db.translateErr("creating venue", err)
	}

	venue.CreatedAt = ts
	venue.UpdatedAt = ts
	return nil
}

// GetVenue returns apperror.ErrNotFound when no venue has the id.
func (db *DB) GetVenue(ctx context.Context, id int64) (*model.Venue, error) {
	row := db.conn.QueryRowContext(ctx,
		db.rebind(`SELECT `+venueColumns+` FROM venues WHERE id = ?`), id)

	v, err := scanVenue(row)
	if err != nil {
		return nil, db.notFoundOr("venue", id, fmt.Sprintf("getting venue %d", id), err)
	}
	return &v, nil
}

// ListVenues returns every venue ordered by state, city, then name.
func (db *DB) ListVenues(ctx context.Context) ([]model.Venue, error) {
	return db.queryVenues(ctx, "listing venues",
		`SELECT `+venueColumns+` FROM venues ORDER BY state, city, name, id`)
}

// SearchVenues returns venues whose name, city or state contains term,
// ignoring case.
func (db *DB) SearchVenues(ctx context.Context, term string) ([]model.Venue, error) {
	pattern := containsPattern(term)
	return db.queryVenues(ctx, "searching venues",
		`SELECT `+venueColumns+` FROM venues
		 WHERE `+db.containsClause("name", "city", "state")+`
		 ORDER BY name, id`,
		pattern, pattern, pattern)
}

func (db *DB) queryVenues(ctx context.Context, op, query string, args ...any) ([]model.Venue, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, db.translateErr(op, err)
	}
	defer rows.Close()

	venues := []model.Venue{}
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scanning venue row: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, db.translateErr(op, err)
	}
	return venues, nil
}

// UpdateVenue overwrites every editable column of venue.
func (db *DB) UpdateVenue(ctx context.Context, venue *model.Venue) error {
	ts := now()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, db.rebind(
			`UPDATE venues
			 SET name = ?, city = ?, state = ?, address = ?, phone = ?, image_link = ?,
				 facebook_link = ?, website_link = ?, genres = ?, seeking_talent = ?,
				 seeking_description = ?, updated_at = ?
			 WHERE id = ?`),
			venue.Name, venue.City, venue.State, venue.Address, venue.Phone, venue.ImageLink,
			venue.FacebookLink, venue.WebsiteLink, venue.GenreList, venue.SeekingTalent,
			venue.SeekingDescription, ts, venue.ID,
		)
		if err != nil {
			return err
		}
		return checkAffected(res, "venue", venue.ID)
	})
	if err != nil {
		return db.translateErr(fmt.Sprintf("updating venue %d", venue.ID), err)
	}

	venue.UpdatedAt = ts
	return nil
}

// DeleteVenue removes the venue and its shows in one transaction. The shows
// are deleted explicitly so the result does not depend on ON DELETE CASCADE
// being honoured by the driver.
func (db *DB) DeleteVenue(ctx context.Context, id int64) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			db.rebind(`DELETE FROM shows WHERE venue_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM venues WHERE id = ?`), id)
		if err != nil {
			return err
		}
		return checkAffected(res, "venue", id)
	})
	return db.translateErr(fmt.Sprintf("deleting venue %d", id), err)
}

// containsClause ORs a case-insensitive LIKE over each column.
func (db *DB) containsClause(columns ...string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s(%s) LIKE ? ESCAPE '!'", db.dialect.lower, c)
	}
	return strings.Join(parts, " OR ")
}

// containsPattern turns a search term into a LIKE pattern that matches any
// value containing the term. LIKE wildcards in the term are escaped so they
// match literally.
func containsPattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
