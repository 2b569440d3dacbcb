package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

var _ repository.ShowRepository = (*DB)(nil)

// CreateShow inserts show after checking, inside the same transaction, that
// both referenced rows exist. The foreign keys still back this up if a
// referenced row disappears between the check and the insert.
func (db *DB) CreateShow(ctx context.Context, show *model.Show) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := db.exists(ctx, tx, "artists", show.ArtistID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Integrity(fmt.Sprintf("artist %d does not exist", show.ArtistID), nil)
		}

		ok, err = db.exists(ctx, tx, "venues", show.VenueID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Integrity(fmt.Sprintf("venue %d does not exist", show.VenueID), nil)
		}

		id, err := db.insert(ctx, tx,
			`INSERT INTO shows (start_time, artist_id, venue_id) VALUES (?, ?, ?)`,
			show.StartTime.UTC(), show.ArtistID, show.VenueID,
		)
		if err != nil {
			return err
		}
		show.ID = id
		return nil
	})
	return db.translateErr("creating show", err)
}

// ListShows joins shows with their artist and venue.
func (db *DB) ListShows(ctx context.Context, filter repository.ShowFilter) ([]model.ShowListing, error) {
	var (
		where []string
		args  []any
	)
	if filter.VenueID != 0 {
		where = append(where, "s.venue_id = ?")
		args = append(args, filter.VenueID)
	}
	if filter.ArtistID != 0 {
		where = append(where, "s.artist_id = ?")
		args = append(args, filter.ArtistID)
	}

	query := `SELECT s.id, s.start_time, v.id, v.name, v.image_link, a.id, a.name, a.image_link
		FROM shows s
		JOIN venues v ON v.id = s.venue_id
		JOIN artists a ON a.id = s.artist_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.start_time, s.id"

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, db.translateErr("listing shows", err)
	}
	defer rows.Close()

	shows := []model.ShowListing{}
	for rows.Next() {
		var s model.ShowListing
		if err := rows.Scan(
			&s.ShowID, &s.StartsAt,
			&s.VenueID, &s.VenueName, &s.VenueImageLink,
			&s.ArtistID, &s.ArtistName, &s.ArtistImageLink,
		); err != nil {
			return nil, fmt.Errorf("sqlstore: scanning show row: %w", err)
		}
		s.StartsAt = s.StartsAt.UTC()
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, db.translateErr("listing shows", err)
	}
	return shows, nil
}
