// Package store keeps decoded channel lists in a sqlite database so hosts can
// look channels up without re-reading the TV's list.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rjboer/GoTVChannels/internal/channel"
	"github.com/rjboer/GoTVChannels/internal/channellist"
)

// ErrNotFound is returned when no channel has the requested display number.
var ErrNotFound = errors.New("channel not found")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close() //nolint: errcheck
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
        CREATE TABLE IF NOT EXISTS channels (
            dispno   TEXT PRIMARY KEY,
            ch_type  TEXT NOT NULL,
            major_ch INTEGER NOT NULL,
            minor_ch INTEGER NOT NULL,
            ptc      INTEGER NOT NULL,
            prog_num INTEGER NOT NULL,
            title    TEXT NOT NULL DEFAULT '',
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );
    `)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Replace makes the stored list equal to channels in one transaction.
func (s *Store) Replace(ctx context.Context, channels channellist.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM channels"); err != nil {
		return fmt.Errorf("clear channels: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO channels (dispno, ch_type, major_ch, minor_ch, ptc, prog_num, title)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close() //nolint: errcheck

	for _, ch := range channels {
		if _, err := stmt.ExecContext(ctx, ch.DispNo, string(ch.Type), ch.MajorCh, ch.MinorCh, ch.PTC, ch.ProgNum, ch.Title); err != nil {
			return fmt.Errorf("store channel %s: %w", ch.DispNo, err)
		}
	}
	return tx.Commit()
}

const selectColumns = "SELECT dispno, ch_type, major_ch, minor_ch, ptc, prog_num, title FROM channels"

type scanner interface {
	Scan(dest ...any) error
}

func scanChannel(row scanner) (channel.Channel, error) {
	var (
		ch     channel.Channel
		chType string
	)
	if err := row.Scan(&ch.DispNo, &chType, &ch.MajorCh, &ch.MinorCh, &ch.PTC, &ch.ProgNum, &ch.Title); err != nil {
		return channel.Channel{}, err
	}
	ch.Type = channel.Type(chType)
	return ch, nil
}

// Channels returns every stored channel.
func (s *Store) Channels(ctx context.Context) (channellist.Collection, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close() //nolint: errcheck

	out := channellist.Collection{}
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		out[ch.DispNo] = ch
	}
	return out, rows.Err()
}

// Channel returns the channel with the given display number.
func (s *Store) Channel(ctx context.Context, dispno string) (channel.Channel, error) {
	ch, err := scanChannel(s.db.QueryRowContext(ctx, selectColumns+" WHERE dispno = ?", dispno))
	if errors.Is(err, sql.ErrNoRows) {
		return channel.Channel{}, fmt.Errorf("%s: %w", dispno, ErrNotFound)
	}
	if err != nil {
		return channel.Channel{}, fmt.Errorf("query channel %s: %w", dispno, err)
	}
	return ch, nil
}
