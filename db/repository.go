package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// MaxTopStyles is the number of slots stored per favourites list.
const MaxTopStyles = 10

// timestampLayout is the format of SQLite's CURRENT_TIMESTAMP.
const timestampLayout = "2006-01-02 15:04:05"

// Repository errors.
var (
	// ErrInvalidProfile is returned for profile ids that are empty, too long
	// or contain characters other than letters, digits, '.', '_' and '-'.
	ErrInvalidProfile = errors.New("db: invalid profile id")

	// ErrTooManyStyles is returned when a favourites list exceeds MaxTopStyles.
	ErrTooManyStyles = errors.New("db: too many top styles")

	// ErrMalformedRecord is returned when a stored row cannot be decoded.
	ErrMalformedRecord = errors.New("db: malformed record")
)

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ValidateProfile checks a profile id.
// This is a pure function with no side effects.
func ValidateProfile(profile string) error {
	if !profilePattern.MatchString(profile) {
		return fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}
	return nil
}

// Customization is the stored customization text of a profile.
type Customization struct {
	ID        string
	Profile   string
	Text      string
	UpdatedAt time.Time
}

// Repository reads and writes the favourites tables.
type Repository struct {
	db *Database
}

// NewRepository creates a Repository backed by db.
func NewRepository(db *Database) *Repository {
	return &Repository{db: db}
}

// SaveTopStyles replaces the favourites list of profile. Empty names are
// stored as empty slots so positions are preserved.
func (r *Repository) SaveTopStyles(ctx context.Context, profile string, names []string) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	if len(names) > MaxTopStyles {
		return fmt.Errorf("%w: %d > %d", ErrTooManyStyles, len(names), MaxTopStyles)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM top_styles WHERE profile = ?`, profile); err != nil {
			return fmt.Errorf("failed to clear top styles: %w", err)
		}
		for i, name := range names {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO top_styles (id, profile, position, style_name) VALUES (?, ?, ?, ?)`,
				uuid.NewString(), profile, i, name)
			if err != nil {
				return fmt.Errorf("failed to insert top style %d: %w", i, err)
			}
		}
		return nil
	})
}

// LoadTopStyles returns the favourites list of profile in slot order.
// A profile without a list yields an empty slice.
func (r *Repository) LoadTopStyles(ctx context.Context, profile string) ([]string, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	conn, release, err := r.db.conn()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := conn.QueryContext(ctx,
		`SELECT position, style_name FROM top_styles WHERE profile = ? ORDER BY position`, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to query top styles: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var position int
		var name string
		if err := rows.Scan(&position, &name); err != nil {
			return nil, fmt.Errorf("failed to scan top style: %w", err)
		}
		if position < 0 || position >= MaxTopStyles {
			continue
		}
		for len(names) < position {
			names = append(names, "")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read top styles: %w", err)
	}
	return names, nil
}

// SaveCustomization stores the customization text of profile, replacing
// any previous text.
func (r *Repository) SaveCustomization(ctx context.Context, profile, text string) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO custom_styles (id, profile, text) VALUES (?, ?, ?)
			ON CONFLICT(profile) DO UPDATE SET
				text = excluded.text,
				updated_at = CURRENT_TIMESTAMP`,
			uuid.NewString(), profile, text)
		if err != nil {
			return fmt.Errorf("failed to save customization: %w", err)
		}
		return nil
	})
}

// LoadCustomization returns the customization of profile. The boolean is
// false when the profile has none.
func (r *Repository) LoadCustomization(ctx context.Context, profile string) (Customization, bool, error) {
	if err := ValidateProfile(profile); err != nil {
		return Customization{}, false, err
	}
	conn, release, err := r.db.conn()
	if err != nil {
		return Customization{}, false, err
	}
	defer release()

	var c Customization
	var updatedAt string
	err = conn.QueryRowContext(ctx,
		`SELECT id, profile, text, updated_at FROM custom_styles WHERE profile = ?`, profile,
	).Scan(&c.ID, &c.Profile, &c.Text, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Customization{}, false, nil
	}
	if err != nil {
		return Customization{}, false, fmt.Errorf("failed to load customization: %w", err)
	}
	c.UpdatedAt, err = time.Parse(timestampLayout, updatedAt)
	if err != nil {
		return Customization{}, false, fmt.Errorf("%w: customization of %s has updated_at %q", ErrMalformedRecord, profile, updatedAt)
	}
	return c, true, nil
}

// DeleteProfile removes everything stored for profile and reports how many
// rows were deleted.
func (r *Repository) DeleteProfile(ctx context.Context, profile string) (int64, error) {
	if err := ValidateProfile(profile); err != nil {
		return 0, err
	}

	var total int64
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range profileTables {
			res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE profile = ?", profile)
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected for %s: %w", table, err)
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// profileTables lists the tables keyed by profile.
var profileTables = []string{"top_styles", "custom_styles"}
