package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var psqlProfile = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *postgresProfileRepo) scanProfile(row pgx.Row, key profile.Key) (*profile.Profile, error) {
	p := &profile.Profile{}
	var documentBytes []byte

	err := row.Scan(&documentBytes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("profile", string(key))
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}

	createdAt, updatedAt := p.CreatedAt, p.UpdatedAt
	if err := json.Unmarshal(documentBytes, p); err != nil {
		r.logger.Warn("Failed to unmarshal profile document", zap.String("profile_key", string(key)), zap.Error(err))
		p = profile.New()
	}
	p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
	p.Normalize()
	return p, nil
}

func (r *postgresProfileRepo) Get(ctx context.Context, key profile.Key) (*profile.Profile, error) {
	query, args, err := psqlProfile.Select("document", "created_at", "updated_at").
		From("profiles").
		Where(sq.Eq{"profile_key": string(key)}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build get profile query", err)
	}
	return r.scanProfile(r.db.QueryRow(ctx, query, args...), key)
}

// FindOrCreate relies on the profile_key primary key: concurrent callers all land on
// the same row, and the no-op DO UPDATE makes RETURNING yield it either way.
func (r *postgresProfileRepo) FindOrCreate(ctx context.Context, key profile.Key) (*profile.Profile, error) {
	empty, err := json.Marshal(profile.New())
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal empty profile", err)
	}

	query := `
		INSERT INTO profiles (profile_key, document, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (profile_key) DO UPDATE SET profile_key = EXCLUDED.profile_key
		RETURNING document, created_at, updated_at
	`
	return r.scanProfile(r.db.QueryRow(ctx, query, string(key), empty), key)
}

func (r *postgresProfileRepo) Save(ctx context.Context, key profile.Key, p *profile.Profile) error {
	p.Normalize()
	p.AssignIDs(uuid.NewString)

	documentBytes, err := json.Marshal(p)
	if err != nil {
		return apperror.NewInternal("failed to marshal profile document", err)
	}

	query := `
		INSERT INTO profiles (profile_key, document, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (profile_key) DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query, string(key), documentBytes).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}
