package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/devconnect/internal/model"
	"github.com/lib/pq"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
// SNSリンクはJSONBオブジェクト、職歴・学歴はJSONB配列として保存する。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

const profileSelect = `SELECT p.id, p.user_id, u.name, u.avatar,
	p.company, p.website, p.location, p.bio, p.status, p.githubusername,
	p.skills, p.social, p.experience, p.education, p.created_at
	FROM profiles p JOIN users u ON u.id = p.user_id`

// FindByUserID はユーザーIDでプロフィールを取得する。見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := scanProfile(r.db.QueryRowContext(ctx,
		profileSelect+` WHERE p.user_id = $1`, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by user ID: %w", err)
	}
	return profile, nil
}

// List は全プロフィールを作成順で返す。
func (r *PostgresProfileRepo) List(ctx context.Context) ([]*model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, profileSelect+` ORDER BY p.created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*model.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// Upsert は疎なフィールド集合でプロフィールを作成または部分更新する。
// UNIQUE(user_id)制約を利用したINSERT ON CONFLICTで、未指定（NULL）の列は既存値を維持し、
// SNSリンクはキー単位でマージする。
func (r *PostgresProfileRepo) Upsert(ctx context.Context, userID string, fields model.ProfileFields) (*model.Profile, error) {
	social, err := json.Marshal(socialToMap(fields.Social))
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, company, website, location, bio, status, githubusername, skills, social, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id) DO UPDATE SET
		   company        = COALESCE(EXCLUDED.company, profiles.company),
		   website        = COALESCE(EXCLUDED.website, profiles.website),
		   location       = COALESCE(EXCLUDED.location, profiles.location),
		   bio            = COALESCE(EXCLUDED.bio, profiles.bio),
		   status         = COALESCE(EXCLUDED.status, profiles.status),
		   githubusername = COALESCE(EXCLUDED.githubusername, profiles.githubusername),
		   skills         = COALESCE(EXCLUDED.skills, profiles.skills),
		   social         = profiles.social || EXCLUDED.social`,
		uuid.New().String(), userID,
		nullString(fields.Company), nullString(fields.Website), nullString(fields.Location),
		nullString(fields.Bio), nullString(fields.Status), nullString(fields.GitHubUsername),
		pq.Array(fields.Skills), social, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	profile, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile for user %s disappeared after upsert", userID)
	}
	return profile, nil
}

// MutateByUserID はプロフィールをSELECT FOR UPDATEでロックしてfnを適用し、職歴・学歴を書き戻す。
func (r *PostgresProfileRepo) MutateByUserID(ctx context.Context, userID string, fn func(profile *model.Profile) error) (*model.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	profile, err := scanProfile(tx.QueryRowContext(ctx,
		profileSelect+` WHERE p.user_id = $1 FOR UPDATE OF p`, userID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	if err := fn(profile); err != nil {
		return nil, err
	}

	experience, err := marshalList(profile.Experience)
	if err != nil {
		return nil, err
	}
	education, err := marshalList(profile.Education)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE profiles SET experience = $2, education = $3 WHERE user_id = $1`,
		userID, experience, education,
	); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return profile, nil
}

func scanProfile(row scanner) (*model.Profile, error) {
	p := &model.Profile{}
	var (
		company, website, location, bio, status, github sql.NullString
		skills                                          pq.StringArray
		social, experience, education                   []byte
	)
	if err := row.Scan(
		&p.ID, &p.User.ID, &p.User.Name, &p.User.Avatar,
		&company, &website, &location, &bio, &status, &github,
		&skills, &social, &experience, &education, &p.CreatedAt,
	); err != nil {
		return nil, err
	}

	p.Company = company.String
	p.Website = website.String
	p.Location = location.String
	p.Bio = bio.String
	p.Status = status.String
	p.GitHubUsername = github.String
	p.Skills = []string(skills)

	if err := unmarshalJSONB(social, &p.Social); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(experience, &p.Experience); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(education, &p.Education); err != nil {
		return nil, err
	}
	return p, nil
}

// socialToMap は指定されたSNSリンクのみを含むマップを返す。
func socialToMap(s model.SocialFields) map[string]string {
	m := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			m[key] = *v
		}
	}
	set("youtube", s.YouTube)
	set("facebook", s.Facebook)
	set("twitter", s.Twitter)
	set("instagram", s.Instagram)
	set("linkedin", s.LinkedIn)
	return m
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
