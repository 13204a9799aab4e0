// Package app assembles the application: the database pool,
// repositories, services, handlers, the HTTP server and the job
// scheduler, in dependency order.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"gercekmi.com/backend/internal/auth"
	"gercekmi.com/backend/internal/common"
	"gercekmi.com/backend/internal/config"
	"gercekmi.com/backend/internal/db/postgres"
	"gercekmi.com/backend/internal/features/comments"
	"gercekmi.com/backend/internal/features/likes"
	"gercekmi.com/backend/internal/features/polls"
	"gercekmi.com/backend/internal/features/quota"
	"gercekmi.com/backend/internal/features/users"
	"gercekmi.com/backend/internal/features/votes"
	"gercekmi.com/backend/internal/jobs"
	"gercekmi.com/backend/internal/server"
)

// App holds the long-lived components of the service.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
}

// New wires every component. Initialization order matters; later
// components depend on earlier ones.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		pool.Close()
		return nil, err
	}
	clock := common.SystemClock{}
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenLifetime)
	tracker := quota.NewTracker(pool, cfg.DailyPollLimit)

	userRepo := users.NewRepository(pool)
	pollRepo := polls.NewRepository(pool, tracker)
	voteRepo := votes.NewRepository(pool)
	likeRepo := likes.NewRepository(pool)
	commentRepo := comments.NewRepository(pool)

	userService := users.NewService(userRepo, clock)
	pollService := polls.NewService(pollRepo, tracker, clock, loc, cfg.PollDuration, cfg.QuestionMaxLength)
	voteService := votes.NewService(voteRepo, clock)
	likeService := likes.NewService(likeRepo, clock)
	commentService := comments.NewService(commentRepo, clock, cfg.CommentMaxLength)

	handlers := server.Handlers{
		Users:    users.NewHandler(userService, tokens, clock),
		Polls:    polls.NewHandler(pollService),
		Votes:    votes.NewHandler(voteService),
		Likes:    likes.NewHandler(likeService),
		Comments: comments.NewHandler(commentService),
	}

	srv := server.New(cfg, tokens, userService, handlers)
	scheduler := jobs.NewScheduler(pool, pollRepo, tracker, clock, loc)

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		DB:        pool,
	}, nil
}

// Close releases the shared resources.
func (a *App) Close() {
	a.DB.Close()
}

// runMigrations applies the schema in order.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Categories},
		{3, migration003Polls},
		{4, migration004Votes},
		{5, migration005Likes},
		{6, migration006Comments},
		{7, migration007DailyLimits},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		log.Infof("migration %d applied", m.version)
	}
	return nil
}

// The SQL migrations are embedded so deployment needs nothing beyond
// the binary.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    username VARCHAR(64) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    display_name VARCHAR(255),
    avatar_url TEXT,
    is_editor BOOLEAN DEFAULT FALSE,
    is_active BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

var migration002Categories = `
CREATE TABLE IF NOT EXISTS categories (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(100) UNIQUE NOT NULL,
    icon VARCHAR(16) NOT NULL DEFAULT '',
    color VARCHAR(16) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW()
);
INSERT INTO categories (name, icon, color) VALUES
    ('Ekonomi', '💰', '#10b981'),
    ('Teknoloji', '💻', '#6366f1'),
    ('Spor', '⚽', '#f59e0b'),
    ('Siyaset', '🏛️', '#ef4444'),
    ('Eğlence', '🎬', '#ec4899'),
    ('Sağlık', '🏥', '#14b8a6'),
    ('Kripto', '₿', '#f97316'),
    ('Otomotiv', '🚗', '#8b5cf6')
ON CONFLICT (name) DO NOTHING;
`

var migration003Polls = `
CREATE TABLE IF NOT EXISTS polls (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id BIGINT NOT NULL REFERENCES categories(id),
    question VARCHAR(500) NOT NULL,
    gercek_votes INTEGER NOT NULL DEFAULT 0 CHECK (gercek_votes >= 0),
    efsane_votes INTEGER NOT NULL DEFAULT 0 CHECK (efsane_votes >= 0),
    likes_count INTEGER NOT NULL DEFAULT 0 CHECK (likes_count >= 0),
    comments_count INTEGER NOT NULL DEFAULT 0 CHECK (comments_count >= 0),
    is_active BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_polls_user_id ON polls(user_id);
CREATE INDEX IF NOT EXISTS idx_polls_category_id ON polls(category_id);
CREATE INDEX IF NOT EXISTS idx_polls_expires_at ON polls(expires_at);
CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC);
`

var migration004Votes = `
CREATE TABLE IF NOT EXISTS votes (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    vote_type VARCHAR(10) NOT NULL CHECK (vote_type IN ('gercek', 'efsane')),
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW(),
    CONSTRAINT votes_user_poll_unique UNIQUE (user_id, poll_id)
);
CREATE INDEX IF NOT EXISTS idx_votes_poll_id ON votes(poll_id);
`

var migration005Likes = `
CREATE TABLE IF NOT EXISTS likes (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    CONSTRAINT likes_user_poll_unique UNIQUE (user_id, poll_id)
);
CREATE INDEX IF NOT EXISTS idx_likes_poll_id ON likes(poll_id);
`

var migration006Comments = `
CREATE TABLE IF NOT EXISTS comments (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    poll_id BIGINT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    content VARCHAR(1000) NOT NULL,
    is_active BOOLEAN DEFAULT TRUE,
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_comments_poll_id ON comments(poll_id);
CREATE INDEX IF NOT EXISTS idx_comments_user_id ON comments(user_id);
`

var migration007DailyLimits = `
CREATE TABLE IF NOT EXISTS daily_poll_limits (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    poll_date VARCHAR(10) NOT NULL,
    poll_count INTEGER NOT NULL DEFAULT 1,
    CONSTRAINT daily_limits_user_date_unique UNIQUE (user_id, poll_date)
);
CREATE INDEX IF NOT EXISTS idx_daily_limits_date ON daily_poll_limits(poll_date);
`
