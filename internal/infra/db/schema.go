package db

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the three relations and their indexes when they do not exist.
// Every statement is idempotent; existing tables are never altered.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("ensure schema: unsupported driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`
CREATE TABLE IF NOT EXISTS articles (
    article_id         VARCHAR(90)  PRIMARY KEY,
    headline           VARCHAR(450) NOT NULL,
    published_time     TIMESTAMPTZ  NOT NULL,
    publisher_timezone VARCHAR(90)  NOT NULL,
    article_content    TEXT,
    updated_at         TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_by         VARCHAR(45)  NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS entities (
    entity_id    SERIAL      PRIMARY KEY,
    article_id   VARCHAR(90) NOT NULL REFERENCES articles(article_id),
    entity       VARCHAR(45) NOT NULL,
    entity_value VARCHAR(90) NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_by   VARCHAR(45) NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS tags (
    tag_id     SERIAL      PRIMARY KEY,
    article_id VARCHAR(90) NOT NULL REFERENCES articles(article_id),
    tag        VARCHAR(45) NOT NULL,
    tag_value  VARCHAR(45),
    tagged_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    tagged_by  VARCHAR(45) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_published_time ON articles(published_time DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_publisher_timezone ON articles(publisher_timezone)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_article_id ON entities(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_entity_value ON entities(entity, entity_value)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_article_id ON tags(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_tag_value ON tags(tag, tag_value)`,
}

var sqliteSchema = []string{
	`
CREATE TABLE IF NOT EXISTS articles (
    article_id         TEXT     PRIMARY KEY,
    headline           TEXT     NOT NULL,
    published_time     DATETIME NOT NULL,
    publisher_timezone TEXT     NOT NULL,
    article_content    TEXT,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_by         TEXT     NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS entities (
    entity_id    INTEGER  PRIMARY KEY AUTOINCREMENT,
    article_id   TEXT     NOT NULL REFERENCES articles(article_id),
    entity       TEXT     NOT NULL,
    entity_value TEXT     NOT NULL,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_by   TEXT     NOT NULL
)`,
	`
CREATE TABLE IF NOT EXISTS tags (
    tag_id     INTEGER  PRIMARY KEY AUTOINCREMENT,
    article_id TEXT     NOT NULL REFERENCES articles(article_id),
    tag        TEXT     NOT NULL,
    tag_value  TEXT,
    tagged_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    tagged_by  TEXT     NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_published_time ON articles(published_time DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_article_id ON entities(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_entity_value ON entities(entity, entity_value)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_article_id ON tags(article_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_tag_value ON tags(tag, tag_value)`,
}
