// cmd/seeder/main.go
package main

import (
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/AWD-Projects/xianna-campaign-service/internal/config"
	"github.com/AWD-Projects/xianna-campaign-service/internal/db"
)

var schema = `
CREATE TABLE IF NOT EXISTS campaigns (
    id               TEXT PRIMARY KEY,
    channel          TEXT NOT NULL,
    template_id      TEXT NOT NULL,
    resolved_subject TEXT NOT NULL DEFAULT '',
    resolved_body    TEXT NOT NULL DEFAULT '',
    quota_consumed   INTEGER NOT NULL DEFAULT 0,
    status           TEXT NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS campaign_outcomes (
    id              SERIAL PRIMARY KEY,
    campaign_id     TEXT NOT NULL REFERENCES campaigns(id),
    recipient_id    TEXT NOT NULL,
    status          TEXT NOT NULL,
    channel_payload TEXT NOT NULL DEFAULT '',
    error_detail    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS recipients (
    id           TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    email        TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    style        TEXT NOT NULL DEFAULT '',
    body_type    TEXT NOT NULL DEFAULT '',
    region       TEXT NOT NULL DEFAULT '',
    gender       TEXT NOT NULL DEFAULT '',
    age          TEXT NOT NULL DEFAULT '',
    occupation   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS articles (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    image_url     TEXT,
    canonical_url TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS catalog_entries (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    image_url     TEXT,
    canonical_url TEXT NOT NULL
);
`

var demoData = `
INSERT INTO recipients (id, display_name, email, phone, style, body_type, region) VALUES
    ('r-001', 'Alice', 'alice@example.com', '52 55 1234 5678', 'casual', 'rectangle', 'CDMX'),
    ('r-002', 'Bruna', 'bruna@example.com', '', 'formal', 'triangle', 'Jalisco'),
    ('r-003', 'Carla', '', '+52 81 9999 0000', 'boho', '', 'Nuevo Leon')
ON CONFLICT (id) DO NOTHING;

INSERT INTO articles (id, title, image_url, canonical_url) VALUES
    ('a-100', 'Styling basics for spring', 'https://cdn.example.com/a-100.jpg', 'https://example.com/blog/a-100')
ON CONFLICT (id) DO NOTHING;

INSERT INTO catalog_entries (id, title, image_url, canonical_url) VALUES
    ('c-200', 'Linen wrap dress', 'https://cdn.example.com/c-200.jpg', 'https://example.com/catalog/c-200')
ON CONFLICT (id) DO NOTHING;
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	for _, stmt := range []string{schema, demoData} {
		if _, err := conn.Exec(stmt); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}

	fmt.Println("Database seeding completed successfully!")
}
