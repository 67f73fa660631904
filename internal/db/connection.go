package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
)

const dialTimeout = 10 * time.Second

// DB wraps a single pgx session. pgbrowse never writes, so every
// session is opened with default_transaction_read_only on.
type DB struct {
	Conn  *pgx.Conn
	dsn   string
	label string
}

// Connect assembles a URI from discrete form fields and dials it.
func Connect(host, port, user, password, database string) (*DB, error) {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + database,
	}
	if user != "" {
		u.User = url.UserPassword(user, password)
	}
	return ConnectURI(u.String())
}

// ConnectURI dials a postgres URI. sslmode defaults to prefer through
// pgx, so plain URIs work against both TLS and non-TLS servers.
func ConnectURI(uri string) (*DB, error) {
	cfg, err := pgx.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	// A stray query must never write through a browse session.
	cfg.RuntimeParams["default_transaction_read_only"] = "on"
	cfg.RuntimeParams["application_name"] = "pgbrowse"

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &DB{Conn: conn, dsn: uri}
	d.label = fmt.Sprintf("%s@%s:%d/%s", cfg.User, cfg.Host, cfg.Port, cfg.Database)
	return d, nil
}

// Reconnect dials a fresh session from the original connection string
// and only then drops the old one, so a failed attempt keeps the
// current session untouched.
func (d *DB) Reconnect() error {
	fresh, err := ConnectURI(d.dsn)
	if err != nil {
		return err
	}
	if d.Conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = d.Conn.Close(ctx)
		cancel()
	}
	d.Conn = fresh.Conn
	return nil
}

// Close shuts the session down.
func (d *DB) Close() {
	if d.Conn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = d.Conn.Close(ctx)
}

// ConnInfo describes the session without exposing the password.
func (d *DB) ConnInfo() string {
	return d.label
}
