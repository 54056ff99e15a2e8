package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/upper/db/v4"
	adapter "github.com/upper/db/v4/adapter/sqlite"

	db2 "github.com/univent/univent-be/db"
	"github.com/univent/univent-be/db/migrations"
)

type SqliteDB struct {
	*PostDB
	*ChannelDB
	*UserDB
	*SessionDB
	sess  db.Session
	sqlDB *sql.DB
}

// Open connects to the sqlite file at path. The connection pool is pinned to
// a single connection so concurrent writers queue instead of hitting
// SQLITE_BUSY.
func Open(path string) (db2.Database, error) {
	sess, err := adapter.Open(adapter.ConnectionURL{
		Database: path,
		Options: map[string]string{
			"_foreign_keys": "on",
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, ok := sess.Driver().(*sql.DB)
	if !ok {
		sess.Close()
		return nil, fmt.Errorf("unexpected driver type %T", sess.Driver())
	}
	sqlDB.SetMaxOpenConns(1)

	return &SqliteDB{
		PostDB:    getPostDB(sess),
		ChannelDB: getChannelDB(sess),
		UserDB:    getUserDB(sess),
		SessionDB: getSessionDB(sess),
		sess:      sess,
		sqlDB:     sqlDB,
	}, nil
}

// Migrate applies the embedded goose migrations.
func Migrate(sqlDB *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(sqlDB, ".")
}

func (sdb *SqliteDB) GetSQLDB() *sql.DB {
	return sdb.sqlDB
}

func (sdb *SqliteDB) Close() error {
	return sdb.sess.Close()
}
