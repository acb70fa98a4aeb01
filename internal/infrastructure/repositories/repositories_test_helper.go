package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 0,
		company_id INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCompanyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT,
		website TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAPIKeyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE api_keys (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		key_hash TEXT NOT NULL UNIQUE,
		user_id INTEGER NOT NULL,
		company_id INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME
	);`)
}

func createAuditTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		previous_data TEXT,
		new_data TEXT,
		created_at DATETIME
	);`)
}

func createExpenseTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		amount REAL NOT NULL,
		date_incurred DATETIME NOT NULL,
		description TEXT,
		category_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		company_id INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCategoryTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		expense_limit REAL,
		company_id INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	createUserTable(t, db)
	createCompanyTable(t, db)
	createAPIKeyTable(t, db)
	createAuditTable(t, db)
	createExpenseTable(t, db)
	createCategoryTable(t, db)
}
