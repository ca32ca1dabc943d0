package database

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		conf SQLiteConfig
		want string
	}{
		{
			name: "default memory",
			conf: SQLiteConfig{},
			want: "file::memory:?cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
		{
			name: "named memory",
			conf: SQLiteConfig{Path: "file:t1?mode=memory&cache=shared", BusyTimeout: 100},
			want: "file:t1?mode=memory&cache=shared&_pragma=busy_timeout(100)&_pragma=foreign_keys(1)",
		},
		{
			name: "file path",
			conf: SQLiteConfig{Path: "data/bookbuild.db"},
			want: "file:data/bookbuild.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildSQLiteDSN(tt.conf))
		})
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn := buildMySQLDSN(MySQLConfig{Host: "db", User: "u", Password: "p", DBName: "book"})
	assert.Equal(t, "u:p@tcp(db:3306)/book?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(Database{
		Driver: DriverSQLite,
		SQLite: SQLiteConfig{Path: "file:dbtest?mode=memory&cache=shared"},
	})
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.Database().Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewDatabase_Errors(t *testing.T) {
	_, err := NewDatabase(Database{Driver: "oracle"})
	assert.Error(t, err)

	_, err = NewDatabase(Database{Driver: DriverMySQL})
	assert.Error(t, err)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"mysql deadlock", fmt.Errorf("tx: %w", &mysqldriver.MySQLError{Number: 1213}), true},
		{"mysql lock wait", &mysqldriver.MySQLError{Number: 1205}, true},
		{"mysql duplicate", &mysqldriver.MySQLError{Number: 1062}, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
