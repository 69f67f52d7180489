package database

import (
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "vouchers",
			TimeoutSeconds: 1,
		}

		// Connect should fail (timeout or refused)
		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
		assert.Nil(t, db)
	})
}

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		want   string
	}{
		{"DefaultIsMySQL", "", "mysql"},
		{"MySQL", DriverMySQL, "mysql"},
		{"SQLite", DriverSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := dialectorFor(Config{Driver: tt.driver, Name: "vouchers", Port: 3306}, 5)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg := Config{
		Host:     "db.internal",
		Port:     3307,
		User:     "report",
		Password: "p@ss:w/rd?&%",
		Name:     "vouchers",
	}

	parsed, err := mysqldriver.ParseDSN(mysqlDSN(cfg, 5))
	require.NoError(t, err)

	assert.Equal(t, "report", parsed.User)
	assert.Equal(t, "p@ss:w/rd?&%", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "vouchers", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
	assert.Equal(t, 5*time.Second, parsed.ReadTimeout)
	assert.Equal(t, "utf8mb4", parsed.Params["charset"])
}
