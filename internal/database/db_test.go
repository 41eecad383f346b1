package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNWithPassword(t *testing.T) {
	cfg := Config{User: "air", Pass: "s3cret", Host: "db", Port: "3306", Name: "airline"}
	assert.Equal(t,
		"air:s3cret@tcp(db:3306)/airline?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DSN())
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := Config{User: "air", Host: "localhost", Port: "3307", Name: "airline"}
	assert.Equal(t,
		"air@tcp(localhost:3307)/airline?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.DSN())
}
