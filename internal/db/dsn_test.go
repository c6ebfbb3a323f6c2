package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		in, driver, migrate string
	}{
		{"", "", ""},
		{"postgres://u:p@h:5432/d?sslmode=disable", "postgres://u:p@h:5432/d?sslmode=disable", "postgres://u:p@h:5432/d?sslmode=disable"},
		{`  "host=h  user=u dbname=d"  `, "host=h user=u dbname=d sslmode=disable", "postgres://u@h/d?sslmode=disable"},
		{"host=h port=5432 user=u password=p dbname=d sslmode=require", "host=h port=5432 user=u password=p dbname=d sslmode=require", "postgres://u:p@h:5432/d?sslmode=require"},
		{"host=h dbname=d", "host=h dbname=d sslmode=disable", "host=h dbname=d sslmode=disable"},
		{"not a dsn", "not a dsn", "not a dsn"},
	}
	for _, tt := range tests {
		d := parseDSN(tt.in)
		assert.Equal(t, tt.driver, d.String(), "driver form of %q", tt.in)
		assert.Equal(t, tt.migrate, d.URL(), "migrate form of %q", tt.in)
	}
}
