// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import "testing"

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		query  string
		want   string
	}{
		{DriverSQLite, "SELECT * FROM t WHERE a = $1 AND b = $2", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{DriverSQLite, "VALUES ($1, $10, $11)", "VALUES (?, ?, ?)"},
		{DriverSQLite, "SELECT '$' FROM t", "SELECT '$' FROM t"},
		{DriverPostgres, "SELECT * FROM t WHERE a = $1", "SELECT * FROM t WHERE a = $1"},
	}

	for _, tt := range tests {
		t.Run(tt.driver+" "+tt.query, func(t *testing.T) {
			if got := rebind(tt.driver, tt.query); got != tt.want {
				t.Errorf("rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}
