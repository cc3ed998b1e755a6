package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCost(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		price   int
		want    int
	}{
		{"full hour", 3600, 30000, 30000},
		{"half hour rounds up", 1800, 30000, 15000},
		{"just over two minutes rounds up", 125, 30000, 1042},
		{"one second still bills", 1, 30000, 9},
		{"zero seconds", 0, 30000, 0},
		{"negative seconds", -10, 30000, 0},
		{"25 minutes", 1500, 30000, 12500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cost(tt.seconds, tt.price))
		})
	}
}

func TestCostNeverNegative(t *testing.T) {
	assert.GreaterOrEqual(t, Cost(-100, 30000), 0)
	assert.GreaterOrEqual(t, Cost(100, -5), 0)
}

func TestMinutes(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    int
	}{
		{"exact hour", 3600, 60},
		{"just over two minutes rounds to nearest", 125, 2},
		{"150 seconds rounds up", 150, 3},
		{"under half a minute rounds down", 29, 0},
		{"half a minute rounds up", 30, 1},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Minutes(tt.seconds))
		})
	}
}
