package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	q := "SELECT 1 FROM listings l WHERE l.id = ? AND l.city = ?"
	assert.Equal(t, "SELECT 1 FROM listings l WHERE l.id = $1 AND l.city = $2", Postgres.rebind(q))
	assert.Equal(t, q, MySQL.rebind(q))
}

func TestInsertIgnore(t *testing.T) {
	assert.Equal(t, "INSERT IGNORE INTO users (id, name) VALUES (?, ?)", MySQL.insertIgnore("users", "id, name", 2))
	assert.Equal(t, "INSERT INTO users (id, name) VALUES (?, ?) ON CONFLICT DO NOTHING", SQLite.insertIgnore("users", "id, name", 2))
}

func TestLikePatterns(t *testing.T) {
	assert.Equal(t, "%50!% off!_x!!%", containsPattern("50% OFF_x!"))
	assert.Equal(t, "car%", prefixPattern("Car"))
}

func TestOrderByAppendsID(t *testing.T) {
	assert.Equal(t, " ORDER BY l.id ASC", orderBy(nil))
	assert.Equal(t, " ORDER BY l.base_price DESC, l.id ASC", orderBy([]Sort{{Field: SortByPrice, Desc: true}, {Field: "bogus"}}))
}

func TestWhereEmpty(t *testing.T) {
	where, args := Filter{}.where()
	assert.Empty(t, where)
	assert.Nil(t, args)
}
