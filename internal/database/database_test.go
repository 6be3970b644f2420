package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer db.Close()

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&tableName)
	require.NoError(t, err, "Querying for documents table should not produce an error")
	assert.Equal(t, "documents", tableName, "The 'documents' table should be created")

	var indexName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name='idx_documents_battle_time'").Scan(&indexName)
	require.NoError(t, err)
	assert.Equal(t, "idx_documents_battle_time", indexName)
}

func TestInitDB_RejectsInvalidJSON(t *testing.T) {
	db, err := InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO documents (collection, id, doc) VALUES ('player', '#A', 'not json')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO documents (collection, id, doc) VALUES ('player', '#A', '{"tag":"#A"}')`)
	assert.NoError(t, err)
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/brawlboss.db"

	db, err := InitDB(path, "", "")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDB(path, "", "")
	require.NoError(t, err)
	defer db.Close()
}
