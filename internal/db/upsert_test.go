package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpsertSQL(t *testing.T) {
	createSQL, upsertSQL, tempTable, err := buildUpsertSQL(UpsertConfig{
		Table:        "leads",
		Columns:      []string{"company", "country", "tier"},
		ConflictKeys: []string{"company", "country"},
	})
	require.NoError(t, err)

	assert.Equal(t, "_tmp_upsert_leads", tempTable)
	assert.Equal(t, `CREATE TEMP TABLE "_tmp_upsert_leads" (LIKE "leads" INCLUDING DEFAULTS) ON COMMIT DROP`, createSQL)
	assert.Equal(t,
		`INSERT INTO "leads" ("company", "country", "tier") SELECT "company", "country", "tier" FROM "_tmp_upsert_leads" ON CONFLICT ("company", "country") DO UPDATE SET "tier" = EXCLUDED."tier"`,
		upsertSQL,
	)
}

func TestBuildUpsertSQL_SchemaQualified(t *testing.T) {
	createSQL, _, tempTable, err := buildUpsertSQL(UpsertConfig{
		Table:        "archive.leads",
		Columns:      []string{"company", "tier"},
		ConflictKeys: []string{"company"},
	})
	require.NoError(t, err)

	assert.Equal(t, "_tmp_upsert_archive_leads", tempTable)
	assert.Contains(t, createSQL, `"archive"."leads"`)
}

func TestBuildUpsertSQL_ExplicitUpdateCols(t *testing.T) {
	_, upsertSQL, _, err := buildUpsertSQL(UpsertConfig{
		Table:        "leads",
		Columns:      []string{"company", "tier", "sce_total"},
		ConflictKeys: []string{"company"},
		UpdateCols:   []string{"sce_total"},
	})
	require.NoError(t, err)

	assert.Contains(t, upsertSQL, `DO UPDATE SET "sce_total" = EXCLUDED."sce_total"`)
	assert.NotContains(t, upsertSQL, `"tier" = EXCLUDED`)
}

func TestBuildUpsertSQL_Validation(t *testing.T) {
	_, _, _, err := buildUpsertSQL(UpsertConfig{Table: "leads", ConflictKeys: []string{"company"}})
	assert.Error(t, err)

	_, _, _, err = buildUpsertSQL(UpsertConfig{Table: "leads", Columns: []string{"company"}})
	assert.Error(t, err)
}
