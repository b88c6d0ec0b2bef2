package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeexp/internal/cleaning"
	"lifeexp/internal/ddl"
)

func sampleObs() []cleaning.Observation {
	return []cleaning.Observation{
		{Unit: "YR", Sex: "F", Age: "Y1", Region: "PT", Year: 2021, Value: 80.1},
		{Unit: "YR", Sex: "F", Age: "Y1", Region: "PT", Year: 2020, Value: 79.8},
		{Unit: "YR", Sex: "M", Age: "Y1", Region: "PT", Year: 2021, Value: 76},
	}
}

func registerFake(t *testing.T, kind string, repo *fakeRepo) {
	t.Helper()
	Register(kind, func(context.Context, Config) (Repository, error) { return repo, nil })
}

func TestWrite_Sequence(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	registerFake(t, "seq", repo)
	RegisterDDL("seq", func(ctx context.Context, r Repository, table string) error {
		return CreateTable(ctx, r, ddl.SQLite, table)
	})

	n, err := Write(context.Background(), Config{
		Kind: "seq", Table: "life", AutoCreateTable: true, Replace: true, BatchSize: 2,
	}, sampleObs())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []string{"exec", "delete", "copy", "copy", "commit", "close"}, repo.calls)
	assert.Equal(t, []any{"YR", "F", "Y1", "PT", int64(2021), 80.1}, repo.rows[0])
}

func TestWrite_EmptyOpensNothing(t *testing.T) {
	t.Parallel()

	opened := false
	Register("never", func(context.Context, Config) (Repository, error) {
		opened = true
		return &fakeRepo{}, nil
	})

	n, err := Write(context.Background(), Config{Kind: "never"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, opened)
}

func TestWrite_CopyErrorSkipsCommit(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	repo := &fakeRepo{copyErr: boom}
	registerFake(t, "copyerr", repo)

	_, err := Write(context.Background(), Config{Kind: "copyerr"}, sampleObs())
	require.ErrorIs(t, err, boom)
	assert.False(t, repo.committed)
	assert.True(t, repo.closed)
}

func TestWrite_MissingDDL(t *testing.T) {
	t.Parallel()

	registerFake(t, "noddl", &fakeRepo{})
	_, err := Write(context.Background(), Config{Kind: "noddl", AutoCreateTable: true}, sampleObs())
	assert.ErrorContains(t, err, "no DDL bootstrapper")
}

func TestWriteAll(t *testing.T) {
	t.Parallel()

	a, b := &fakeRepo{}, &fakeRepo{}
	registerFake(t, "all-a", a)
	registerFake(t, "all-b", b)

	n, err := WriteAll(context.Background(), []Config{{Kind: "all-a"}, {Kind: "all-b"}}, sampleObs())
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Len(t, a.rows, 3)
	assert.Len(t, b.rows, 3)

	_, err = WriteAll(context.Background(), []Config{{Kind: "all-a"}, {Kind: "all-missing"}}, sampleObs())
	assert.ErrorContains(t, err, "unsupported storage.kind=all-missing")
}

func TestRows(t *testing.T) {
	t.Parallel()

	rows := Rows(sampleObs())
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Len(t, r, len(Columns))
	}
	assert.Equal(t, 76.0, rows[2][5])
}

func TestInsertAndDeleteSQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`INSERT INTO "main"."life" ("a", "b") VALUES (?, ?), (?, ?)`,
		InsertSQL(ddl.SQLite, "main.life", []string{"a", "b"}, 2))
	assert.Equal(t,
		`INSERT INTO [dbo].[life] ([a]) VALUES (@p1), (@p2)`,
		InsertSQL(ddl.MSSQL, "dbo.life", []string{"a"}, 2))
	assert.Equal(t,
		`DELETE FROM "public"."life" WHERE "region" = $1`,
		DeleteRegionSQL(ddl.Postgres, "public.life"))
}

func TestObservationTable_DDL(t *testing.T) {
	t.Parallel()

	stmt, err := ddl.BuildCreateTableSQL(ObservationTable("life"), ddl.Postgres)
	require.NoError(t, err)
	assert.Contains(t, stmt, `"value" DOUBLE PRECISION NOT NULL`)
	assert.Contains(t, stmt, `PRIMARY KEY ("unit", "sex", "age", "region", "year")`)
}
