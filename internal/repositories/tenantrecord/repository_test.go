package tenantrecord

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadyhoon/RentEase/pkg/database"
	"github.com/shadyhoon/RentEase/pkg/models"
)

type fakeResult struct {
	rows int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, nil }

type fakeTx struct {
	execs      []string
	results    []fakeResult
	execErr    error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) IsOpen() bool { return !t.committed && !t.rolledBack }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if t.execErr != nil {
		return nil, t.execErr
	}
	t.execs = append(t.execs, query)
	result := t.results[0]
	if len(t.results) > 1 {
		t.results = t.results[1:]
	}
	return result, nil
}

func (t *fakeTx) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return nil
}

func (t *fakeTx) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

type fakeDB struct {
	database.DB
	tx *fakeTx
}

func (db *fakeDB) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error) {
	return ctx, db.tx, nil
}

func newTestRepository(tx *fakeTx) *Repository {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewRepository(&fakeDB{tx: tx}, logger)
}

func TestUpsert_UpdatesExistingRow(t *testing.T) {
	tx := &fakeTx{results: []fakeResult{{rows: 1}}}
	repo := newTestRepository(tx)

	record, err := repo.Upsert(context.Background(), &models.TenantRecord{
		LandlordID:      "l1",
		Email:           " Tenant@Example.com ",
		PropertyAddress: "12 Rose St",
		Name:            "Asha",
		RentAmount:      1500,
		IsActive:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, "tenant@example.com", record.Email)
	require.Len(t, tx.execs, 1)
	assert.Contains(t, tx.execs[0], "UPDATE tenant_records")
	assert.True(t, tx.committed)
}

func TestUpsert_InsertsWhenNoRowMatches(t *testing.T) {
	tx := &fakeTx{results: []fakeResult{{rows: 0}, {rows: 1}}}
	repo := newTestRepository(tx)

	record, err := repo.Upsert(context.Background(), &models.TenantRecord{
		LandlordID:      "l1",
		Email:           "tenant@example.com",
		PropertyAddress: "12 Rose St",
		Name:            "Asha",
		RentAmount:      1500,
		IsActive:        true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	require.Len(t, tx.execs, 2)
	assert.Contains(t, tx.execs[0], "UPDATE tenant_records")
	assert.Contains(t, tx.execs[1], "INSERT INTO tenant_records")
	assert.True(t, tx.committed)
}

func TestUpsert_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{execErr: errors.New("db down")}
	repo := newTestRepository(tx)

	_, err := repo.Upsert(context.Background(), &models.TenantRecord{
		LandlordID:      "l1",
		Email:           "tenant@example.com",
		PropertyAddress: "12 Rose St",
	})
	require.Error(t, err)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}