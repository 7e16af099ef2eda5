package employee_test

import (
	"context"
	"testing"

	"go-zampay/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// WithTx must route every query through the caller's transaction; a query
// reaching the base connection would escape the workflow's atomicity.
func TestRepositoryWithTxUsesTransactionConnection(t *testing.T) {
	baseDB, baseMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer baseDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: baseDB}), &gorm.Config{})
	assert.NoError(t, err)
	repo := employee.NewRepository(gormDB)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	txMock.ExpectBegin()
	tx, err := txDB.BeginTx(context.Background(), nil)
	assert.NoError(t, err)

	id := uuid.New()
	companyID := uuid.New()
	txMock.ExpectQuery(`SELECT .* FROM "employees"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id"}).
			AddRow(id.String(), companyID.String()))

	found, err := repo.WithTx(tx).FindByIDAndCompany(context.Background(), companyID.String(), id.String())

	assert.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, baseMock.ExpectationsWereMet())
}
