package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/quranstudy-backend/internal/domain"
	"github.com/yungbote/quranstudy-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	email := "Reciter-" + uuid.NewString()[:8] + "@Example.com "
	created, err := repo.Create(dbc, []*types.User{{Name: "Aisha", Email: email, Password: "hash"}})
	require.NoError(t, err)
	require.Len(t, created, 1)
	u := created[0]
	assert.NotEqual(t, uuid.Nil, u.ID)

	exists, err := repo.EmailExists(dbc, email)
	require.NoError(t, err)
	assert.True(t, exists, "lookup should ignore case and whitespace")

	rows, err := repo.GetByEmails(dbc, []string{email})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, u.ID, rows[0].ID)

	require.NoError(t, repo.UpdateName(dbc, u.ID, "  Aisha R. "))
	require.NoError(t, repo.SetAdmin(dbc, u.ID, true))

	rows, err = repo.GetByIDs(dbc, []uuid.UUID{u.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Aisha R.", rows[0].Name)
	assert.True(t, rows[0].IsAdmin)

	_, err = repo.Create(dbc, []*types.User{{Name: "Dup", Email: email, Password: "x"}})
	assert.Error(t, err, "emails are unique")
}
