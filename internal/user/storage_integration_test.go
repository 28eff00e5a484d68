//go:build integration

package user_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GersonESantos/EsqJSCRUDProjeto/db"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/page"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/user"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Fatal("DATABASE_URL must be set for integration tests")
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        timeutil.Now,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	for _, table := range []string{"usuarios", "clientes_app"} {
		require.NoError(t, gormDB.Exec("TRUNCATE TABLE "+table).Error)
	}
	return gormDB
}

func TestStorage(t *testing.T) {
	gormDB := setupDB(t)

	for _, schema := range []user.Schema{user.SchemaUsuarios, user.SchemaClientes} {
		t.Run(schema.Name, func(t *testing.T) {
			ctx := context.Background()
			storage := user.NewStorage(gormDB, schema)
			require.NoError(t, storage.Ping(ctx))

			birth, err := timeutil.ParseDate("1990-05-17")
			require.NoError(t, err)
			ana := &user.User{Name: "Ana", Email: "ana@example.com", Phone: ptr("1111"), BirthDate: &birth, PasswordHash: "hash"}
			require.NoError(t, storage.Create(ctx, ana))
			require.NotZero(t, ana.ID)
			require.False(t, ana.CreatedAt.IsZero())

			bia := &user.User{Name: "Bia", Email: "bia@example.com", PasswordHash: "hash"}
			require.NoError(t, storage.Create(ctx, bia))
			require.Greater(t, bia.ID, ana.ID)

			dup := &user.User{Name: "Ana 2", Email: "ana@example.com", PasswordHash: "hash"}
			require.ErrorIs(t, storage.Create(ctx, dup), user.ErrAlreadyExists)

			got, err := storage.User(ctx, ana.ID)
			require.NoError(t, err)
			require.Equal(t, "Ana", got.Name)
			require.Equal(t, "1111", *got.Phone)
			require.Equal(t, "1990-05-17", got.BirthDate.String())
			require.Empty(t, got.PasswordHash)

			users, err := storage.Users(ctx, nil)
			require.NoError(t, err)
			require.Len(t, users, 2)
			require.Equal(t, bia.ID, users[0].ID)

			pag := page.NewPagination(nil, ptr(int32(1)))
			users, err = storage.Users(ctx, &pag)
			require.NoError(t, err)
			require.Len(t, users, 1)

			total, err := storage.Count(ctx)
			require.NoError(t, err)
			require.Equal(t, 2, total)

			require.NoError(t, storage.Update(ctx, ana.ID, user.Patch{Name: "Ana Maria", Email: "ana@example.com"}))
			got, err = storage.User(ctx, ana.ID)
			require.NoError(t, err)
			require.Equal(t, "Ana Maria", got.Name)
			require.Equal(t, "1111", *got.Phone)

			require.ErrorIs(t, storage.Update(ctx, bia.ID, user.Patch{Name: "Bia", Email: "ana@example.com"}), user.ErrAlreadyExists)
			require.ErrorIs(t, storage.Update(ctx, 0, user.Patch{Name: "X", Email: "x@example.com"}), user.ErrNotFound)

			require.NoError(t, storage.Delete(ctx, ana.ID))
			require.ErrorIs(t, storage.Delete(ctx, ana.ID), user.ErrNotFound)
			_, err = storage.User(ctx, ana.ID)
			require.ErrorIs(t, err, user.ErrNotFound)
		})
	}
}
