package user

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaByName(t *testing.T) {
	s, err := SchemaByName("clientes_app")
	require.NoError(t, err)
	require.Equal(t, SchemaClientes.Table, s.Table)
	require.False(t, s.RequiresPassword())

	s, err = SchemaByName("usuarios")
	require.NoError(t, err)
	require.True(t, s.RequiresPassword())

	_, err = SchemaByName("customers")
	require.True(t, errors.Is(err, ErrUnknownSchema))
}

func TestStatements_Usuarios(t *testing.T) {
	stmts := SchemaUsuarios.statements()

	require.Equal(t,
		`SELECT "id" AS id, "nome" AS name, "email" AS email, "telefone" AS phone, "data_nascimento" AS birth_date, "data_criacao" AS created_at `+
			`FROM "usuarios" ORDER BY "data_criacao" DESC, "id" DESC LIMIT ? OFFSET ?`,
		stmts.list)
	require.Equal(t, `SELECT count(*) FROM "usuarios"`, stmts.count)
	require.Equal(t,
		`INSERT INTO "usuarios" ("nome", "email", "telefone", "data_nascimento", "senha") VALUES (?, ?, ?, ?, ?) `+
			`RETURNING "id" AS id, "data_criacao" AS created_at`,
		stmts.insert)
	require.Equal(t,
		`UPDATE "usuarios" SET "nome" = ?, "email" = ?, "telefone" = COALESCE(?, "telefone"), `+
			`"data_nascimento" = COALESCE(?, "data_nascimento"), "senha" = COALESCE(?, "senha") WHERE "id" = ?`,
		stmts.update)
	require.Equal(t, `DELETE FROM "usuarios" WHERE "id" = ?`, stmts.delete)
	require.Equal(t, []Field{FieldName, FieldEmail, FieldPhone, FieldBirthDate, FieldPassword}, stmts.insertFields)
	require.Equal(t, stmts.insertFields, stmts.updateFields)
}

func TestStatements_NeverSelectPassword(t *testing.T) {
	for _, s := range []Schema{SchemaUsuarios, SchemaClientes} {
		stmts := s.statements()
		require.NotContains(t, stmts.list, "senha", s.Name)
		require.NotContains(t, stmts.get, "senha", s.Name)
		require.False(t, strings.Contains(stmts.insert, "RETURNING \"senha\""), s.Name)
	}
}

func TestStatements_Clientes(t *testing.T) {
	stmts := SchemaClientes.statements()

	require.Equal(t,
		`SELECT "id" AS id, "nome" AS name, "email" AS email, "telefone" AS phone, "data_nasc" AS birth_date, "created_at" AS created_at `+
			`FROM "clientes_app" WHERE "id" = ?`,
		stmts.get)
	require.Equal(t, []Field{FieldName, FieldEmail, FieldPhone, FieldBirthDate}, stmts.insertFields)
	require.NotContains(t, stmts.update, "senha")
}
