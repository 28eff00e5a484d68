package user

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Field is a logical user attribute. Schemas map fields to physical columns.
type Field string

const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldBirthDate Field = "birth_date"
	FieldPassword  Field = "password_hash"
	FieldCreatedAt Field = "created_at"
)

// Schema describes one table layout holding user records and the HTTP
// resource that exposes it.
type Schema struct {
	Name     string
	Table    string
	Resource string
	Columns  map[Field]string
}

var (
	// SchemaUsuarios stores credentials along with the contact data.
	SchemaUsuarios = Schema{
		Name:     "usuarios",
		Table:    "usuarios",
		Resource: "/users",
		Columns: map[Field]string{
			FieldID:        "id",
			FieldName:      "nome",
			FieldEmail:     "email",
			FieldPhone:     "telefone",
			FieldBirthDate: "data_nascimento",
			FieldPassword:  "senha",
			FieldCreatedAt: "data_criacao",
		},
	}
	// SchemaClientes holds client contact records without credentials.
	SchemaClientes = Schema{
		Name:     "clientes_app",
		Table:    "clientes_app",
		Resource: "/usuarios",
		Columns: map[Field]string{
			FieldID:        "id",
			FieldName:      "nome",
			FieldEmail:     "email",
			FieldPhone:     "telefone",
			FieldBirthDate: "data_nasc",
			FieldCreatedAt: "created_at",
		},
	}
)

func SchemaByName(name string) (Schema, error) {
	switch name {
	case SchemaUsuarios.Name:
		return SchemaUsuarios, nil
	case SchemaClientes.Name:
		return SchemaClientes, nil
	}
	return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
}

func (s Schema) Has(f Field) bool {
	_, ok := s.Columns[f]
	return ok
}

// RequiresPassword reports whether records of this schema carry credentials.
func (s Schema) RequiresPassword() bool {
	return s.Has(FieldPassword)
}

func (s Schema) column(f Field) string {
	return pgx.Identifier{s.Columns[f]}.Sanitize()
}

// statements holds the parameterized templates for every storage operation.
type statements struct {
	list   string
	count  string
	get    string
	insert string
	update string
	delete string
	// insertFields and updateFields list, in order, the fields bound to the
	// placeholders of insert and update.
	insertFields []Field
	updateFields []Field
}

var (
	selectFields   = []Field{FieldID, FieldName, FieldEmail, FieldPhone, FieldBirthDate, FieldCreatedAt}
	writableFields = []Field{FieldName, FieldEmail, FieldPhone, FieldBirthDate, FieldPassword}
)

func (s Schema) statements() statements {
	table := pgx.Identifier{s.Table}.Sanitize()
	id := s.column(FieldID)

	var selected []string
	for _, f := range selectFields {
		if s.Has(f) {
			selected = append(selected, fmt.Sprintf("%s AS %s", s.column(f), f))
		}
	}
	projection := strings.Join(selected, ", ")

	order := id + " DESC"
	if s.Has(FieldCreatedAt) {
		order = s.column(FieldCreatedAt) + " DESC, " + order
	}

	var (
		insertCols, placeholders, assignments []string
		insertFields, updateFields            []Field
	)
	for _, f := range writableFields {
		if !s.Has(f) {
			continue
		}
		col := s.column(f)
		insertCols = append(insertCols, col)
		placeholders = append(placeholders, "?")
		insertFields = append(insertFields, f)

		// Name and email are mandatory on every update, the rest keep the
		// stored value when bound to NULL.
		if f == FieldName || f == FieldEmail {
			assignments = append(assignments, col+" = ?")
		} else {
			assignments = append(assignments, fmt.Sprintf("%s = COALESCE(?, %s)", col, col))
		}
		updateFields = append(updateFields, f)
	}

	returning := fmt.Sprintf("%s AS %s", id, FieldID)
	if s.Has(FieldCreatedAt) {
		returning += fmt.Sprintf(", %s AS %s", s.column(FieldCreatedAt), FieldCreatedAt)
	}

	return statements{
		list:  fmt.Sprintf("SELECT %s FROM %s ORDER BY %s LIMIT ? OFFSET ?", projection, table, order),
		count: fmt.Sprintf("SELECT count(*) FROM %s", table),
		get:   fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", projection, table, id),
		insert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			table, strings.Join(insertCols, ", "), strings.Join(placeholders, ", "), returning),
		update:       fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(assignments, ", "), id),
		delete:       fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, id),
		insertFields: insertFields,
		updateFields: updateFields,
	}
}
