package user

import (
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
)

type User struct {
	ID        int64
	Name      string
	Email     string
	Phone     *string
	BirthDate *timeutil.Date
	// PasswordHash is the bcrypt hash of the password. It is written but never
	// read back by the storage.
	PasswordHash string
	CreatedAt    timeutil.DateTime
}

// Input carries the fields a client may send when creating or updating a user.
// Nil pointers are fields absent from the request.
type Input struct {
	Name      *string
	Email     *string
	Password  *string
	Phone     *string
	BirthDate *timeutil.Date
}

// Patch is a validated update. Name and Email always overwrite the stored
// values, the remaining fields only when not nil.
type Patch struct {
	Name         string
	Email        string
	Phone        *string
	BirthDate    *timeutil.Date
	PasswordHash *string
}
