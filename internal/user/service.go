package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/page"
)

// Store persists user records. Every method issues a single statement.
type Store interface {
	Users(ctx context.Context, pag *page.Pagination) ([]*User, error)
	Count(ctx context.Context) (int, error)
	User(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, id int64, p Patch) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store    Store
	schema   Schema
	hashCost int
}

func NewService(store Store, schema Schema) Service {
	return Service{
		store:    store,
		schema:   schema,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithHashCost returns a copy of the service that hashes passwords with cost.
func (s Service) WithHashCost(cost int) Service {
	s.hashCost = cost
	return s
}

func (s Service) Schema() Schema {
	return s.schema
}

// Users lists the users, newest first. When pag is nil every user is returned
// and the total is the number of records listed, otherwise the total comes
// from a separate count.
func (s Service) Users(ctx context.Context, pag *page.Pagination) (page.Page[*User], error) {
	users, err := s.store.Users(ctx, pag)
	if err != nil {
		return page.Page[*User]{}, err
	}

	if pag == nil {
		return page.All(users), nil
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return page.Page[*User]{}, err
	}
	return page.New(users, *pag, total), nil
}

func (s Service) User(ctx context.Context, id int64) (*User, error) {
	return s.store.User(ctx, id)
}

func (s Service) Create(ctx context.Context, in Input) (*User, error) {
	required := []namedValue{{"nome", in.Name}, {"email", in.Email}}
	if s.schema.RequiresPassword() {
		required = append(required, namedValue{"senha", in.Password})
	}
	if err := validatePresence(required...); err != nil {
		return nil, err
	}

	u := &User{
		Name:  strings.TrimSpace(*in.Name),
		Email: strings.TrimSpace(*in.Email),
	}
	if s.schema.Has(FieldPhone) {
		u.Phone = trimmed(in.Phone)
	}
	if s.schema.Has(FieldBirthDate) {
		u.BirthDate = in.BirthDate
	}
	if s.schema.RequiresPassword() {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user created", "schema", s.schema.Name, "user_id", u.ID)
	return u, nil
}

// Update overwrites name and email and keeps the stored value of every other
// field absent from in. The password is only changed when a non empty one is
// sent.
func (s Service) Update(ctx context.Context, id int64, in Input) error {
	if err := validatePresence(namedValue{"nome", in.Name}, namedValue{"email", in.Email}); err != nil {
		return err
	}

	p := Patch{
		Name:  strings.TrimSpace(*in.Name),
		Email: strings.TrimSpace(*in.Email),
	}
	if s.schema.Has(FieldPhone) {
		p.Phone = trimmed(in.Phone)
	}
	if s.schema.Has(FieldBirthDate) {
		p.BirthDate = in.BirthDate
	}
	if s.schema.RequiresPassword() && in.Password != nil && *in.Password != "" {
		hash, err := s.hash(*in.Password)
		if err != nil {
			return err
		}
		p.PasswordHash = &hash
	}

	if err := s.store.Update(ctx, id, p); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user updated", "schema", s.schema.Name, "user_id", id)
	return nil
}

func (s Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user deleted", "schema", s.schema.Name, "user_id", id)
	return nil
}

func (s Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: senha must not exceed 72 bytes", ErrInvalidInput)
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hash), nil
}

type namedValue struct {
	name  string
	value *string
}

func validatePresence(values ...namedValue) error {
	var missing []string
	for _, v := range values {
		if v.value == nil || strings.TrimSpace(*v.value) == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) != 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
