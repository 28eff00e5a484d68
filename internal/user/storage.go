package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/page"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
)

var _ Store = Storage{}

// Storage runs one fixed statement per operation against the schema's table.
type Storage struct {
	db    *gorm.DB
	stmts statements
}

func NewStorage(db *gorm.DB, schema Schema) Storage {
	return Storage{
		db:    db,
		stmts: schema.statements(),
	}
}

type row struct {
	ID        int64      `gorm:"column:id"`
	Name      string     `gorm:"column:name"`
	Email     string     `gorm:"column:email"`
	Phone     *string    `gorm:"column:phone"`
	BirthDate *time.Time `gorm:"column:birth_date"`
	CreatedAt time.Time  `gorm:"column:created_at"`
}

type insertedRow struct {
	ID        int64     `gorm:"column:id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (r row) toUser() *User {
	u := &User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CreatedAt: timeutil.NewDateTime(r.CreatedAt),
	}
	if r.BirthDate != nil {
		d := timeutil.NewDate(*r.BirthDate)
		u.BirthDate = &d
	}
	return u
}

// Users lists users newest first. A nil pagination returns every record.
func (s Storage) Users(ctx context.Context, pag *page.Pagination) ([]*User, error) {
	// LIMIT NULL means no limit.
	var limit any
	offset := 0
	if pag != nil {
		limit = pag.Limit()
		offset = pag.Offset()
	}

	var rows []row
	if err := s.db.WithContext(ctx).Raw(s.stmts.list, limit, offset).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}

	users := make([]*User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (s Storage) Count(ctx context.Context) (int, error) {
	var total int64
	if err := s.db.WithContext(ctx).Raw(s.stmts.count).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("could not count users: %w", err)
	}
	return int(total), nil
}

func (s Storage) User(ctx context.Context, id int64) (*User, error) {
	var rows []row
	if err := s.db.WithContext(ctx).Raw(s.stmts.get, id).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("could not fetch user %d: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].toUser(), nil
}

// Create inserts u and fills in the id and creation time assigned by the
// database.
func (s Storage) Create(ctx context.Context, u *User) error {
	args := make([]any, 0, len(s.stmts.insertFields))
	for _, f := range s.stmts.insertFields {
		switch f {
		case FieldName:
			args = append(args, u.Name)
		case FieldEmail:
			args = append(args, u.Email)
		case FieldPhone:
			args = append(args, stringArg(u.Phone))
		case FieldBirthDate:
			args = append(args, dateArg(u.BirthDate))
		case FieldPassword:
			args = append(args, u.PasswordHash)
		}
	}

	var inserted insertedRow
	if err := s.db.WithContext(ctx).Raw(s.stmts.insert, args...).Scan(&inserted).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}

	u.ID = inserted.ID
	u.CreatedAt = timeutil.NewDateTime(inserted.CreatedAt)
	if inserted.CreatedAt.IsZero() {
		u.CreatedAt = timeutil.DateTimeNow()
	}
	return nil
}

func (s Storage) Update(ctx context.Context, id int64, p Patch) error {
	args := make([]any, 0, len(s.stmts.updateFields)+1)
	for _, f := range s.stmts.updateFields {
		switch f {
		case FieldName:
			args = append(args, p.Name)
		case FieldEmail:
			args = append(args, p.Email)
		case FieldPhone:
			args = append(args, stringArg(p.Phone))
		case FieldBirthDate:
			args = append(args, dateArg(p.BirthDate))
		case FieldPassword:
			args = append(args, stringArg(p.PasswordHash))
		}
	}
	args = append(args, id)

	tx := s.db.WithContext(ctx).Exec(s.stmts.update, args...)
	if err := tx.Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("could not update user %d: %w", id, err)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s Storage) Delete(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Exec(s.stmts.delete, id)
	if err := tx.Error; err != nil {
		return fmt.Errorf("could not delete user %d: %w", id, err)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("could not get sql.DB from gorm DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func stringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func dateArg(d *timeutil.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
