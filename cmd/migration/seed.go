package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/user"
)

// seedUsers creates the sample users through the service so passwords are
// hashed. Users already present are left untouched.
func seedUsers(ctx context.Context, db *gorm.DB, schemaName string) error {
	schema, err := user.SchemaByName(schemaName)
	if err != nil {
		return err
	}
	service := user.NewService(user.NewStorage(db, schema), schema)

	for _, in := range sampleUsers() {
		u, err := service.Create(ctx, in)
		if errors.Is(err, user.ErrAlreadyExists) {
			slog.Info("sample user already exists", "email", *in.Email)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", *in.Email, err)
		}
		slog.Info("sample user created", "user_id", u.ID)
	}
	return nil
}

func sampleUsers() []user.Input {
	birth := func(s string) *timeutil.Date {
		d, err := timeutil.ParseDate(s)
		if err != nil {
			panic(err)
		}
		return &d
	}
	return []user.Input{
		{
			Name:      pointerOf("Alice Souza"),
			Email:     pointerOf("alice@email.com"),
			Password:  pointerOf("alice123"),
			Phone:     pointerOf("(11) 98888-1111"),
			BirthDate: birth("1990-03-14"),
		},
		{
			Name:     pointerOf("Bob Lima"),
			Email:    pointerOf("bob@email.com"),
			Password: pointerOf("bob123"),
		},
	}
}

func pointerOf[T any](value T) *T {
	return &value
}
