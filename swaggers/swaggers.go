// Package swaggers embeds the OpenAPI documents used to validate requests.
package swaggers

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const usersResource = "/users"

//go:embed users.yml
var usersSpec []byte

// Users loads the users document with its paths moved under resource. When
// requirePassword is set, creating a user requires "senha".
func Users(resource string, requirePassword bool) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(usersSpec)
	if err != nil {
		return nil, fmt.Errorf("could not load users swagger: %w", err)
	}

	paths := openapi3.NewPaths()
	for path, item := range doc.Paths.Map() {
		paths.Set(resource+strings.TrimPrefix(path, usersResource), item)
	}
	doc.Paths = paths

	if requirePassword {
		create := doc.Components.Schemas["UserCreate"].Value
		if !slices.Contains(create.Required, "senha") {
			create.Required = append(create.Required, "senha")
		}
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid users swagger: %w", err)
	}
	return doc, nil
}
