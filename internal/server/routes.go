package server

import (
	"github.com/danielgtaylor/huma/v2"

	v1 "github.com/workboards/workboards/internal/api/v1"
)

func registerAPIRoutes(api huma.API, store v1.DataStore, mutator v1.Mutator) {
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterItemRoutes(api, store, mutator)
}
