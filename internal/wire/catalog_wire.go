package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/authz"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(r chi.Router, categoryHandler *adaptor.CategoryHandler, genreHandler *adaptor.GenreHandler, deps routeDeps) {
	read := deps.allow(authz.ObjCatalog, authz.ActRead)
	write := deps.allow(authz.ObjCatalog, authz.ActWrite)

	r.Route("/categories", func(r chi.Router) {
		r.With(read).Get("/", categoryHandler.GetAllCategories)
		r.With(write).Post("/", categoryHandler.CreateCategory)
		r.With(write).Delete("/{slug}", categoryHandler.DeleteCategory)
	})

	r.Route("/genres", func(r chi.Router) {
		r.With(read).Get("/", genreHandler.GetAllGenres)
		r.With(write).Post("/", genreHandler.CreateGenre)
		r.With(write).Delete("/{slug}", genreHandler.DeleteGenre)
	})
}
