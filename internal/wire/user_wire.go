package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/authz"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, deps routeDeps) {
	r.Route("/users", func(r chi.Router) {
		// Own profile, registered before /{username} so "me" never reaches it
		r.With(deps.allow(authz.ObjProfile, authz.ActRead)).Get("/me", userHandler.GetProfile)
		r.With(deps.allow(authz.ObjProfile, authz.ActUpdate)).Patch("/me", userHandler.UpdateProfile)

		// Account management, admin only
		r.Group(func(r chi.Router) {
			r.Use(deps.allow(authz.ObjUsers, authz.ActManage))

			r.Get("/", userHandler.GetAllUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{username}", userHandler.GetUser)
			r.Patch("/{username}", userHandler.UpdateUser)
			r.Delete("/{username}", userHandler.DeleteUser)
		})
	})
}
