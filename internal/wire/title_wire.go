package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/authz"

	"github.com/go-chi/chi/v5"
)

func wireTitle(
	r chi.Router,
	titleHandler *adaptor.TitleHandler,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	deps routeDeps,
) {
	r.Route("/titles", func(r chi.Router) {
		r.With(deps.allow(authz.ObjCatalog, authz.ActRead)).Get("/", titleHandler.GetAllTitles)
		r.With(deps.allow(authz.ObjCatalog, authz.ActWrite)).Post("/", titleHandler.CreateTitle)

		r.Route("/{title_id}", func(r chi.Router) {
			r.With(deps.allow(authz.ObjCatalog, authz.ActRead)).Get("/", titleHandler.GetTitle)
			r.With(deps.allow(authz.ObjCatalog, authz.ActWrite)).Patch("/", titleHandler.UpdateTitle)
			r.With(deps.allow(authz.ObjCatalog, authz.ActWrite)).Delete("/", titleHandler.DeleteTitle)

			r.Route("/reviews", func(r chi.Router) {
				wireReview(r, reviewHandler, deps)

				r.Route("/{review_id}/comments", func(r chi.Router) {
					wireComment(r, commentHandler, deps)
				})
			})
		})
	})
}

// Ownership is checked by the service; the route only requires write access
func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, deps routeDeps) {
	r.With(deps.allow(authz.ObjReview, authz.ActRead)).Get("/", reviewHandler.GetTitleReviews)
	r.With(deps.allow(authz.ObjReview, authz.ActCreate)).Post("/", reviewHandler.CreateReview)
	r.With(deps.allow(authz.ObjReview, authz.ActRead)).Get("/{review_id}", reviewHandler.GetReview)
	r.With(deps.allow(authz.ObjReview, authz.ActWrite)).Patch("/{review_id}", reviewHandler.UpdateReview)
	r.With(deps.allow(authz.ObjReview, authz.ActWrite)).Delete("/{review_id}", reviewHandler.DeleteReview)
}

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, deps routeDeps) {
	r.With(deps.allow(authz.ObjComment, authz.ActRead)).Get("/", commentHandler.GetReviewComments)
	r.With(deps.allow(authz.ObjComment, authz.ActCreate)).Post("/", commentHandler.CreateComment)
	r.With(deps.allow(authz.ObjComment, authz.ActRead)).Get("/{comment_id}", commentHandler.GetComment)
	r.With(deps.allow(authz.ObjComment, authz.ActWrite)).Patch("/{comment_id}", commentHandler.UpdateComment)
	r.With(deps.allow(authz.ObjComment, authz.ActWrite)).Delete("/{comment_id}", commentHandler.DeleteComment)
}
