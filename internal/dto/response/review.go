package response

import (
	"time"

	"yamdb/internal/data/entity"
)

type ReviewResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CommentResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID.String(),
		Text:    review.Text,
		Author:  review.AuthorUsername,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}

func CommentToResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID.String(),
		Text:    comment.Text,
		Author:  comment.AuthorUsername,
		PubDate: comment.PubDate,
	}
}
