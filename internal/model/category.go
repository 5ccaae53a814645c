package model

// Category groups articles by theme. Slug is derived from Name on every
// write, same as the article slug.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Slug        string `json:"slug"`
}
