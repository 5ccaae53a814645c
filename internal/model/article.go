// Package model defines the data structures used throughout the application.
// Field names on the wire and in the database keep the original Portuguese
// schema (titulo, conteudo, categorias) because the admin frontend and the
// stored data predate this server.
package model

import "time"

// Article is a published or draft editorial article.
//
// Conteudo holds the rich-text HTML exactly as the editor submitted it.
// It is sanitized on every render, never on write, so a policy change
// applies retroactively and the admin editor always gets the raw markup back.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titulo"`
	Subtitle  string    `json:"subtitulo"`
	Slug      string    `json:"slug"`
	Content   string    `json:"conteudo"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CategoryIDs is the deduplicated set of associated category IDs,
	// aggregated from the artigo_categorias join table. Order is not
	// meaningful.
	CategoryIDs []int64 `json:"categorias"`

	// AuthorName and Categories are populated only by the by-slug lookup,
	// which joins the author row and aggregates full category objects for
	// the public article page.
	AuthorName string        `json:"autor_nome,omitempty"`
	Categories []CategoryRef `json:"categorias_list,omitempty"`
}

// CategoryRef is the id+name pair shown as a chip on the article page.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}
