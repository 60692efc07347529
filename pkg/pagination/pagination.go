package pagination

import "fmt"

type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalPages int
	TotalItems int
}

type Direction string

const (
	Previous Direction = "prev"
	Next     Direction = "next"
)

type NavLink struct {
	Direction Direction
	Label     string
	Page      int
}

// Paginate returns the requested page with the page number clamped into
// [1, TotalPages]. An empty list still has one (empty) page.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
	}
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// First is the 1-based position of the first item on the page, or 0 when empty.
func (p Page[T]) First() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PageSize + 1
}

func (p Page[T]) Last() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.First() + len(p.Items) - 1
}

// Navigation is empty for single-page results.
func (p Page[T]) Navigation() []NavLink {
	if p.TotalPages <= 1 {
		return nil
	}
	var links []NavLink
	if p.HasPrev() {
		links = append(links, NavLink{Direction: Previous, Label: "⬅️ Previous", Page: p.Page - 1})
	}
	if p.HasNext() {
		links = append(links, NavLink{Direction: Next, Label: "Next ➡️", Page: p.Page + 1})
	}
	return links
}

// InfoText describes the page, e.g. "Page 2/3 (showing 6-10 of 12 recipes)".
func (p Page[T]) InfoText(noun string) string {
	if p.TotalPages <= 1 {
		return fmt.Sprintf("Total: %d %s", p.TotalItems, noun)
	}
	return fmt.Sprintf("Page %d/%d (showing %d-%d of %d %s)",
		p.Page, p.TotalPages, p.First(), p.Last(), p.TotalItems, noun)
}
