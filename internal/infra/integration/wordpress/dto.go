package wordpress

// rendered is how the WordPress REST API wraps every HTML field.
type rendered struct {
	Rendered string `json:"rendered"`
}

type Post struct {
	ID         int      `json:"id"`
	Slug       string   `json:"slug"`
	Date       string   `json:"date"`
	Link       string   `json:"link"`
	Title      rendered `json:"title"`
	Excerpt    rendered `json:"excerpt"`
	Content    rendered `json:"content"`
	Categories []int    `json:"categories"`
}

type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}
