package schema

// ContentPostTable represents the 'content.post' table
type ContentPostTable struct {
	Table       string
	ID          string
	AuthorID    string
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Status      string
	PublishedAt string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// ContentPost is the schema definition for content.post
var ContentPost = ContentPostTable{
	Table:       "content.post",
	ID:          "id",
	AuthorID:    "authorid",
	Title:       "title",
	Slug:        "slug",
	Excerpt:     "excerpt",
	Body:        "body",
	Status:      "status",
	PublishedAt: "publishedat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t ContentPostTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.Title, t.Slug, t.Excerpt, t.Body,
		t.Status, t.PublishedAt, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
