package newsapi

// APIResponse represents the NewsAPI "everything" endpoint response.
type APIResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Message      string       `json:"message"`
	Articles     []APIArticle `json:"articles"`
}

type APIArticle struct {
	Source      APISource `json:"source"`
	Author      *string   `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
	Content     string    `json:"content"`
}

type APISource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}
