package halserver

// author is the writer of a seeded book.
type author struct {
	Name string `json:"name"`
	Born int    `json:"born"`
}

// book is one entry of the seeded catalogue.
type book struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Author author `json:"-"`
}

func seedBooks() []book {
	return []book{
		{ID: 1, Title: "Moby-Dick", Year: 1851, Author: author{Name: "Herman Melville", Born: 1819}},
		{ID: 2, Title: "Flatland", Year: 1884, Author: author{Name: "Edwin A. Abbott", Born: 1838}},
		{ID: 3, Title: "Frankenstein", Year: 1818, Author: author{Name: "Mary Shelley", Born: 1797}},
		{ID: 4, Title: "The Time Machine", Year: 1895, Author: author{Name: "H. G. Wells", Born: 1866}},
		{ID: 5, Title: "Dracula", Year: 1897, Author: author{Name: "Bram Stoker", Born: 1847}},
		{ID: 6, Title: "The War of the Worlds", Year: 1898, Author: author{Name: "H. G. Wells", Born: 1866}},
		{ID: 7, Title: "Jane Eyre", Year: 1847, Author: author{Name: "Charlotte Brontë", Born: 1816}},
	}
}

// relDocs is the plain-text documentation served under /api/rels/{rel}.
var relDocs = map[string]string{
	"books":    "The paginated book catalogue. Accepts a 'page' query parameter.",
	"book":     "A single book of the catalogue, embedded in collection pages.",
	"featured": "A rotating selection of books, embedded in the API root.",
	"author":   "The author of a book, embedded in the book resource.",
}
