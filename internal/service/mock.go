package service

import (
	"time"

	"github.com/iliyamo/cinemavault/internal/model"
)

// Placeholder posters used when no image is known.
const (
	placeholderDetailPoster = "/placeholder.svg?height=600&width=400"
	placeholderSearchPoster = "/placeholder.svg?height=400&width=300"
)

// mockMovies is the static catalog served when every upstream host fails.
var mockMovies = []model.Movie{
	{
		ID: "1", Title: "The Matrix",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZjNkYzNjNTc4L2ltYWdlXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_.jpg",
		Genre:       "Sci-Fi", Year: 1999, Duration: 136, Rating: 8.7, Price: 0.05,
		Description: "A computer hacker learns about the true nature of reality and his role in the war against its controllers.",
		Director:    "Lana Wachowski",
		Cast:        []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss"},
		ReleaseDate: "1999-03-31",
	},
	{
		ID: "2", Title: "Inception",
		Poster:      "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_.jpg",
		Genre:       "Sci-Fi", Year: 2010, Duration: 148, Rating: 8.8, Price: 0.07,
		Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
		Director:    "Christopher Nolan",
		Cast:        []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Ellen Page"},
		ReleaseDate: "2010-07-16",
	},
	{
		ID: "3", Title: "The Dark Knight",
		Poster:      "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_.jpg",
		Genre:       "Action", Year: 2008, Duration: 152, Rating: 9.0, Price: 0.06,
		Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
		Director:    "Christopher Nolan",
		Cast:        []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart"},
		ReleaseDate: "2008-07-18",
	},
	{
		ID: "4", Title: "Pulp Fiction",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MjljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
		Genre:       "Crime", Year: 1994, Duration: 154, Rating: 8.9, Price: 0.04,
		Description: "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
		Director:    "Quentin Tarantino",
		Cast:        []string{"John Travolta", "Uma Thurman", "Samuel L. Jackson"},
		ReleaseDate: "1994-10-14",
	},
	{
		ID: "5", Title: "Forrest Gump",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNWIwODRlZTUtY2U3ZS00Yzg1LWJhNzYtMmZiYmEyNmU1NjMzXkEyXkFqcGdeQXVyMTQxNzMzNDI@._V1_.jpg",
		Genre:       "Drama", Year: 1994, Duration: 142, Rating: 8.8, Price: 0.05,
		Description: "The presidencies of Kennedy and Johnson, the Vietnam War, the Watergate scandal and other historical events unfold from the perspective of an Alabama man with an IQ of 75.",
		Director:    "Robert Zemeckis",
		Cast:        []string{"Tom Hanks", "Robin Wright", "Gary Sinise"},
		ReleaseDate: "1994-07-06",
	},
	{
		ID: "6", Title: "The Shawshank Redemption",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNDE3ODcxYzMtY2YzZC00NmNlLWJiNDMtZDViZWM2MzIxZDYwXkEyXkFqcGdeQXVyNjAwNDUxODI@._V1_.jpg",
		Genre:       "Drama", Year: 1994, Duration: 142, Rating: 9.3, Price: 0.06,
		Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		Director:    "Frank Darabont",
		Cast:        []string{"Tim Robbins", "Morgan Freeman", "Bob Gunton"},
		ReleaseDate: "1994-09-23",
	},
	{
		ID: "7", Title: "The Godfather",
		Poster:      "https://m.media-amazon.com/images/M/MV5BM2MyNjYxNmUtYTAwNi00MTYxLWJmNWYtYzZlODY3ZTk3OTFlXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
		Genre:       "Crime", Year: 1972, Duration: 175, Rating: 9.2, Price: 0.07,
		Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		Director:    "Francis Ford Coppola",
		Cast:        []string{"Marlon Brando", "Al Pacino", "James Caan"},
		ReleaseDate: "1972-03-24",
	},
	{
		ID: "8", Title: "Fight Club",
		Poster:      "https://m.media-amazon.com/images/M/MV5BMmEzNTkxYjQtZTc0MC00YTVjLTg5ZTEtZWMwOWVlYzY0NWIwXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_.jpg",
		Genre:       "Drama", Year: 1999, Duration: 139, Rating: 8.8, Price: 0.05,
		Description: "An insomniac office worker and a devil-may-care soapmaker form an underground fight club that evolves into something much, much more.",
		Director:    "David Fincher",
		Cast:        []string{"Brad Pitt", "Edward Norton", "Helena Bonham Carter"},
		ReleaseDate: "1999-11-10",
	},
}

// mockDetails backs the detail route when the upstream is unreachable.
var mockDetails = map[string]model.Movie{
	"1": {
		ID: "1", Title: "The Matrix",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNzQzOTk3OTAtNDQ0Zi00ZTVkLWI0MTEtMDllZjNkYzNjNTc4L2ltYWdlXkEyXkFqcGdeQXVyNjU0OTQ0OTY@._V1_SX300.jpg",
		Genre:       "Sci-Fi", Year: 1999, Duration: 136, Rating: 8.7, Price: 0.049,
		Description: "A computer programmer discovers that reality as he knows it is a simulation controlled by machines. He joins a rebellion to free humanity from the Matrix.",
		Director:    "The Wachowskis",
		Cast:        []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss", "Hugo Weaving"},
		ReleaseDate: "1999-03-31",
	},
	"2": {
		ID: "2", Title: "Inception",
		Poster:      "https://m.media-amazon.com/images/M/MV5BMjAxMzY3NjcxNF5BMl5BanBnXkFtZTcwNTI5OTM0Mw@@._V1_SX300.jpg",
		Genre:       "Thriller", Year: 2010, Duration: 148, Rating: 8.8, Price: 0.059,
		Description: "A thief who steals corporate secrets through the use of dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O.",
		Director:    "Christopher Nolan",
		Cast:        []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Ellen Page", "Tom Hardy"},
		ReleaseDate: "2010-07-16",
	},
	"3": {
		ID: "3", Title: "Interstellar",
		Poster:      "https://m.media-amazon.com/images/M/MV5BZjdkOTU3MDktN2IxOS00OGEyLWFmMjktY2FiMmZkNWIyODZiXkEyXkFqcGdeQXVyMTMxODk2OTU@._V1_SX300.jpg",
		Genre:       "Sci-Fi", Year: 2014, Duration: 169, Rating: 8.6, Price: 0.069,
		Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
		Director:    "Christopher Nolan",
		Cast:        []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain", "Michael Caine"},
		ReleaseDate: "2014-11-07",
	},
	"4": {
		ID: "4", Title: "The Dark Knight",
		Poster:      "https://m.media-amazon.com/images/M/MV5BMTMxNTMwODM0NF5BMl5BanBnXkFtZTcwODAyMTk2Mw@@._V1_SX300.jpg",
		Genre:       "Action", Year: 2008, Duration: 152, Rating: 9.0, Price: 0.059,
		Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest psychological and physical tests of his ability to fight injustice.",
		Director:    "Christopher Nolan",
		Cast:        []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart", "Michael Caine"},
		ReleaseDate: "2008-07-18",
	},
	"5": {
		ID: "5", Title: "Pulp Fiction",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MjljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
		Genre:       "Crime", Year: 1994, Duration: 154, Rating: 8.9, Price: 0.049,
		Description: "The lives of two mob hitmen, a boxer, a gangster and his wife, and a pair of diner bandits intertwine in four tales of violence and redemption.",
		Director:    "Quentin Tarantino",
		Cast:        []string{"John Travolta", "Samuel L. Jackson", "Uma Thurman", "Bruce Willis"},
		ReleaseDate: "1994-10-14",
	},
	"6": {
		ID: "6", Title: "The Godfather",
		Poster:      "https://m.media-amazon.com/images/M/MV5BM2MyNjYxNmUtYTAwNi00MTYxLWJmNWYtYzZlODY3ZTk3OTFlXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
		Genre:       "Crime", Year: 1972, Duration: 175, Rating: 9.2, Price: 0.069,
		Description: "The aging patriarch of an organized crime dynasty transfers control of his clandestine empire to his reluctant son.",
		Director:    "Francis Ford Coppola",
		Cast:        []string{"Marlon Brando", "Al Pacino", "James Caan", "Richard S. Castellano"},
		ReleaseDate: "1972-03-24",
	},
	"7": {
		ID: "7", Title: "Forrest Gump",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNWIwODRlZTUtY2U3ZS00Yzg1LWJhNzYtMmZiYmEyNmU1NjMzXkEyXkFqcGdeQXVyMTQxNzMzNDI@._V1_SX300.jpg",
		Genre:       "Drama", Year: 1994, Duration: 142, Rating: 8.8, Price: 0.059,
		Description: "The presidencies of Kennedy and Johnson, the Vietnam War, the Watergate scandal and other historical events unfold from the perspective of an Alabama man with an IQ of 75, whose only desire is to be reunited with his childhood sweetheart.",
		Director:    "Robert Zemeckis",
		Cast:        []string{"Tom Hanks", "Robin Wright", "Gary Sinise", "Sally Field"},
		ReleaseDate: "1994-07-06",
	},
	"8": {
		ID: "8", Title: "The Shawshank Redemption",
		Poster:      "https://m.media-amazon.com/images/M/MV5BNDE3ODcxYzMtY2YzZC00NmNlLWJiNDMtZDViZWM2MzIxZDYwXkEyXkFqcGdeQXVyNjAwNDUxODI@._V1_SX300.jpg",
		Genre:       "Drama", Year: 1994, Duration: 142, Rating: 9.3, Price: 0.069,
		Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		Director:    "Frank Darabont",
		Cast:        []string{"Tim Robbins", "Morgan Freeman", "Bob Gunton", "William Sadler"},
		ReleaseDate: "1994-09-23",
	},
}

// MockMovies returns a copy of the static catalog.
func MockMovies() []model.Movie {
	out := make([]model.Movie, len(mockMovies))
	copy(out, mockMovies)
	return out
}

// sampleMovie is the generic record for ids missing from every source.
func sampleMovie(id string) model.Movie {
	return model.Movie{
		ID:          id,
		Title:       "Sample Movie " + id,
		Poster:      placeholderDetailPoster,
		Genre:       "Action",
		Year:        2024,
		Duration:    120,
		Rating:      8.0,
		Price:       0.059,
		Description: "A sample movie description for demonstration purposes.",
		Director:    "Sample Director",
		Cast:        []string{"Actor One", "Actor Two"},
		ReleaseDate: "2024-01-01",
	}
}

// UserDetail is the staff profile shape returned by the detail route.
type UserDetail struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DateJoined string `json:"dateJoined"`
	LastLogin  string `json:"lastLogin"`
}

func mockUserDetail(username string, now time.Time) UserDetail {
	return UserDetail{
		Username:   username,
		Email:      "staff@cinemavault.com",
		Phone:      "+1234567890",
		FirstName:  "John",
		LastName:   "Staff",
		DateJoined: "2024-01-01",
		LastLogin:  now.UTC().Format(time.RFC3339),
	}
}
