package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

// Seed book IDs are fixed so carts and orders survive restarts without a
// catalog snapshot present.
var (
	SeedGreatGatsby     = uuid.MustParse("7f4a1c1e-0001-4b6e-9a5d-3f6d6a2b9c01")
	SeedMockingbird     = uuid.MustParse("7f4a1c1e-0002-4b6e-9a5d-3f6d6a2b9c02")
	SeedNineteenEighty  = uuid.MustParse("7f4a1c1e-0003-4b6e-9a5d-3f6d6a2b9c03")
	SeedHobbit          = uuid.MustParse("7f4a1c1e-0004-4b6e-9a5d-3f6d6a2b9c04")
	SeedPridePrejudice  = uuid.MustParse("7f4a1c1e-0005-4b6e-9a5d-3f6d6a2b9c05")
	SeedCatcherInTheRye = uuid.MustParse("7f4a1c1e-0006-4b6e-9a5d-3f6d6a2b9c06")
)

// Seed returns the built-in catalog shipped with every deployment.
func Seed() []types.Book {
	return []types.Book{
		{
			ID:          SeedGreatGatsby,
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			Price:       decimal.RequireFromString("12.99"),
			Description: "Set in the Jazz Age on Long Island, the novel depicts narrator Nick Carraway's interactions with mysterious millionaire Jay Gatsby.",
			Category:    "Fiction",
			Stock:       25,
			CoverImage:  "https://images.unsplash.com/photo-1544947950-fa07a98d237f",
			Rating:      4.5,
			PublishDate: date(1925, 4, 10),
		},
		{
			ID:          SeedMockingbird,
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			Price:       decimal.RequireFromString("14.99"),
			Description: "Published in 1960, immediately successful and a classic of modern American literature.",
			Category:    "Fiction",
			Stock:       18,
			CoverImage:  "https://images.unsplash.com/photo-1541963463532-d68292c34b19",
			Rating:      4.8,
			PublishDate: date(1960, 7, 11),
		},
		{
			ID:          SeedNineteenEighty,
			Title:       "1984",
			Author:      "George Orwell",
			Price:       decimal.RequireFromString("11.99"),
			Description: "A dystopian novel set in Airstrip One, a province of the superstate Oceania in a world of perpetual war.",
			Category:    "Science Fiction",
			Stock:       15,
			CoverImage:  "https://images.unsplash.com/photo-1543002588-bfa74002ed7e",
			Rating:      4.7,
			PublishDate: date(1949, 6, 8),
		},
		{
			ID:          SeedHobbit,
			Title:       "The Hobbit",
			Author:      "J.R.R. Tolkien",
			Price:       decimal.RequireFromString("16.99"),
			Description: "The quest of home-loving hobbit Bilbo Baggins to win a share of the treasure guarded by Smaug the dragon.",
			Category:    "Fantasy",
			Stock:       22,
			CoverImage:  "https://images.unsplash.com/photo-1629992101753-56d196c8aabb",
			Rating:      4.9,
			PublishDate: date(1937, 9, 21),
		},
		{
			ID:          SeedPridePrejudice,
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Price:       decimal.RequireFromString("9.99"),
			Description: "A romantic novel of manners following the character development of Elizabeth Bennet.",
			Category:    "Romance",
			Stock:       20,
			CoverImage:  "https://images.unsplash.com/photo-1476275466078-4007374efbbe",
			Rating:      4.6,
			PublishDate: date(1813, 1, 28),
		},
		{
			ID:          SeedCatcherInTheRye,
			Title:       "The Catcher in the Rye",
			Author:      "J.D. Salinger",
			Price:       decimal.RequireFromString("13.99"),
			Description: "A story of post-World War II alienation told by angst-ridden 16-year-old Holden Caulfield.",
			Category:    "Fiction",
			Stock:       12,
			CoverImage:  "https://images.unsplash.com/photo-1610116306796-6fea9f4fae38",
			Rating:      4.3,
			PublishDate: date(1951, 7, 16),
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
