package question

// Question is the client-facing shape of a trivia question.
type Question struct {
	ID         int32  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int32  `json:"category"`
	Difficulty int32  `json:"difficulty"`
}

// CategoryMap renders categories as the {id: type} object the quiz client expects.
type CategoryMap map[int32]string

// NewQuestion carries the fields required to create a question. Zero values count as missing.
type NewQuestion struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Category   int32  `json:"category" validate:"required"`
	Difficulty int32  `json:"difficulty" validate:"required"`
}

// Page is one slice of an ordered question listing plus the size of the whole listing.
type Page struct {
	Questions []Question
	Total     int
}

// ListPage extends Page with the category lookup shown next to the main listing.
type ListPage struct {
	Page
	Categories CategoryMap
}

// QuizRequest selects the next quiz question.
type QuizRequest struct {
	Category *int32 // nil means every category
	Previous []int32
}
