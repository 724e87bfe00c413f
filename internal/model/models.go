package model

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Article{},
		&ArticleTag{},
		&Comment{},
		&Reaction{},
		&SavedArticle{},
		&ReadingHistory{},
		&ArticleTransition{},
	}
}
