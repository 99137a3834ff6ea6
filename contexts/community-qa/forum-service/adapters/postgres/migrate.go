package postgresadapter

import "gorm.io/gorm"

// Migrate creates or updates the forum tables and their unique indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&questionModel{},
		&answerModel{},
		&voteModel{},
		&notificationModel{},
		&followModel{},
		&tagModel{},
		&questionTagModel{},
		&relatedQuestionModel{},
		&questionViewModel{},
		&flagModel{},
		&faqModel{},
	)
}
