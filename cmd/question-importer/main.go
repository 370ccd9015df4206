// Imports a question-bank JSON file into the application database.
//
// Usage: question-importer <bank.json> [more.json ...]
package main

import (
	"fmt"
	"log"
	"os"

	"pharmprep/database"
	"pharmprep/models"
	"pharmprep/qbank"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: question-importer <bank.json> [more.json ...]")
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	defer database.CloseDB()

	repo := database.NewRepository[models.Question](nil)
	db := database.GetDB()

	totalImported := 0
	for _, path := range os.Args[1:] {
		bank, err := qbank.ParseFile(path)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}

		result := qbank.Validate(bank)
		if !result.Valid() {
			for _, issue := range result.Issues {
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, issue)
			}
			log.Fatalf("%s: validation failed (%d issues)", path, len(result.Issues))
		}

		questions, links, err := qbank.ToModels(bank)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}

		if err := repo.BulkCreate(questions, 500); err != nil {
			log.Fatalf("%s: import failed: %v", path, err)
		}

		linked := 0
		for i, topicID := range links {
			if topicID == 0 {
				continue
			}
			if err := db.Create(&models.TopicQuestion{
				TopicID:    topicID,
				QuestionID: questions[i].ID,
			}).Error; err != nil {
				log.Printf("%s: question %d: topic link failed: %v", path, questions[i].ID, err)
				continue
			}
			linked++
		}

		fmt.Printf("%s: imported %d questions (%d linked to topics)\n", path, len(questions), linked)
		totalImported += len(questions)
	}

	var count int64
	db.Model(&models.Question{}).Count(&count)
	fmt.Printf("\n✓ Imported %d questions this run\n", totalImported)
	fmt.Printf("✓ Total questions in database: %d\n", count)
}
