// Seeds the knowledge base: reads the offerings and FAQ JSON files,
// embeds each entry and upserts the points into Qdrant. Also creates a
// demo user so the API is usable right after a fresh migration.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/model"
	"ai-chatbot-be/pkg/database"
	"ai-chatbot-be/pkg/embedding"
	"ai-chatbot-be/pkg/utils"
	"ai-chatbot-be/pkg/vector/qdrant"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type companyData struct {
	CompanyInfo map[string]interface{} `json:"company_info"`
	Services    []service              `json:"services"`
}

type service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Benefits    []string `json:"benefits"`
	UseCases    []string `json:"use_cases"`
	Pricing     string   `json:"pricing"`
}

type faqEntry struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	embedder := embedding.NewOpenAIProvider(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel)
	vectors := qdrant.NewClient(cfg.Qdrant.URL, cfg.Qdrant.APIKey)

	seedDemoUser(db)

	if err := vectors.EnsureCollection(ctx, cfg.Qdrant.OfferingCollection, cfg.Qdrant.VectorSize); err != nil {
		log.Fatal("Error: Failed to ensure offerings collection:", err)
	}
	if err := vectors.EnsureCollection(ctx, cfg.Qdrant.FAQCollection, cfg.Qdrant.VectorSize); err != nil {
		log.Fatal("Error: Failed to ensure FAQ collection:", err)
	}

	offeringCount, err := seedOfferings(ctx, embedder, vectors, cfg.Qdrant.OfferingCollection, "data/company_offerings.json")
	if err != nil {
		log.Fatal("Error: Failed to seed offerings:", err)
	}
	faqCount, err := seedFAQ(ctx, embedder, vectors, cfg.Qdrant.FAQCollection, "data/faq_data.json")
	if err != nil {
		log.Fatal("Error: Failed to seed FAQ:", err)
	}

	color.Green("Seeding completed: %d offering points, %d FAQ points", offeringCount, faqCount)
}

// seedDemoUser creates a ready-to-use account unless one already exists.
func seedDemoUser(db *gorm.DB) {
	var existing model.User
	if err := db.Where("username = ?", "demo").First(&existing).Error; err == nil {
		log.Println("Demo user already exists, skipping...")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing demo password: %v", err)
		return
	}
	hashStr := string(hash)

	now := time.Now()
	user := model.User{
		Id:           uuid.New(),
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: &hashStr,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error creating demo user: %v", err)
		return
	}
	log.Println("Created demo user (demo / demo12345)")
}

func seedOfferings(ctx context.Context, embedder embedding.EmbeddingProvider, vectors *qdrant.Client, collection, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var data companyData
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, err
	}

	var points []qdrant.Point

	// Company overview becomes one point of its own
	if len(data.CompanyInfo) > 0 {
		companyText := companyOverviewText(data.CompanyInfo)
		vector, err := embedder.Embed(ctx, companyText)
		if err != nil {
			return 0, err
		}
		payload := map[string]interface{}{
			"type":     "company_info",
			"title":    fmt.Sprintf("%v Company Overview", data.CompanyInfo["name"]),
			"content":  companyText,
			"category": "company_info",
			"source":   "company_data",
		}
		points = append(points, qdrant.Point{
			ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte("company_info")).String(),
			Vector:  vector,
			Payload: payload,
		})
	}

	for _, svc := range data.Services {
		text := strings.TrimSpace(fmt.Sprintf(
			"Service: %s\nCategory: %s\nDescription: %s\nFeatures: %s\nBenefits: %s\nUse Cases: %s\nPricing: %s",
			svc.Title, svc.Category, svc.Description,
			strings.Join(svc.Features, ", "),
			strings.Join(svc.Benefits, ", "),
			strings.Join(svc.UseCases, ", "),
			svc.Pricing,
		))

		// Long service docs are chunked so each point stays within
		// comfortable embedding size.
		for i, chunk := range utils.SplitText(text, 1500, 200) {
			vector, err := embedder.Embed(ctx, chunk)
			if err != nil {
				return 0, err
			}

			points = append(points, qdrant.Point{
				ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("service_%s_%d", svc.ID, i))).String(),
				Vector: vector,
				Payload: map[string]interface{}{
					"type":       "service",
					"service_id": svc.ID,
					"title":      svc.Title,
					"category":   svc.Category,
					"content":    chunk,
					"source":     "company_offerings",
				},
			})
		}
	}

	if err := vectors.Upsert(ctx, collection, points); err != nil {
		return 0, err
	}
	return len(points), nil
}

func seedFAQ(ctx context.Context, embedder embedding.EmbeddingProvider, vectors *qdrant.Client, collection, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var faqs []faqEntry
	if err := json.Unmarshal(raw, &faqs); err != nil {
		return 0, err
	}

	var points []qdrant.Point
	for _, faq := range faqs {
		text := strings.TrimSpace(fmt.Sprintf(
			"Question: %s\nAnswer: %s\nCategory: %s\nKeywords: %s",
			faq.Question, faq.Answer, faq.Category, strings.Join(faq.Keywords, ", "),
		))

		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			return 0, err
		}

		points = append(points, qdrant.Point{
			ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte("faq_"+faq.ID)).String(),
			Vector: vector,
			Payload: map[string]interface{}{
				"type":     "faq",
				"faq_id":   faq.ID,
				"question": faq.Question,
				"answer":   faq.Answer,
				"category": faq.Category,
				"keywords": faq.Keywords,
				"content":  text,
				"source":   "faq_data",
			},
		})
	}

	if err := vectors.Upsert(ctx, collection, points); err != nil {
		return 0, err
	}
	return len(points), nil
}

func companyOverviewText(info map[string]interface{}) string {
	joined := func(key string) string {
		items, _ := info[key].([]interface{})
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	}

	return strings.TrimSpace(fmt.Sprintf(
		"Company: %v\nDescription: %v\nMission: %v\nEstablished: %v\nHeadquarters: %v\nGlobal Presence: %s\nExpertise: %s",
		info["name"], info["description"], info["mission"],
		info["established"], info["headquarters"],
		joined("global_presence"), joined("expertise"),
	))
}
